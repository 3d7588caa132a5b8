package ui

import (
	"context"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/markotdel/adguardvpn-gui/cli"
	"github.com/markotdel/adguardvpn-gui/common"
	"github.com/markotdel/adguardvpn-gui/config"
	"github.com/markotdel/adguardvpn-gui/stats"
	"github.com/markotdel/adguardvpn-gui/vpn"
)

// Application ties the window, tray, monitor and stats collector together.
type Application struct {
	app       *adw.Application
	window    *MainWindow
	tray      *Tray
	manager   *vpn.Manager
	monitor   *vpn.Monitor
	collector *stats.Collector
	store     *stats.Store
	config    *config.Config
	notifier  common.Notifier
	logger    common.Logger
	version   string
}

// Deps carries everything the GUI needs; main builds it once.
type Deps struct {
	Manager   *vpn.Manager
	Store     *stats.Store
	Collector *stats.Collector
	Config    *config.Config
	Logger    common.Logger
	Version   string
}

// NewApplication creates the adwaita application.
func NewApplication(deps Deps) *Application {
	a := &Application{
		app:       adw.NewApplication(common.AppID, gio.ApplicationFlagsNone),
		manager:   deps.Manager,
		store:     deps.Store,
		collector: deps.Collector,
		config:    deps.Config,
		logger:    deps.Logger,
		version:   deps.Version,
	}
	a.notifier = NewNotifier(deps.Logger)
	a.monitor = vpn.NewMonitor(deps.Manager, pollInterval(deps.Config), deps.Logger)

	a.app.ConnectActivate(a.onActivate)
	return a
}

func pollInterval(cfg *config.Config) time.Duration {
	return time.Duration(cfg.PollIntervalSeconds) * time.Second
}

// Run enters the GTK main loop and blocks until quit.
func (a *Application) Run(args []string) int {
	return a.app.Run(args)
}

func (a *Application) onActivate() {
	LoadStyles()

	a.window = NewMainWindow(a)
	a.window.Present()

	a.tray = NewTray(a)
	go a.tray.Run()

	a.monitor.SetOnChange(a.onStateChange)
	a.monitor.Start()
}

// onStateChange runs on the monitor goroutine; UI updates hop to the GTK
// main loop via glib.IdleAdd.
func (a *Application) onStateChange(oldState, newState common.ConnectionState, status cli.Status) {
	a.logger.Info("connection state: %s -> %s", oldState, newState)

	switch newState {
	case common.StateConnected:
		if status.Iface != "" {
			a.collector.Start(status.Iface, status.Location)
		}
		if a.config.ShowNotifications {
			a.notifier.Notify("VPN Connected", "Connected to "+status.Location)
		}
	case common.StateDisconnected:
		a.collector.Stop()
		if a.config.ShowNotifications && oldState == common.StateConnected {
			a.notifier.Notify("VPN Disconnected", "The VPN connection was closed")
		}
	case common.StateError:
		a.collector.Stop()
		if a.config.ShowNotifications {
			msg := "The VPN reported an error"
			if err := a.manager.LastError(); err != nil {
				msg = err.Error()
			}
			a.notifier.Notify("VPN Error", msg)
		}
	}

	if a.tray != nil {
		a.tray.SetState(newState, status)
	}
	glib.IdleAdd(func() {
		if a.window != nil {
			a.window.UpdateStatus(newState, status)
		}
	})
}

// Manager returns the connection manager.
func (a *Application) Manager() *vpn.Manager {
	return a.manager
}

// Config returns the loaded preferences.
func (a *Application) Config() *config.Config {
	return a.config
}

// Store returns the traffic statistics store.
func (a *Application) Store() *stats.Store {
	return a.store
}

// showWindow presents the main window from any goroutine.
func (a *Application) showWindow() {
	glib.IdleAdd(func() {
		if a.window != nil {
			a.window.Present()
		}
	})
}

// Quit disconnects best-effort, stops the background loops and leaves the
// main loop.
func (a *Application) Quit() {
	a.monitor.Stop()
	a.collector.Stop()
	if a.manager.State() == common.StateConnected {
		if err := a.manager.Disconnect(context.Background()); err != nil {
			a.logger.Warn("disconnect on quit failed: %v", err)
		}
	}
	if err := a.config.Save(); err != nil {
		a.logger.Warn("could not save preferences: %v", err)
	}
	glib.IdleAdd(func() {
		a.app.Quit()
	})
}
