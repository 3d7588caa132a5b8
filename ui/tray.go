package ui

import (
	"context"
	"fmt"

	"fyne.io/systray"

	"github.com/markotdel/adguardvpn-gui/cli"
	"github.com/markotdel/adguardvpn-gui/common"
)

// Pre-generated icons, tray state changes only swap bytes.
var (
	iconConnected    = ConnectedIcon()
	iconDisconnected = DisconnectedIcon()
)

// Tray is the system tray indicator: status line plus quick actions.
type Tray struct {
	app            *Application
	statusItem     *systray.MenuItem
	connectItem    *systray.MenuItem
	disconnectItem *systray.MenuItem
}

// NewTray creates the tray indicator.
func NewTray(app *Application) *Tray {
	return &Tray{app: app}
}

// Run starts the tray loop. Blocks; call from a goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconDisconnected)
	systray.SetTitle(common.AppName)
	systray.SetTooltip(common.AppName + " - Disconnected")

	t.statusItem = systray.AddMenuItem("○  Disconnected", "Current VPN status")
	t.statusItem.Disable()

	systray.AddSeparator()

	t.connectItem = systray.AddMenuItem("Connect", "Connect to the fastest location")
	go func() {
		for range t.connectItem.ClickedCh {
			t.connect()
		}
	}()

	t.disconnectItem = systray.AddMenuItem("Disconnect", "Disconnect the VPN")
	t.disconnectItem.Hide()
	go func() {
		for range t.disconnectItem.ClickedCh {
			t.disconnect()
		}
	}()

	systray.AddSeparator()

	openItem := systray.AddMenuItem("Open "+common.AppName, "Show the main window")
	go func() {
		for range openItem.ClickedCh {
			t.app.showWindow()
		}
	}()

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Disconnect and exit")
	go func() {
		for range quitItem.ClickedCh {
			t.app.Quit()
			systray.Quit()
		}
	}()

	// Reflect whatever state the monitor has already seen.
	t.SetState(t.app.manager.State(), t.app.manager.Status())
}

func (t *Tray) onExit() {
	t.app.logger.Info("tray indicator stopped")
}

// connect honors the remembered location when the preference is on.
func (t *Tray) connect() {
	location := ""
	if t.app.config.RememberLastLocation {
		location = t.app.config.LastLocation
	}
	go func() {
		if err := t.app.manager.Connect(context.Background(), location); err != nil {
			t.app.logger.Warn("tray connect failed: %v", err)
		}
		t.SetState(t.app.manager.State(), t.app.manager.Status())
	}()
}

func (t *Tray) disconnect() {
	go func() {
		if err := t.app.manager.Disconnect(context.Background()); err != nil {
			t.app.logger.Warn("tray disconnect failed: %v", err)
		}
		t.SetState(t.app.manager.State(), t.app.manager.Status())
	}()
}

// SetState updates the icon and menu. Safe from any goroutine; systray
// serializes its own calls.
func (t *Tray) SetState(state common.ConnectionState, status cli.Status) {
	if t.statusItem == nil {
		return
	}
	switch state {
	case common.StateConnected:
		systray.SetIcon(iconConnected)
		systray.SetTooltip(fmt.Sprintf("%s - Connected to %s", common.AppName, status.Location))
		t.statusItem.SetTitle("●  Connected: " + status.Location)
		t.connectItem.Hide()
		t.disconnectItem.Show()
	case common.StateConnecting:
		systray.SetTooltip(common.AppName + " - Connecting...")
		t.statusItem.SetTitle("⟳  Connecting...")
	case common.StateError:
		systray.SetIcon(iconDisconnected)
		systray.SetTooltip(common.AppName + " - Error")
		t.statusItem.SetTitle("!  Error")
		t.connectItem.Show()
		t.disconnectItem.Hide()
	default:
		systray.SetIcon(iconDisconnected)
		systray.SetTooltip(common.AppName + " - Disconnected")
		t.statusItem.SetTitle("○  Disconnected")
		t.connectItem.Show()
		t.disconnectItem.Hide()
	}
}
