package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/markotdel/adguardvpn-gui/cli"
	"github.com/markotdel/adguardvpn-gui/common"
	"github.com/markotdel/adguardvpn-gui/stats"
)

// MainWindow is the status window: connection header, action buttons and
// the searchable location list.
type MainWindow struct {
	app    *Application
	window *adw.ApplicationWindow

	statusTitle  *gtk.Label
	statusDetail *gtk.Label
	trafficLabel *gtk.Label
	spinner      *gtk.Spinner

	fastestBtn    *gtk.Button
	disconnectBtn *gtk.Button

	search       *gtk.SearchEntry
	locationList *gtk.ListBox
	locations    []cli.Location
}

// NewMainWindow builds the window and kicks off the initial location load.
func NewMainWindow(app *Application) *MainWindow {
	w := &MainWindow{app: app}

	w.window = adw.NewApplicationWindow(&app.app.Application)
	w.window.SetTitle(common.AppName)
	w.window.SetDefaultSize(app.config.WindowWidth, app.config.WindowHeight)

	if app.config.MinimizeToTray {
		w.window.ConnectCloseRequest(func() bool {
			w.window.SetVisible(false)
			return true // keep running in the tray
		})
	}

	toolbar := adw.NewToolbarView()
	header := adw.NewHeaderBar()
	title := gtk.NewLabel(common.AppName)
	title.AddCSSClass("title-2")
	header.SetTitleWidget(title)

	settingsBtn := gtk.NewButtonFromIconName("emblem-system-symbolic")
	settingsBtn.SetTooltipText("Settings")
	settingsBtn.ConnectClicked(w.showSettings)
	header.PackEnd(settingsBtn)

	exclusionsBtn := gtk.NewButtonFromIconName("view-list-symbolic")
	exclusionsBtn.SetTooltipText("Site exclusions")
	exclusionsBtn.ConnectClicked(w.showExclusions)
	header.PackEnd(exclusionsBtn)

	statsBtn := gtk.NewButtonFromIconName("utilities-system-monitor-symbolic")
	statsBtn.SetTooltipText("Traffic statistics")
	statsBtn.ConnectClicked(w.showStatistics)
	header.PackEnd(statsBtn)

	toolbar.AddTopBar(header)
	toolbar.SetContent(w.buildContent())
	w.window.SetContent(toolbar)

	w.UpdateStatus(app.manager.State(), app.manager.Status())
	go w.loadLocations()
	return w
}

func (w *MainWindow) buildContent() gtk.Widgetter {
	root := gtk.NewBox(gtk.OrientationVertical, 12)
	root.SetMarginTop(16)
	root.SetMarginBottom(16)
	root.SetMarginStart(16)
	root.SetMarginEnd(16)

	// Status header.
	statusBox := gtk.NewBox(gtk.OrientationVertical, 4)
	statusBox.AddCSSClass("status-card")

	w.statusTitle = gtk.NewLabel("Disconnected")
	w.statusTitle.AddCSSClass("title-1")
	statusBox.Append(w.statusTitle)

	w.statusDetail = gtk.NewLabel("")
	w.statusDetail.AddCSSClass("dim-label")
	statusBox.Append(w.statusDetail)

	w.trafficLabel = gtk.NewLabel("")
	w.trafficLabel.AddCSSClass("dim-label")
	statusBox.Append(w.trafficLabel)

	root.Append(statusBox)

	// Action row.
	actions := gtk.NewBox(gtk.OrientationHorizontal, 8)
	actions.SetHAlign(gtk.AlignCenter)

	w.fastestBtn = gtk.NewButtonWithLabel("Connect Fastest")
	w.fastestBtn.AddCSSClass("suggested-action")
	w.fastestBtn.ConnectClicked(func() { w.connectTo("") })
	actions.Append(w.fastestBtn)

	w.disconnectBtn = gtk.NewButtonWithLabel("Disconnect")
	w.disconnectBtn.AddCSSClass("destructive-action")
	w.disconnectBtn.SetSensitive(false)
	w.disconnectBtn.ConnectClicked(w.disconnect)
	actions.Append(w.disconnectBtn)

	w.spinner = gtk.NewSpinner()
	actions.Append(w.spinner)

	root.Append(actions)

	// Location search + list.
	w.search = gtk.NewSearchEntry()
	w.search.SetObjectProperty("placeholder-text", "Search locations")
	w.search.ConnectSearchChanged(func() {
		w.locationList.InvalidateFilter()
	})
	root.Append(w.search)

	w.locationList = gtk.NewListBox()
	w.locationList.SetSelectionMode(gtk.SelectionNone)
	w.locationList.AddCSSClass("boxed-list")
	w.locationList.SetFilterFunc(w.filterRow)
	w.locationList.ConnectRowActivated(func(row *gtk.ListBoxRow) {
		idx := row.Index()
		if idx >= 0 && idx < len(w.locations) {
			w.connectTo(w.locations[idx].City)
		}
	})

	scroll := gtk.NewScrolledWindow()
	scroll.SetPolicy(gtk.PolicyNever, gtk.PolicyAutomatic)
	scroll.SetVExpand(true)
	scroll.SetChild(w.locationList)
	root.Append(scroll)

	return root
}

func (w *MainWindow) filterRow(row *gtk.ListBoxRow) bool {
	query := strings.ToLower(strings.TrimSpace(w.search.Text()))
	if query == "" {
		return true
	}
	idx := row.Index()
	if idx < 0 || idx >= len(w.locations) {
		return true
	}
	loc := w.locations[idx]
	hay := strings.ToLower(loc.City + " " + loc.Country + " " + loc.ISO)
	return strings.Contains(hay, query)
}

// loadLocations fetches the location table off the UI thread.
func (w *MainWindow) loadLocations() {
	locs, err := w.app.manager.Runner().QueryLocations(context.Background(), 0)
	glib.IdleAdd(func() {
		if err != nil {
			w.app.logger.Warn("could not load locations: %v", err)
			w.statusDetail.SetText("Could not load locations: " + err.Error())
			return
		}
		w.setLocations(locs)
	})
}

func (w *MainWindow) setLocations(locs []cli.Location) {
	w.locations = locs
	for {
		row := w.locationList.RowAtIndex(0)
		if row == nil {
			break
		}
		w.locationList.Remove(row)
	}
	for _, loc := range locs {
		w.locationList.Append(locationRow(loc))
	}
}

func locationRow(loc cli.Location) gtk.Widgetter {
	box := gtk.NewBox(gtk.OrientationHorizontal, 12)
	box.SetMarginTop(8)
	box.SetMarginBottom(8)
	box.SetMarginStart(12)
	box.SetMarginEnd(12)

	city := gtk.NewLabel(loc.City)
	city.SetXAlign(0)
	city.SetHExpand(true)
	box.Append(city)

	country := gtk.NewLabel(fmt.Sprintf("%s (%s)", loc.Country, loc.ISO))
	country.AddCSSClass("dim-label")
	box.Append(country)

	ping := gtk.NewLabel(fmt.Sprintf("%d ms", loc.Ping))
	ping.AddCSSClass(pingClass(loc.Ping))
	box.Append(ping)

	return box
}

func pingClass(ping int) string {
	switch {
	case ping < 60:
		return "ping-good"
	case ping < 150:
		return "ping-fair"
	default:
		return "ping-poor"
	}
}

// connectTo starts a connection off the UI thread. Empty location means
// fastest.
func (w *MainWindow) connectTo(location string) {
	w.setBusy(true, "Connecting...")
	if w.app.config.RememberLastLocation && location != "" {
		w.app.config.LastLocation = location
	}
	go func() {
		err := w.app.manager.Connect(context.Background(), location)
		glib.IdleAdd(func() {
			w.setBusy(false, "")
			if err != nil {
				w.statusDetail.SetText("Connect failed: " + err.Error())
			}
			w.UpdateStatus(w.app.manager.State(), w.app.manager.Status())
		})
	}()
}

func (w *MainWindow) disconnect() {
	w.setBusy(true, "Disconnecting...")
	go func() {
		err := w.app.manager.Disconnect(context.Background())
		glib.IdleAdd(func() {
			w.setBusy(false, "")
			if err != nil {
				w.statusDetail.SetText("Disconnect failed: " + err.Error())
			}
			w.UpdateStatus(w.app.manager.State(), w.app.manager.Status())
		})
	}()
}

func (w *MainWindow) setBusy(busy bool, label string) {
	w.fastestBtn.SetSensitive(!busy)
	w.locationList.SetSensitive(!busy)
	if busy {
		w.spinner.Start()
		w.statusTitle.SetText(label)
	} else {
		w.spinner.Stop()
	}
}

// UpdateStatus refreshes the header. Must run on the GTK main loop.
func (w *MainWindow) UpdateStatus(state common.ConnectionState, status cli.Status) {
	switch state {
	case common.StateConnected:
		w.statusTitle.SetText("Connected")
		detail := status.Location
		if status.Mode != "" {
			detail += " · " + status.Mode + " mode"
		}
		if status.Iface != "" {
			detail += " · " + status.Iface
		}
		w.statusDetail.SetText(detail)
		w.disconnectBtn.SetSensitive(true)
		w.updateTraffic()
	case common.StateError:
		w.statusTitle.SetText("Error")
		if err := w.app.manager.LastError(); err != nil {
			w.statusDetail.SetText(err.Error())
		}
		w.disconnectBtn.SetSensitive(false)
	default:
		w.statusTitle.SetText(state.String())
		w.statusDetail.SetText("")
		w.trafficLabel.SetText("")
		w.disconnectBtn.SetSensitive(false)
	}
}

func (w *MainWindow) updateTraffic() {
	total, err := w.app.store.DayTotal(stats.Today())
	if err != nil {
		return
	}
	w.trafficLabel.SetText(fmt.Sprintf("Today: ↓ %s  ↑ %s",
		common.HumanBytes(total.RX), common.HumanBytes(total.TX)))
}

// Present raises the window.
func (w *MainWindow) Present() {
	w.window.SetVisible(true)
	w.window.Present()
}
