package ui

import (
	"context"
	"os"
	"strings"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/markotdel/adguardvpn-gui/cli"
)

// ComboRow option sets, index-aligned with the CLI values.
var (
	modeValues     = []string{"tun", "socks"}
	protocolValues = []string{"auto", "http2", "quic"}
	channelValues  = []string{"release", "beta", "nightly"}
)

// showSettings opens the preferences dialog: GUI preferences on top, the
// tunnel/privacy/client settings written through `adguardvpn-cli config
// set-*` below.
func (w *MainWindow) showSettings() {
	cfg := w.app.config

	win := adw.NewWindow()
	win.SetTitle("Settings")
	win.SetDefaultSize(460, 640)
	win.SetTransientFor(&w.window.Window)
	win.SetModal(true)

	toolbar := adw.NewToolbarView()
	toolbar.AddTopBar(adw.NewHeaderBar())

	page := adw.NewPreferencesPage()

	// Application preferences, persisted to the YAML config.
	appGroup := adw.NewPreferencesGroup()
	appGroup.SetTitle("Application")

	notifRow := adw.NewSwitchRow()
	notifRow.SetTitle("Desktop notifications")
	notifRow.SetActive(cfg.ShowNotifications)
	notifRow.Connect("notify::active", func() {
		cfg.ShowNotifications = notifRow.Active()
	})
	appGroup.Add(notifRow)

	trayRow := adw.NewSwitchRow()
	trayRow.SetTitle("Minimize to tray on close")
	trayRow.SetActive(cfg.MinimizeToTray)
	trayRow.Connect("notify::active", func() {
		cfg.MinimizeToTray = trayRow.Active()
	})
	appGroup.Add(trayRow)

	rememberRow := adw.NewSwitchRow()
	rememberRow.SetTitle("Remember last location")
	rememberRow.SetSubtitle("Connect reuses the most recent location")
	rememberRow.SetActive(cfg.RememberLastLocation)
	rememberRow.Connect("notify::active", func() {
		cfg.RememberLastLocation = rememberRow.Active()
	})
	appGroup.Add(rememberRow)

	page.Add(appGroup)

	// Tunnel settings, applied through the CLI.
	tunnelGroup := adw.NewPreferencesGroup()
	tunnelGroup.SetTitle("Tunnel")
	tunnelGroup.SetDescription("Applied with adguardvpn-cli")

	modeRow := adw.NewComboRow()
	modeRow.SetTitle("Operating mode")
	modeRow.SetModel(gtk.NewStringList([]string{"TUN", "SOCKS"}))
	tunnelGroup.Add(modeRow)

	protocolRow := adw.NewComboRow()
	protocolRow.SetTitle("Protocol")
	protocolRow.SetModel(gtk.NewStringList([]string{"Auto", "HTTP/2", "QUIC"}))
	tunnelGroup.Add(protocolRow)

	dnsRow := adw.NewEntryRow()
	dnsRow.SetTitle("DNS upstream")
	tunnelGroup.Add(dnsRow)

	systemDNSRow := adw.NewSwitchRow()
	systemDNSRow.SetTitle("Change system DNS")
	tunnelGroup.Add(systemDNSRow)

	pqRow := adw.NewSwitchRow()
	pqRow.SetTitle("Post-quantum cryptography")
	tunnelGroup.Add(pqRow)

	page.Add(tunnelGroup)

	// Privacy settings.
	privacyGroup := adw.NewPreferencesGroup()
	privacyGroup.SetTitle("Privacy")

	crashRow := adw.NewSwitchRow()
	crashRow.SetTitle("Crash reporting")
	privacyGroup.Add(crashRow)

	telemetryRow := adw.NewSwitchRow()
	telemetryRow.SetTitle("Send anonymized usage data")
	privacyGroup.Add(telemetryRow)

	page.Add(privacyGroup)

	// Client settings.
	clientGroup := adw.NewPreferencesGroup()
	clientGroup.SetTitle("Client")

	channelRow := adw.NewComboRow()
	channelRow.SetTitle("Update channel")
	channelRow.SetModel(gtk.NewStringList([]string{"Release", "Beta", "Nightly"}))
	clientGroup.Add(channelRow)

	debugRow := adw.NewSwitchRow()
	debugRow.SetTitle("Debug logging")
	clientGroup.Add(debugRow)

	cliNotifyRow := adw.NewSwitchRow()
	cliNotifyRow.SetTitle("CLI notifications")
	cliNotifyRow.SetSubtitle("Notifications from adguardvpn-cli itself")
	clientGroup.Add(cliNotifyRow)

	page.Add(clientGroup)

	// Prefill from `config show` and wire changes afterwards, so the
	// initial set calls don't echo back into the CLI.
	wireSwitch := func(row *adw.SwitchRow, key string) {
		row.Connect("notify::active", func() {
			go w.applyCLISetting(key, cli.OnOff(row.Active()))
		})
	}
	wireCombo := func(row *adw.ComboRow, key string, values []string) {
		row.Connect("notify::selected", func() {
			idx := int(row.Selected())
			if idx >= 0 && idx < len(values) {
				go w.applyCLISetting(key, values[idx])
			}
		})
	}

	go func() {
		out, err := w.app.manager.Runner().ConfigShow(context.Background())
		if err != nil {
			w.app.logger.Warn("config show failed: %v", err)
			return
		}
		current := cli.ParseConfig(out)
		glib.IdleAdd(func() {
			modeRow.SetSelected(uint(comboIndex(current["mode"], modeValues)))
			protocolRow.SetSelected(uint(comboIndex(current["protocol"], protocolValues)))
			channelRow.SetSelected(uint(comboIndex(current["update channel"], channelValues)))
			if dns := current["dns upstream"]; dns != "" && !strings.EqualFold(dns, "default") {
				dnsRow.SetText(dns)
			}
			systemDNSRow.SetActive(cli.BoolOn(current["change system dns"]))
			pqRow.SetActive(cli.BoolOn(current["post-quantum cryptography"]))
			crashRow.SetActive(cli.BoolOn(current["crash reporting"]))
			telemetryRow.SetActive(cli.BoolOn(current["send anonymized usage data"]))
			debugRow.SetActive(cli.BoolOn(current["debug logging"]))
			cliNotifyRow.SetActive(cli.BoolOn(current["show notifications"]))

			wireCombo(modeRow, "mode", modeValues)
			wireCombo(protocolRow, "protocol", protocolValues)
			wireCombo(channelRow, "update-channel", channelValues)
			dnsRow.ConnectApply(func() {
				dns := strings.TrimSpace(dnsRow.Text())
				if dns == "" {
					dns = "default"
				}
				go w.applyCLISetting("dns", dns)
			})
			wireSwitch(systemDNSRow, "change-system-dns")
			wireSwitch(pqRow, "post-quantum")
			wireSwitch(crashRow, "crash-reporting")
			wireSwitch(telemetryRow, "telemetry")
			wireSwitch(debugRow, "debug-logging")
			wireSwitch(cliNotifyRow, "show-notifications")
		})
	}()

	// Support.
	supportGroup := adw.NewPreferencesGroup()
	supportGroup.SetTitle("Support")

	licenseRow := adw.NewActionRow()
	licenseRow.SetTitle("Account")
	licenseRow.SetSubtitle("Checking license...")
	supportGroup.Add(licenseRow)

	go func() {
		out, err := w.app.manager.Runner().License(context.Background())
		glib.IdleAdd(func() {
			if err != nil {
				licenseRow.SetSubtitle("License information unavailable")
				return
			}
			licenseRow.SetSubtitle(licenseSummary(out))
		})
	}()

	exportRow := adw.NewActionRow()
	exportRow.SetTitle("Export diagnostic logs")
	exportRow.SetSubtitle("Writes an archive to your home directory")
	exportBtn := gtk.NewButtonWithLabel("Export")
	exportBtn.SetVAlign(gtk.AlignCenter)
	exportBtn.ConnectClicked(func() {
		go w.exportLogs()
	})
	exportRow.AddSuffix(exportBtn)
	supportGroup.Add(exportRow)

	page.Add(supportGroup)

	toolbar.SetContent(page)
	win.SetContent(toolbar)

	win.ConnectCloseRequest(func() bool {
		if err := cfg.Save(); err != nil {
			w.app.logger.Warn("could not save preferences: %v", err)
		}
		return false
	})
	win.Present()
}

// comboIndex maps a CLI config value onto the row's option index. Unknown
// values select the first option.
func comboIndex(value string, values []string) int {
	v := strings.ToLower(strings.TrimSpace(value))
	for i, candidate := range values {
		if strings.Contains(v, candidate) {
			return i
		}
	}
	return 0
}

// licenseSummary reduces the `license` output to its first meaningful line.
func licenseSummary(out string) string {
	for _, ln := range strings.Split(out, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			return ln
		}
	}
	return "No license information"
}

func (w *MainWindow) applyCLISetting(key, value string) {
	if _, err := w.app.manager.Runner().ConfigSet(context.Background(), key, value); err != nil {
		w.app.logger.Warn("config set-%s failed: %v", key, err)
	}
}

func (w *MainWindow) exportLogs() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	out, err := w.app.manager.Runner().ExportLogs(context.Background(), home)
	if err != nil {
		w.app.logger.Warn("export-logs failed: %v", err)
		return
	}
	w.app.logger.Info("logs exported: %s", out)
	if w.app.config.ShowNotifications {
		w.app.notifier.Notify("Logs exported", out)
	}
}
