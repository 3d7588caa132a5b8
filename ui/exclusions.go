package ui

import (
	"context"
	"strings"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/markotdel/adguardvpn-gui/cli"
	"github.com/markotdel/adguardvpn-gui/common"
)

// showExclusions opens the site-exclusions editor. GENERAL mode tunnels
// everything except the listed domains, SELECTIVE only the listed ones.
func (w *MainWindow) showExclusions() {
	win := adw.NewWindow()
	win.SetTitle("Site Exclusions")
	win.SetDefaultSize(420, 480)
	win.SetTransientFor(&w.window.Window)
	win.SetModal(true)

	toolbar := adw.NewToolbarView()
	toolbar.AddTopBar(adw.NewHeaderBar())

	box := gtk.NewBox(gtk.OrientationVertical, 12)
	box.SetMarginTop(12)
	box.SetMarginBottom(12)
	box.SetMarginStart(12)
	box.SetMarginEnd(12)

	modeRow := gtk.NewBox(gtk.OrientationHorizontal, 8)
	modeLabel := gtk.NewLabel("Mode")
	modeLabel.SetHExpand(true)
	modeLabel.SetXAlign(0)
	modeRow.Append(modeLabel)

	modeToggle := gtk.NewToggleButtonWithLabel("Selective")
	modeToggle.SetTooltipText("Tunnel only the listed domains")
	modeRow.Append(modeToggle)

	clearBtn := gtk.NewButtonWithLabel("Clear all")
	clearBtn.AddCSSClass("destructive-action")
	modeRow.Append(clearBtn)
	box.Append(modeRow)

	entry := gtk.NewEntry()
	entry.SetPlaceholderText("example.com")
	box.Append(entry)

	domainList := gtk.NewListBox()
	domainList.SetSelectionMode(gtk.SelectionNone)
	domainList.AddCSSClass("boxed-list")

	scroll := gtk.NewScrolledWindow()
	scroll.SetPolicy(gtk.PolicyNever, gtk.PolicyAutomatic)
	scroll.SetVExpand(true)
	scroll.SetChild(domainList)
	box.Append(scroll)

	runner := w.app.manager.Runner()

	var reload func()
	reload = func() {
		go func() {
			modeOut, _ := runner.ExclusionsMode(context.Background())
			listOut, err := runner.ExclusionsShow(context.Background())
			glib.IdleAdd(func() {
				if err != nil {
					w.app.logger.Warn("could not load exclusions: %v", err)
					return
				}
				modeToggle.SetActive(cli.ParseExclusionMode(modeOut) == common.ExclusionModeSelective)

				for {
					row := domainList.RowAtIndex(0)
					if row == nil {
						break
					}
					domainList.Remove(row)
				}
				for _, domain := range cli.ParseExclusions(listOut) {
					domainList.Append(exclusionRow(domain, func(d string) {
						go func() {
							if _, err := runner.ExclusionsRemove(context.Background(), []string{d}); err != nil {
								w.app.logger.Warn("could not remove exclusion: %v", err)
							}
							glib.IdleAdd(reload)
						}()
					}))
				}
			})
		}()
	}

	modeToggle.ConnectToggled(func() {
		mode := common.ExclusionModeGeneral
		if modeToggle.Active() {
			mode = common.ExclusionModeSelective
		}
		go func() {
			if _, err := runner.ExclusionsSetMode(context.Background(), mode); err != nil {
				w.app.logger.Warn("could not set exclusion mode: %v", err)
			}
		}()
	})

	clearBtn.ConnectClicked(func() {
		go func() {
			if _, err := runner.ExclusionsClear(context.Background()); err != nil {
				w.app.logger.Warn("could not clear exclusions: %v", err)
			}
			glib.IdleAdd(reload)
		}()
	})

	entry.ConnectActivate(func() {
		domain := strings.TrimSpace(entry.Text())
		if domain == "" {
			return
		}
		entry.SetText("")
		go func() {
			if _, err := runner.ExclusionsAdd(context.Background(), []string{domain}); err != nil {
				w.app.logger.Warn("could not add exclusion: %v", err)
			}
			glib.IdleAdd(reload)
		}()
	})

	reload()

	toolbar.SetContent(box)
	win.SetContent(toolbar)
	win.Present()
}

func exclusionRow(domain string, onRemove func(string)) gtk.Widgetter {
	box := gtk.NewBox(gtk.OrientationHorizontal, 8)
	box.SetMarginTop(4)
	box.SetMarginBottom(4)
	box.SetMarginStart(12)
	box.SetMarginEnd(4)

	label := gtk.NewLabel(domain)
	label.SetXAlign(0)
	label.SetHExpand(true)
	box.Append(label)

	remove := gtk.NewButtonFromIconName("edit-delete-symbolic")
	remove.AddCSSClass("flat")
	remove.ConnectClicked(func() { onRemove(domain) })
	box.Append(remove)

	return box
}
