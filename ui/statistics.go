package ui

import (
	"fmt"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/markotdel/adguardvpn-gui/common"
	"github.com/markotdel/adguardvpn-gui/stats"
)

const (
	historyDays    = 30
	recentSessions = 10
)

// showStatistics opens the traffic history: daily totals plus the most
// recent connection sessions.
func (w *MainWindow) showStatistics() {
	win := adw.NewWindow()
	win.SetTitle("Statistics")
	win.SetDefaultSize(460, 560)
	win.SetTransientFor(&w.window.Window)
	win.SetModal(true)

	toolbar := adw.NewToolbarView()
	toolbar.AddTopBar(adw.NewHeaderBar())

	page := adw.NewPreferencesPage()

	dailyGroup := adw.NewPreferencesGroup()
	dailyGroup.SetTitle("Daily traffic")
	dailyGroup.SetDescription(fmt.Sprintf("Last %d days", historyDays))
	page.Add(dailyGroup)

	sessionGroup := adw.NewPreferencesGroup()
	sessionGroup.SetTitle("Recent sessions")
	page.Add(sessionGroup)

	go func() {
		days, err := w.app.store.History(historyDays)
		if err != nil {
			w.app.logger.Warn("could not load traffic history: %v", err)
		}
		sessions, err := w.app.store.RecentSessions(recentSessions)
		if err != nil {
			w.app.logger.Warn("could not load sessions: %v", err)
		}
		glib.IdleAdd(func() {
			if len(days) == 0 {
				empty := adw.NewActionRow()
				empty.SetTitle("No traffic recorded yet")
				dailyGroup.Add(empty)
			}
			for _, day := range days {
				row := adw.NewActionRow()
				row.SetTitle(day.Day)
				row.SetSubtitle(trafficSummary(day.RX, day.TX))
				dailyGroup.Add(row)
			}

			if len(sessions) == 0 {
				empty := adw.NewActionRow()
				empty.SetTitle("No sessions recorded yet")
				sessionGroup.Add(empty)
			}
			for _, sess := range sessions {
				row := adw.NewActionRow()
				row.SetTitle(sess.Location)
				row.SetSubtitle(sessionSummary(sess))
				sessionGroup.Add(row)
			}
		})
	}()

	toolbar.SetContent(page)
	win.SetContent(toolbar)
	win.Present()
}

func trafficSummary(rx, tx int64) string {
	return fmt.Sprintf("↓ %s  ↑ %s", common.HumanBytes(rx), common.HumanBytes(tx))
}

// sessionSummary renders one session line: start time, duration (or
// "active" for an open session) and traffic.
func sessionSummary(s stats.Session) string {
	dur := "active"
	if !s.EndedAt.IsZero() {
		dur = shortDuration(s.EndedAt.Sub(s.StartedAt))
	}
	return fmt.Sprintf("%s · %s · %s",
		s.StartedAt.Format("Jan 2 15:04"), dur, trafficSummary(s.RX, s.TX))
}

func shortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
