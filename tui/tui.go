// Package tui is the terminal front end: a filterable location picker with
// connect/disconnect actions, for headless and SSH sessions where the GTK
// window is unavailable.
package tui

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/markotdel/adguardvpn-gui/cli"
	"github.com/markotdel/adguardvpn-gui/vpn"
)

// Run starts the TUI. It refuses to run without a terminal on stdout.
func Run(manager *vpn.Manager) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the terminal interface needs a TTY")
	}

	p := tea.NewProgram(newModel(manager), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type locationItem struct {
	loc cli.Location
}

func (i locationItem) Title() string { return i.loc.City }
func (i locationItem) Description() string {
	return fmt.Sprintf("%s (%s) · %d ms", i.loc.Country, i.loc.ISO, i.loc.Ping)
}
func (i locationItem) FilterValue() string {
	return i.loc.City + " " + i.loc.Country + " " + i.loc.ISO
}

// Messages produced by background CLI calls.
type (
	locationsMsg []cli.Location
	statusMsg    cli.Status
	actionMsg    struct{ err error }
)

type model struct {
	manager *vpn.Manager
	styles  styles

	locations list.Model
	spin      spinner.Model

	status  cli.Status
	busy    bool
	busyMsg string
	lastErr error
}

func newModel(manager *vpn.Manager) model {
	st := defaultStyles()

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Locations"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.Spinner

	return model{
		manager:   manager,
		styles:    st,
		locations: l,
		spin:      sp,
		busy:      true,
		busyMsg:   "loading locations",
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.fetchStatus(), m.fetchLocations())
}

func (m model) fetchStatus() tea.Cmd {
	return func() tea.Msg {
		m.manager.Refresh(context.Background())
		return statusMsg(m.manager.Status())
	}
}

func (m model) fetchLocations() tea.Cmd {
	return func() tea.Msg {
		locs, err := m.manager.Runner().QueryLocations(context.Background(), 0)
		if err != nil {
			return actionMsg{err: err}
		}
		return locationsMsg(locs)
	}
}

func (m model) connect(location string) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{err: m.manager.Connect(context.Background(), location)}
	}
}

func (m model) disconnect() tea.Cmd {
	return func() tea.Msg {
		return actionMsg{err: m.manager.Disconnect(context.Background())}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.locations.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case locationsMsg:
		items := make([]list.Item, len(msg))
		for i, loc := range msg {
			items[i] = locationItem{loc: loc}
		}
		m.busy = false
		m.lastErr = nil
		return m, m.locations.SetItems(items)

	case statusMsg:
		m.status = cli.Status(msg)
		return m, nil

	case actionMsg:
		m.busy = false
		m.lastErr = msg.err
		return m, m.fetchStatus()

	case tea.KeyMsg:
		// While the list filter is open, keys belong to it.
		if m.locations.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter":
			if m.busy {
				return m, nil
			}
			it, ok := m.locations.SelectedItem().(locationItem)
			if !ok {
				return m, nil
			}
			m.busy = true
			m.busyMsg = "connecting to " + it.loc.City
			return m, tea.Batch(m.spin.Tick, m.connect(it.loc.City))
		case "f":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.busyMsg = "connecting to fastest location"
			return m, tea.Batch(m.spin.Tick, m.connect(""))
		case "d":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.busyMsg = "disconnecting"
			return m, tea.Batch(m.spin.Tick, m.disconnect())
		case "r":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.busyMsg = "refreshing"
			return m, tea.Batch(m.spin.Tick, m.fetchStatus(), m.fetchLocations())
		}
	}

	var cmd tea.Cmd
	m.locations, cmd = m.locations.Update(msg)
	return m, cmd
}

func (m model) View() string {
	header := m.styles.Title.Render("AdGuard VPN")

	var state string
	switch {
	case m.busy:
		state = m.spin.View() + " " + m.busyMsg
	case m.status.Connected:
		line := fmt.Sprintf("● connected to %s", m.status.Location)
		if m.status.Iface != "" {
			line += " on " + m.status.Iface
		}
		state = m.styles.Connected.Render(line)
	default:
		state = m.styles.Disconnected.Render("○ disconnected")
	}

	body := header + "\n" + state + "\n"
	if m.lastErr != nil {
		body += m.styles.Error.Render("error: "+m.lastErr.Error()) + "\n"
	}
	body += "\n" + m.locations.View() + "\n"
	body += m.styles.Help.Render("enter connect · f fastest · d disconnect · r refresh · / filter · q quit")
	return m.styles.Frame.Render(body)
}
