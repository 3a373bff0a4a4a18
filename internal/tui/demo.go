package tui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mlvnd/banner/internal/binding"
	"github.com/mlvnd/banner/internal/config"
	"github.com/mlvnd/banner/internal/model"
	"github.com/mlvnd/banner/internal/present"
)

// tickMsg drives periodic re-rendering so expirations and relative
// times show up without user input.
type tickMsg time.Time

const tickInterval = 300 * time.Millisecond

// eventLog records the last dismissal event. Dismissals arrive from
// timer goroutines, outside the Bubble Tea update loop, so access is
// guarded.
type eventLog struct {
	mu   sync.Mutex
	last string
}

func (l *eventLog) record(ev present.DismissalEvent) {
	if ev.Kind != present.KindDidHide {
		return
	}
	l.mu.Lock()
	l.last = fmt.Sprintf("%s (%s)", ev.ID, ev.Reason)
	l.mu.Unlock()
}

func (l *eventLog) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

// DemoModel is the Bubble Tea model for `banner demo`. It owns a cell,
// a binding, and a Banner presenter, and visualizes the loop: keys set
// the cell, the binding drives the banner, and banner dismissals clear
// the cell again.
type DemoModel struct {
	cfg    *config.Config
	banner *Banner
	cell   *binding.Cell
	bnd    *binding.Binding

	keys KeyMap
	help help.Model

	events  *eventLog
	counter int
	width   int
	height  int
}

// NewDemoModel wires a demo around the given presenter and binding
// options (sound playback, logging).
func NewDemoModel(cfg *config.Config, banner *Banner, opts ...binding.Option) *DemoModel {
	cell := binding.NewCell()
	opts = append([]binding.Option{binding.WithPresenter(banner)}, opts...)

	return &DemoModel{
		cfg:    cfg,
		banner: banner,
		cell:   cell,
		bnd:    binding.BindDefault(cell, opts...),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		events: &eventLog{},
	}
}

// Close releases the demo's binding.
func (m *DemoModel) Close() {
	m.bnd.Close()
}

// Init implements tea.Model.
func (m *DemoModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *DemoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.banner.SetSize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m, tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Low):
			m.post(present.SeverityLow)
			return m, nil
		case key.Matches(msg, m.keys.Normal):
			m.post(present.SeverityNormal)
			return m, nil
		case key.Matches(msg, m.keys.Critical):
			m.post(present.SeverityCritical)
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.cell.Clear()
			return m, nil
		case key.Matches(msg, m.keys.Dismiss):
			// Presenter-side dismissal: the binding's listener closes
			// the loop and empties the cell.
			m.banner.Dismiss()
			return m, nil
		}
	}

	return m, nil
}

// post sets a fresh message of the given severity into the cell. The
// message self-describes its presentation from the loaded config, so
// per-severity timeouts apply without an explicit binding config.
func (m *DemoModel) post(severity int) {
	m.counter++
	msg, err := model.New(
		fmt.Sprintf("Message #%d", m.counter),
		fmt.Sprintf("A %s message posted at %s.",
			present.SeverityNames[severity],
			time.Now().Format("15:04:05")),
	)
	if err != nil {
		return
	}
	msg.SetSeverity(severity)
	msg.Present = m.cfg.PresentFor(severity)
	msg.Present.OnDismiss(m.events.record)
	m.cell.Set(msg)
}

// View implements tea.Model.
func (m *DemoModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("banner demo")

	overlay := m.banner.View()
	if overlay == "" {
		overlay = lipgloss.NewStyle().Faint(true).Render("(nothing showing)")
	}

	status := "cell: empty"
	if cur := m.cell.Get(); cur != nil {
		if _, shownAt := m.banner.Live(); !shownAt.IsZero() {
			status = fmt.Sprintf("cell: %s, shown %s", cur.ID, humanize.Time(shownAt))
		} else {
			status = fmt.Sprintf("cell: %s", cur.ID)
		}
	}
	if last := m.events.String(); last != "" {
		status += "\nlast dismissal: " + last
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		overlay,
		"",
		status,
		"",
		m.help.View(m.keys),
	)
}
