// Package tui is a bubbletea progress view for one tracker sync: a log
// viewport showing each bring-up/opcode step as it completes, styled the
// way the driver's chat UI styles its own panels.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FFFF00")).
			Bold(true).
			Padding(0, 1)

	logViewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#9CA3AF"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// StepMsg reports one completed sync step, sent by the goroutine driving
// the actual tracksync.Client.
type StepMsg struct {
	Label string
	Err   error
	Done  bool // true on the final message, successful or not
}

// Model is the bubbletea model for the sync-progress view.
type Model struct {
	steps    []StepMsg
	log      viewport.Model
	bar      progress.Model
	total    int
	finished bool
	failed   bool
	width    int
	height   int
}

// NewModel builds a Model expecting totalSteps StepMsg updates before
// completion (used only to size the progress bar; an extra Done message is
// always tolerated).
func NewModel(totalSteps int) Model {
	vp := viewport.New(78, 12)
	vp.Style = logViewStyle
	vp.SetContent("waiting for sync to start...")

	return Model{
		log:   vp,
		bar:   progress.New(progress.WithDefaultGradient()),
		total: totalSteps,
		width: 80, height: 24,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.log.Width = m.width - 4
		m.log.Height = m.height - 8
		m.bar.Width = m.width - 4

	case StepMsg:
		m.steps = append(m.steps, msg)
		m.log.SetContent(renderSteps(m.steps))
		m.log.GotoBottom()
		if msg.Err != nil {
			m.failed = true
		}
		if msg.Done {
			m.finished = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("tracksync") + "\n\n")

	pct := 0.0
	if m.total > 0 {
		pct = float64(len(m.steps)) / float64(m.total)
		if pct > 1 {
			pct = 1
		}
	}
	b.WriteString(m.bar.ViewAs(pct) + "\n\n")
	b.WriteString(m.log.View() + "\n\n")

	switch {
	case m.finished && m.failed:
		b.WriteString(errorStyle.Render("sync failed") + "\n")
	case m.finished:
		b.WriteString(okStyle.Render("sync complete") + "\n")
	default:
		b.WriteString(helpStyle.Render("q to quit") + "\n")
	}
	return b.String()
}

func renderSteps(steps []StepMsg) string {
	var b strings.Builder
	for _, s := range steps {
		if s.Err != nil {
			fmt.Fprintf(&b, "%s %s\n", errorStyle.Render("✗"), s.Label+": "+s.Err.Error())
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", okStyle.Render("✓"), s.Label)
	}
	return b.String()
}
