// Package ui renders interactive build progress in the terminal.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/driver"
)

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	prog    progress.Model
	crates  []crateItem
	index   map[string]int
	width   int
	done    bool
}

type crateItem struct {
	name   string
	status string
	stage  driver.Stage
	note   string
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that follows the events of a
// multi-crate build until the channel is closed.
func NewProgressModel(title string, crates []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]crateItem, len(crates))
	index := make(map[string]int, len(crates))
	for i, name := range crates {
		items[i] = crateItem{name: name, status: "queued"}
		index[name] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		crates:  items,
		index:   index,
		width:   80,
	}
}

// Run shows the progress of crates on out until events is closed.
func Run(out io.Writer, title string, crates []string, events <-chan driver.Event) error {
	_, err := tea.NewProgram(NewProgressModel(title, crates, events), tea.WithOutput(out)).Run()
	return err
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.crates) == 0 {
		return ""
	}
	header := m.title
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Render(header))
	b.WriteString("\n\n")

	const statusWidth = 12
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, c := range m.crates {
		line := truncate(c.name, nameWidth)
		if c.note != "" {
			line = truncate(c.name+"  "+c.note, nameWidth)
		}
		fmt.Fprintf(&b, "  %s %s\n", styleStatus(c.status).Render(fmt.Sprintf("%12s", c.status)), line)
	}
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	idx, ok := m.index[ev.Crate]
	if !ok {
		return nil
	}
	c := &m.crates[idx]
	c.status = statusLabel(ev.Stage, ev.Status)
	c.stage = ev.Stage
	switch {
	case ev.Err != nil:
		c.note = ev.Err.Error()
	case ev.Elapsed > 0:
		c.note = ev.Elapsed.Round(time.Millisecond).String()
	}
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	total := 0.0
	for _, c := range m.crates {
		total += progressFromStatus(c.stage, c.status)
	}
	return total / float64(len(m.crates))
}

func progressFromStatus(stage driver.Stage, status string) float64 {
	switch status {
	case "done", "error", "cached":
		return 1.0
	case "queued":
		return 0.0
	}
	switch stage {
	case driver.StageParse:
		return 0.1
	case driver.StageResolve:
		return 0.3
	case driver.StageGenerate:
		return 0.6
	case driver.StageEmit:
		return 0.85
	}
	return 0.0
}

func statusLabel(stage driver.Stage, status driver.Status) string {
	if status != driver.StatusWorking {
		return string(status)
	}
	switch stage {
	case driver.StageParse:
		return "parsing"
	case driver.StageResolve:
		return "resolving"
	case driver.StageGenerate:
		return "checking"
	case driver.StageEmit:
		return "emitting"
	}
	return "working"
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done", "cached":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "queued":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
