package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"algotex/internal/pipeline"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	waitingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const statusColumn = 12

type fileItem struct {
	path    string
	status  string
	stage   pipeline.Stage
	final   bool
	elapsed time.Duration
	err     error
}

type progressModel struct {
	title      string
	stageLabel string
	events     <-chan pipeline.Event
	spinner    spinner.Model
	bar        progress.Model
	items      []fileItem
	index      map[string]int
	width      int
	started    time.Time
	done       bool
}

type (
	eventMsg pipeline.Event
	doneMsg  struct{}
)

// NewProgressModel returns a Bubble Tea model showing one row per file and
// an overall bar. Files first seen in events are appended.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(activeStyle)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		index:   make(map[string]int, len(files)),
		width:   80,
		started: time.Now(),
	}
	for _, f := range files {
		m.row(f)
	}
	return m
}

// row returns the index of file, adding a queued row on first sight.
func (m *progressModel) row(file string) int {
	if i, ok := m.index[file]; ok {
		return i
	}
	m.index[file] = len(m.items)
	m.items = append(m.items, fileItem{path: file, status: "queued"})
	return len(m.items) - 1
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(pipeline.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// applyEvent folds ev into the rows. Events without a file describe the
// whole run and only change the header.
func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if ev.File == "" {
		if label != "" {
			m.stageLabel = label
		}
		return nil
	}
	it := &m.items[m.row(ev.File)]
	if label != "" {
		it.status = label
		it.stage = ev.Stage
	}
	it.final = ev.Status.Terminal()
	if it.final {
		it.elapsed = ev.Elapsed
		it.err = ev.Err
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range m.items {
		switch {
		case it.final:
			sum++
		case it.status != "queued":
			sum += it.stage.Progress()
		}
	}
	return sum / float64(len(m.items))
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.header()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusColumn-14, 20)
	for _, it := range m.items {
		status := styleStatus(it.status).Render(fmt.Sprintf("%*s", statusColumn, it.status))
		fmt.Fprintf(&b, "  %s %s", status, truncate(it.path, nameWidth))
		if it.final && it.elapsed > 0 {
			b.WriteString(waitingStyle.Render(" " + it.elapsed.Round(time.Millisecond).String()))
		}
		b.WriteByte('\n')
		if it.err != nil {
			msg, _, _ := strings.Cut(it.err.Error(), "\n")
			fmt.Fprintf(&b, "  %*s %s\n", statusColumn, "", failStyle.Render(truncate(msg, nameWidth)))
		}
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	b.WriteString(m.tally())
	b.WriteByte('\n')
	return b.String()
}

func (m *progressModel) header() string {
	h := m.title
	if m.stageLabel != "" {
		h += " (" + m.stageLabel + ")"
	}
	if m.done {
		return "done: " + h
	}
	return m.spinner.View() + " " + h
}

// tally is the footer: counts of finished rows and time since start.
func (m *progressModel) tally() string {
	var rendered, cached, failed int
	for _, it := range m.items {
		switch it.status {
		case "done":
			rendered++
		case "cached":
			cached++
		case "error":
			failed++
		}
	}
	parts := []string{
		okStyle.Render(fmt.Sprintf("%d rendered", rendered)),
		okStyle.Render(fmt.Sprintf("%d cached", cached)),
	}
	if failed > 0 {
		parts = append(parts, failStyle.Render(fmt.Sprintf("%d failed", failed)))
	}
	parts = append(parts, waitingStyle.Render(time.Since(m.started).Round(100*time.Millisecond).String()))
	return strings.Join(parts, " · ")
}

func statusLabel(stage pipeline.Stage, status pipeline.Status) string {
	if status == pipeline.StatusWorking {
		return stageLabel(stage)
	}
	switch status {
	case pipeline.StatusQueued, pipeline.StatusDone, pipeline.StatusCached, pipeline.StatusError:
		return string(status)
	}
	return ""
}

var stageLabels = map[pipeline.Stage]string{
	pipeline.StageParse:    "parsing",
	pipeline.StageCollect:  "collecting",
	pipeline.StageRender:   "rendering",
	pipeline.StageAssemble: "assembling",
	pipeline.StageWrite:    "writing",
}

func stageLabel(stage pipeline.Stage) string { return stageLabels[stage] }

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done", "cached":
		return okStyle
	case "error":
		return failStyle
	case "queued":
		return waitingStyle
	}
	return activeStyle
}

// truncate shortens value to width terminal columns, marking the cut with "...".
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
