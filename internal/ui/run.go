package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"algotex/internal/pipeline"
)

// RunProgress drives the progress view until events is closed. The caller
// owns events and must close it after the last file finishes.
func RunProgress(out io.Writer, title string, files []string, events <-chan pipeline.Event) error {
	model := NewProgressModel(title, files, events)
	prog := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil))
	_, err := prog.Run()
	return err
}
