// Package pipeline describes the passes a file goes through and the progress
// events the driver reports while running them.
package pipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageParse covers loading, lexing and parsing.
	StageParse Stage = "parse"
	// StageCollect gathers the declared function names.
	StageCollect Stage = "collect"
	// StageRender produces the algorithm2e markup.
	StageRender Stage = "render"
	// StageAssemble wraps the markup into a LaTeX document.
	StageAssemble Stage = "assemble"
	// StageWrite stores the result on disk.
	StageWrite Stage = "write"
)

// Stages lists the stages in execution order.
var Stages = []Stage{StageParse, StageCollect, StageRender, StageAssemble, StageWrite}

// Progress returns the fraction of a file's work finished once stage starts.
func (s Stage) Progress() float64 {
	switch s {
	case StageParse:
		return 0.1
	case StageCollect:
		return 0.3
	case StageRender:
		return 0.5
	case StageAssemble:
		return 0.8
	case StageWrite:
		return 0.9
	}
	return 0
}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusCached indicates the result came from the render cache.
	StatusCached Status = "cached"
	// StatusDone indicates the file is done.
	StatusDone Status = "done"
	// StatusError indicates the file failed.
	StatusError Status = "error"
)

// Terminal reports whether no further events follow for the file.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError || s == StatusCached
}

// Event reports progress for a file (or for the overall run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: the driver reports from several workers at once.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// FuncSink adapts a function to ProgressSink.
type FuncSink func(Event)

func (f FuncSink) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

// Emit sends evt to sink when sink is non-nil.
func Emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// EmitQueued marks every file as waiting for the parse stage.
func EmitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageParse, Status: StatusQueued})
	}
}
