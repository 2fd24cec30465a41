package driver

import "time"

// Stage is a coarse step of a crate build, as shown by progress views.
type Stage string

const (
	StageParse    Stage = "parse"
	StageResolve  Stage = "resolve"
	StageGenerate Stage = "generate"
	StageEmit     Stage = "emit"
)

// Status is the state of a crate within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusCached  Status = "cached"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one crate.
type Event struct {
	Crate   string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use when passed to CompileAll.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

func notify(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
