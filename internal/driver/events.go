package driver

// Status captures one body's progress through code generation.
type Status string

const (
	// StatusQueued indicates the body is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the body is being generated.
	StatusWorking Status = "working"
	// StatusDone indicates the body generated cleanly.
	StatusDone Status = "done"
	// StatusError indicates generation of the body failed.
	StatusError Status = "error"
)

// Event reports progress for one body (or for the whole run when Body is
// empty).
type Event struct {
	Body   string
	Status Status
	Err    error
}

// ProgressSink consumes progress events.
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

func publish(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
