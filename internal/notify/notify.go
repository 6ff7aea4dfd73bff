// Package notify carries install status events from the orchestrator to
// whatever surface displays them.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Status is the lifecycle stage an Event reports.
type Status string

const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Event is a single status notification.
type Event struct {
	RequestID string    `json:"request_id,omitempty"`
	PackageID string    `json:"package_id"`
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
	Time      time.Time `json:"time"`
}

// Sink receives events. Implementations must be safe for concurrent use.
type Sink interface {
	Notify(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Notify(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// WriterSink prints one line per event.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink that writes to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Notify(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.Message == "" {
		fmt.Fprintf(s.w, "[%s] %s\n", e.Status, e.PackageID)
		return
	}
	fmt.Fprintf(s.w, "[%s] %s: %s\n", e.Status, e.PackageID, e.Message)
}

// Multi fans an event out to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	var live []Sink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	return SinkFunc(func(e Event) {
		for _, s := range live {
			s.Notify(e)
		}
	})
}

// Recorder keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Statuses returns just the status of each recorded event, in order.
func (r *Recorder) Statuses() []Status {
	events := r.Events()
	out := make([]Status, len(events))
	for i, e := range events {
		out[i] = e.Status
	}
	return out
}
