package testutil

import (
	"sync"
	"time"
)

// PublishedEvent is one captured publication.
type PublishedEvent struct {
	PollID  string
	Event   string
	Payload any
}

// RecordingPublisher captures published events for assertions. It is safe
// for concurrent use and never blocks, matching the publisher contract the
// core requires.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

// NewRecordingPublisher returns an empty recorder.
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Publish records the event.
func (p *RecordingPublisher) Publish(pollID string, event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, PublishedEvent{PollID: pollID, Event: event, Payload: payload})
}

// Events returns a copy of everything published so far, in order.
func (p *RecordingPublisher) Events() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// ByEvent returns all captured publications with the given event name.
func (p *RecordingPublisher) ByEvent(name string) []PublishedEvent {
	var out []PublishedEvent
	for _, e := range p.Events() {
		if e.Event == name {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many times the named event was published.
func (p *RecordingPublisher) Count(name string) int {
	return len(p.ByEvent(name))
}

// Last returns the most recent publication of the named event.
func (p *RecordingPublisher) Last(name string) (PublishedEvent, bool) {
	events := p.ByEvent(name)
	if len(events) == 0 {
		return PublishedEvent{}, false
	}
	return events[len(events)-1], true
}

// WaitFor polls until the named event has been published at least n times
// or the timeout elapses, and reports whether the threshold was reached.
// Useful for the deadline-timer paths.
func (p *RecordingPublisher) WaitFor(name string, n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if p.Count(name) >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return p.Count(name) >= n
}
