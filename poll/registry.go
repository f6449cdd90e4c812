package poll

import (
	"sync"

	"github.com/Adamya-Git/live-poll-backend/metrics"
)

// Registry is the sole owner of all poll and question state. Every mutation
// runs to completion under the registry mutex; the only asynchronous entry
// point is the per-question deadline timer, which re-acquires the mutex and
// re-checks the current question before acting.
//
// Registries are independent: nothing is shared process-wide, so tests can
// run against their own instances.
type Registry struct {
	mu    sync.Mutex
	polls map[string]*Poll
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{polls: make(map[string]*Poll)}
}

// CreatePoll allocates a new poll with no students, no current question and
// an empty history, and returns its identifier. An empty title defaults to
// "Untitled Poll". Polls are never deleted.
func (r *Registry) CreatePoll(title string) string {
	if title == "" {
		title = "Untitled Poll"
	}

	id := NewID()
	r.mu.Lock()
	r.polls[id] = &Poll{
		ID:       id,
		Title:    title,
		students: make(map[SessionID]string),
	}
	r.mu.Unlock()

	metrics.PollsCreated.Inc()
	return id
}

// Summary is a point-in-time view of a poll, safe to hold outside the
// registry mutex.
type Summary struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Students       []string `json:"students"`
	ActiveQuestion bool     `json:"activeQuestion"`
	Answered       int      `json:"answered"`
	HistorySize    int      `json:"historySize"`
}

// Snapshot returns a summary of the poll, or ErrPollNotFound.
func (r *Registry) Snapshot(pollID string) (Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.polls[pollID]
	if !ok {
		return Summary{}, ErrPollNotFound
	}

	s := Summary{
		ID:          p.ID,
		Title:       p.Title,
		Students:    p.Roster(),
		HistorySize: len(p.History),
	}
	if p.Current != nil {
		s.ActiveQuestion = true
		s.Answered = len(p.Current.Answers)
	}
	return s, nil
}

// AddStudent records the session's display name on the poll, overwriting a
// previous name while keeping the original roster position. An empty name
// defaults to "Anonymous". Fails with ErrPollNotFound.
//
// Most callers want Tracker.Join instead, which additionally publishes the
// updated roster.
func (r *Registry) AddStudent(pollID string, sid SessionID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.polls[pollID]
	if !ok {
		return ErrPollNotFound
	}
	p.addStudent(sid, displayName(name))
	return nil
}

// RemoveSession scrubs the session from every poll it joined and returns
// the identifiers of the affected polls. A session disconnect may need to
// be scrubbed from all polls it touched, not just one. Removing a session
// that never joined anything is a no-op. Answers the session already
// submitted are left untouched.
func (r *Registry) RemoveSession(sid SessionID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected []string
	for id, p := range r.polls {
		if p.removeStudent(sid) {
			affected = append(affected, id)
		}
	}
	return affected
}

func displayName(name string) string {
	if name == "" {
		return "Anonymous"
	}
	return name
}
