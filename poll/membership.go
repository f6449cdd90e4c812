package poll

import "log/slog"

// Tracker maintains each poll's roster and reacts to disconnects. Roster
// changes publish a "student:list" event carrying the display names of the
// joined students, in join order, to all poll subscribers.
type Tracker struct {
	reg *Registry
	pub Publisher
	log *slog.Logger
}

// NewTracker creates a membership tracker operating on reg and publishing
// through pub.
func NewTracker(reg *Registry, pub Publisher, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{reg: reg, pub: pub, log: log}
}

// Join adds the session to the poll's roster and publishes the updated
// roster. Fails with ErrPollNotFound. Joining while a question is running
// is permitted; the early-completion denominator is read live at each
// answer submission, so the newcomer is counted from now on.
func (t *Tracker) Join(pollID string, sid SessionID, name string) error {
	t.reg.mu.Lock()
	defer t.reg.mu.Unlock()

	p, ok := t.reg.polls[pollID]
	if !ok {
		return ErrPollNotFound
	}

	p.addStudent(sid, displayName(name))
	t.pub.Publish(pollID, EventStudentList, p.Roster())

	t.log.Info("student joined", "poll", pollID, "session", sid, "students", p.studentCount())
	return nil
}

// Leave scrubs the session from every poll it joined and publishes the
// updated roster to each affected poll. Invoked on disconnect; idempotent
// and safe for sessions that never joined anything. Answers the session
// already submitted stay recorded: historical tallies are immutable, and a
// live question's total-answered count is based on the answer mapping,
// which Leave does not touch.
func (t *Tracker) Leave(sid SessionID) {
	t.reg.mu.Lock()
	defer t.reg.mu.Unlock()

	for id, p := range t.reg.polls {
		if p.removeStudent(sid) {
			t.pub.Publish(id, EventStudentList, p.Roster())
			t.log.Info("student left", "poll", id, "session", sid, "students", p.studentCount())
		}
	}
}
