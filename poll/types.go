package poll

import (
	"time"

	"github.com/Adamya-Git/live-poll-backend/tally"
)

// SessionID identifies one connected participant. Session identifiers are
// assigned by the transport and opaque to the core.
type SessionID string

// Question is one timed multiple-choice prompt belonging to a poll. It is
// mutable only while it is the poll's current question; once ended it is
// archived with its frozen results and never touched again.
type Question struct {
	ID       string
	Prompt   string
	Options  []string
	Answers  map[SessionID]int
	Duration time.Duration
	EndsAt   time.Time

	// CorrectIndex is optional and only ever disclosed in the end event.
	CorrectIndex *int

	// Results is set when the question is archived to history.
	Results *tally.Tally
}

// answerValues flattens the answer mapping for aggregation. One entry per
// distinct session; the index may be out of range.
func (q *Question) answerValues() []int {
	values := make([]int, 0, len(q.Answers))
	for _, idx := range q.Answers {
		values = append(values, idx)
	}
	return values
}

// Poll is a named polling session owned by one teacher. Polls live for the
// lifetime of the process and are owned exclusively by the Registry; all
// fields below are guarded by the registry mutex.
type Poll struct {
	ID      string
	Title   string
	Current *Question
	History []*Question

	students  map[SessionID]string
	joinOrder []SessionID

	// timer is the pending deadline for the current question, nil when idle.
	timer *time.Timer
}

// Roster returns the display names of joined students in join order. The
// derivation is read-only: calling it twice with no intervening mutation
// yields identical lists.
func (p *Poll) Roster() []string {
	names := make([]string, 0, len(p.joinOrder))
	for _, sid := range p.joinOrder {
		names = append(names, p.students[sid])
	}
	return names
}

// addStudent inserts or renames a student. A re-join keeps the original
// roster position.
func (p *Poll) addStudent(sid SessionID, name string) {
	if _, ok := p.students[sid]; !ok {
		p.joinOrder = append(p.joinOrder, sid)
	}
	p.students[sid] = name
}

// removeStudent reports whether the session was joined. Recorded answers
// are deliberately left untouched.
func (p *Poll) removeStudent(sid SessionID) bool {
	if _, ok := p.students[sid]; !ok {
		return false
	}
	delete(p.students, sid)
	for i, id := range p.joinOrder {
		if id == sid {
			p.joinOrder = append(p.joinOrder[:i], p.joinOrder[i+1:]...)
			break
		}
	}
	return true
}

func (p *Poll) studentCount() int {
	return len(p.students)
}
