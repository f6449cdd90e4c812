package poll

import "github.com/Adamya-Git/live-poll-backend/tally"

// Event names published to every session subscribed to a poll.
const (
	EventQuestionStart   = "question:start"
	EventQuestionPartial = "question:partial"
	EventQuestionEnd     = "question:end"
	EventStudentList     = "student:list"
)

// Publisher delivers a named event to all sessions subscribed to a poll.
// Implementations must not block: the registry mutex is held across calls
// so that per-poll event order matches mutation order.
type Publisher interface {
	Publish(pollID string, event string, payload any)
}

// QuestionStart announces a newly started question. The correct index is
// withheld until the question ends.
type QuestionStart struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	EndsAt   int64    `json:"endsAt"` // absolute deadline, Unix milliseconds
}

// QuestionPartial carries a live tally after each answer submission.
type QuestionPartial struct {
	Partial tally.Tally `json:"partial"`
}

// QuestionEnd carries the frozen results of an ended question.
type QuestionEnd struct {
	Results      tally.Tally `json:"results"`
	CorrectIndex *int        `json:"correctIndex"`
	Options      []string    `json:"options"`
}
