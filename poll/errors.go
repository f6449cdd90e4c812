package poll

import "errors"

// Categorical errors surfaced through the gateway acknowledgment contract.
// They are delivered only to the calling session, never broadcast, and none
// of them is fatal: a missing poll or duplicate start leaves every other
// poll and session untouched. The strings double as the wire-level error
// messages, hence the sentence casing.
var (
	// ErrPollNotFound: the referenced poll identifier has no registry entry.
	ErrPollNotFound = errors.New("Poll not found")

	// ErrQuestionActive: a question was started while one is already running.
	ErrQuestionActive = errors.New("Question already active")

	// ErrNoActiveQuestion: an answer arrived while the poll has no current
	// question, or the poll does not exist at all.
	ErrNoActiveQuestion = errors.New("No active question")
)
