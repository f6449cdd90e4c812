package poll

import (
	"log/slog"
	"time"

	"github.com/Adamya-Git/live-poll-backend/metrics"
	"github.com/Adamya-Git/live-poll-backend/tally"
)

// DefaultDuration applies when a question is started with a non-positive
// duration.
const DefaultDuration = 60 * time.Second

// Controller drives a poll's question lifecycle: idle to active on
// StartQuestion, active back to idle when the deadline fires or every
// joined student has answered, whichever comes first. Exactly one
// "question:end" event is published per question; the two end paths are
// mutually exclusive through timer cancellation plus a current-question
// identity check in the timer callback.
type Controller struct {
	reg *Registry
	pub Publisher
	log *slog.Logger
}

// NewController creates a lifecycle controller operating on reg and
// publishing through pub.
func NewController(reg *Registry, pub Publisher, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{reg: reg, pub: pub, log: log}
}

// StartQuestion makes the question current on the poll, schedules its
// deadline and publishes "question:start" to all subscribers. It returns
// the new question's identifier, ErrPollNotFound, or ErrQuestionActive
// when the poll already has a running question (which is left untouched).
//
// The call returns immediately; the deadline fires asynchronously.
func (c *Controller) StartQuestion(pollID, prompt string, options []string, duration time.Duration, correctIndex *int) (string, error) {
	if duration <= 0 {
		duration = DefaultDuration
	}

	c.reg.mu.Lock()
	defer c.reg.mu.Unlock()

	p, ok := c.reg.polls[pollID]
	if !ok {
		return "", ErrPollNotFound
	}
	if p.Current != nil {
		return "", ErrQuestionActive
	}

	q := &Question{
		ID:           NewID(),
		Prompt:       prompt,
		Options:      options,
		Answers:      make(map[SessionID]int),
		Duration:     duration,
		EndsAt:       time.Now().Add(duration),
		CorrectIndex: correctIndex,
	}
	p.Current = q

	questionID := q.ID
	p.timer = time.AfterFunc(duration, func() {
		c.deadline(pollID, questionID)
	})

	c.pub.Publish(pollID, EventQuestionStart, QuestionStart{
		Question: q.Prompt,
		Options:  q.Options,
		EndsAt:   q.EndsAt.UnixMilli(),
	})

	c.log.Info("question started",
		"poll", pollID, "question", q.ID, "options", len(q.Options), "duration", duration)
	metrics.QuestionsStarted.Inc()
	return q.ID, nil
}

// SubmitAnswer records the session's answer on the poll's current question
// and publishes a "question:partial" tally. The last submission per session
// before the question ends wins. Fails with ErrNoActiveQuestion when the
// poll is missing or idle.
//
// After recording, the early-completion check runs: with at least one
// joined student and every joined student having answered, the question
// ends immediately through the same path the deadline would take. The
// denominator is read live, so students joining mid-question raise the bar
// for subsequent submissions only.
func (c *Controller) SubmitAnswer(pollID string, sid SessionID, optionIndex int) error {
	c.reg.mu.Lock()
	defer c.reg.mu.Unlock()

	p, ok := c.reg.polls[pollID]
	if !ok || p.Current == nil {
		return ErrNoActiveQuestion
	}

	q := p.Current
	q.Answers[sid] = optionIndex
	metrics.AnswersReceived.Inc()

	partial := tally.Compute(len(q.Options), q.answerValues())
	c.pub.Publish(pollID, EventQuestionPartial, QuestionPartial{Partial: partial})

	// Every recorded answer counts toward the threshold, out-of-range ones
	// included.
	if n := p.studentCount(); n > 0 && len(q.Answers) >= n {
		c.endQuestion(p, metrics.CauseAllAnswered)
	}
	return nil
}

// deadline is the timer callback. It is a no-op when the question already
// ended through early completion, or when a different question is running.
func (c *Controller) deadline(pollID, questionID string) {
	c.reg.mu.Lock()
	defer c.reg.mu.Unlock()

	p, ok := c.reg.polls[pollID]
	if !ok || p.Current == nil || p.Current.ID != questionID {
		return
	}
	c.endQuestion(p, metrics.CauseDeadline)
}

// endQuestion cancels the pending deadline, archives the current question
// with its frozen tally, publishes "question:end" and returns the poll to
// idle. Callers hold the registry mutex and have verified the poll is
// active.
func (c *Controller) endQuestion(p *Poll, cause string) {
	q := p.Current

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}

	results := tally.Compute(len(q.Options), q.answerValues())
	q.Results = &results
	p.History = append(p.History, q)
	p.Current = nil

	c.pub.Publish(p.ID, EventQuestionEnd, QuestionEnd{
		Results:      results,
		CorrectIndex: q.CorrectIndex,
		Options:      q.Options,
	})

	c.log.Info("question ended",
		"poll", p.ID, "question", q.ID, "cause", cause, "answered", results.Total)
	metrics.QuestionsEnded.WithLabelValues(cause).Inc()
}
