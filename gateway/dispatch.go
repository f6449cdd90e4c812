package gateway

import (
	"encoding/json"
	"time"
)

type createPollRequest struct {
	Title string `json:"title"`
}

type startQuestionRequest struct {
	PollID       string   `json:"pollId"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	Duration     float64  `json:"duration"` // seconds
	CorrectIndex *int     `json:"correctIndex"`
}

type joinRequest struct {
	PollID string `json:"pollId"`
	Name   string `json:"name"`
}

type answerRequest struct {
	PollID string `json:"pollId"`
	// Left raw: a non-integer index is still a recorded answer, it just
	// never lands in an option bucket.
	OptionIndex json.RawMessage `json:"optionIndex"`
}

func (s *session) dispatch(f frame) {
	switch f.Event {
	case EventCreatePoll:
		var req createPollRequest
		if err := json.Unmarshal(f.Data, &req); err != nil {
			s.nack(f.Ack, err)
			return
		}
		pollID := s.hub.reg.CreatePoll(req.Title)
		// The creator listens to their own poll's events.
		s.hub.subscribe(s, pollID)
		s.ack(f.Ack, map[string]any{"ok": true, "pollId": pollID})

	case EventStartQuestion:
		var req startQuestionRequest
		if err := json.Unmarshal(f.Data, &req); err != nil {
			s.nack(f.Ack, err)
			return
		}
		duration := time.Duration(req.Duration * float64(time.Second))
		questionID, err := s.hub.ctrl.StartQuestion(req.PollID, req.Question, req.Options, duration, req.CorrectIndex)
		if err != nil {
			s.nack(f.Ack, err)
			return
		}
		s.ack(f.Ack, map[string]any{"ok": true, "questionId": questionID})

	case EventJoin:
		var req joinRequest
		if err := json.Unmarshal(f.Data, &req); err != nil {
			s.nack(f.Ack, err)
			return
		}
		if err := s.hub.tracker.Join(req.PollID, s.id, req.Name); err != nil {
			s.nack(f.Ack, err)
			return
		}
		s.hub.subscribe(s, req.PollID)
		s.ack(f.Ack, map[string]any{"ok": true, "pollId": req.PollID})

	case EventAnswer:
		var req answerRequest
		if err := json.Unmarshal(f.Data, &req); err != nil {
			s.nack(f.Ack, err)
			return
		}
		if err := s.hub.ctrl.SubmitAnswer(req.PollID, s.id, parseOptionIndex(req.OptionIndex)); err != nil {
			s.nack(f.Ack, err)
			return
		}
		s.ack(f.Ack, map[string]any{"ok": true})

	default:
		s.log.Warn("unknown event", "event", f.Event)
	}
}

// parseOptionIndex tolerates anything the client sends. A value that is
// not a JSON integer is recorded as out of range: it counts toward the
// answered total and the early-completion threshold but toward no option.
func parseOptionIndex(raw json.RawMessage) int {
	var idx int
	if err := json.Unmarshal(raw, &idx); err != nil {
		return -1
	}
	return idx
}

// ack replies to a command frame. A zero ack token means the sender did
// not ask for a reply.
func (s *session) ack(token int64, data any) {
	if token == 0 {
		return
	}
	buf, err := json.Marshal(frame{Event: EventAck, Ack: token, Data: mustRaw(data)})
	if err != nil {
		s.log.Error("marshal ack", "err", err)
		return
	}
	s.hub.mu.RLock()
	if !s.closed {
		s.enqueue(buf)
	}
	s.hub.mu.RUnlock()
}

func (s *session) nack(token int64, err error) {
	s.ack(token, map[string]any{"ok": false, "error": err.Error()})
}
