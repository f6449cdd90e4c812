package gateway

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Adamya-Git/live-poll-backend/poll"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBuffer     = 64
)

// Inbound command events.
const (
	EventCreatePoll    = "teacher:create-poll"
	EventStartQuestion = "teacher:start-question"
	EventJoin          = "student:join"
	EventAnswer        = "student:answer"

	// EventAck carries the reply to a command frame.
	EventAck = "ack"
)

// frame is the wire format in both directions. Commands carry a non-zero
// ack token when the sender wants a reply.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	Ack   int64           `json:"ack,omitempty"`
}

// session is one WebSocket connection. The read pump dispatches commands;
// the write pump drains the send channel and keeps the connection alive
// with pings. The closed flag is guarded by the hub mutex.
type session struct {
	id   poll.SessionID
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	log  *slog.Logger

	closed bool
}

// enqueue hands a pre-marshalled frame to the write pump without
// blocking. Callers hold at least a read lock on the hub mutex, which
// excludes the close in Hub.drop.
func (s *session) enqueue(buf []byte) {
	select {
	case s.send <- buf:
	default:
		s.log.Warn("send buffer full, dropping frame")
	}
}

func (s *session) readPump() {
	defer func() {
		s.hub.drop(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("read failed", "err", err)
			}
			return
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			s.log.Warn("malformed frame", "err", err)
			continue
		}
		s.dispatch(f)
	}
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case buf, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, buf); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
