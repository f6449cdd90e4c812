package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Adamya-Git/live-poll-backend/metrics"
	"github.com/Adamya-Git/live-poll-backend/poll"
)

// Hub upgrades connections, tracks which sessions subscribe to which
// polls and fans poll events out to them. It owns the lifecycle
// controller and membership tracker it wires to the registry.
type Hub struct {
	reg     *poll.Registry
	ctrl    *poll.Controller
	tracker *poll.Tracker
	log     *slog.Logger

	upgrader websocket.Upgrader

	mu    sync.RWMutex
	rooms map[string]map[*session]struct{}
}

// New creates a hub over the registry. The hub itself is the publisher
// the controller and tracker emit through.
func New(reg *poll.Registry, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	h := &Hub{
		reg: reg,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin policy is enforced by the CORS layer in front.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		rooms: make(map[string]map[*session]struct{}),
	}
	h.ctrl = poll.NewController(reg, h, log)
	h.tracker = poll.NewTracker(reg, h, log)
	return h
}

// RegisterRoutes implements the route registrar interface of the HTTP
// server.
func (h *Hub) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.serveWS)
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "err", err)
		return
	}

	s := &session{
		id:   poll.SessionID(uuid.NewString()),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	s.log = h.log.With("session", s.id)

	metrics.SessionsConnected.Inc()
	s.log.Info("session connected", "remote", r.RemoteAddr)

	go s.writePump()
	s.readPump()
}

// Publish implements poll.Publisher. Callers hold the registry mutex;
// enqueueing must therefore never block.
func (h *Hub) Publish(pollID string, event string, payload any) {
	buf, err := json.Marshal(frame{Event: event, Data: mustRaw(payload)})
	if err != nil {
		h.log.Error("marshal event", "event", event, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.rooms[pollID] {
		s.enqueue(buf)
	}
}

// subscribe adds the session to the poll's room. Duplicate subscriptions
// collapse.
func (h *Hub) subscribe(s *session, pollID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.closed {
		return
	}
	room, ok := h.rooms[pollID]
	if !ok {
		room = make(map[*session]struct{})
		h.rooms[pollID] = room
	}
	room[s] = struct{}{}
}

// drop removes the session from every room and closes its send channel,
// exactly once, then runs the disconnect cleanup outside the hub lock.
func (h *Hub) drop(s *session) {
	h.mu.Lock()
	if s.closed {
		h.mu.Unlock()
		return
	}
	s.closed = true
	for id, room := range h.rooms {
		if _, ok := room[s]; ok {
			delete(room, s)
			if len(room) == 0 {
				delete(h.rooms, id)
			}
		}
	}
	close(s.send)
	h.mu.Unlock()

	// Tracker.Leave takes the registry mutex; the hub lock must be
	// released first (Publish runs under the registry mutex and takes the
	// hub lock, fixing the lock order as registry before hub).
	h.tracker.Leave(s.id)
	metrics.SessionsConnected.Dec()
	s.log.Info("session disconnected")
}

func mustRaw(payload any) json.RawMessage {
	raw, err := json.Marshal(payload)
	if err != nil {
		return json.RawMessage(`null`)
	}
	return raw
}
