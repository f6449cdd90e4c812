package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/Adamya-Git/live-poll-backend/poll"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	hub := New(poll.NewRegistry(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	hub.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// wsClient drives one connection in tests. Broadcast frames arriving
// while waiting for an ack are kept in a backlog so call and waitEvent
// can interleave freely.
type wsClient struct {
	t       *testing.T
	conn    *websocket.Conn
	acks    int64
	backlog []frame
}

func dialWS(t *testing.T, srv *httptest.Server) *wsClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return &wsClient{t: t, conn: conn}
}

func (c *wsClient) readFrame() frame {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := c.conn.ReadMessage()
	require.NoError(c.t, err)
	var f frame
	require.NoError(c.t, json.Unmarshal(raw, &f))
	return f
}

// call sends a command with an ack token and returns the ack data.
func (c *wsClient) call(event string, data any) map[string]any {
	c.t.Helper()
	c.acks++
	token := c.acks
	require.NoError(c.t, c.conn.WriteJSON(frame{Event: event, Data: mustRaw(data), Ack: token}))
	for {
		f := c.readFrame()
		if f.Event == EventAck && f.Ack == token {
			var out map[string]any
			require.NoError(c.t, json.Unmarshal(f.Data, &out))
			return out
		}
		c.backlog = append(c.backlog, f)
	}
}

// waitEvent returns the next broadcast frame with the given event name,
// consuming the backlog first.
func (c *wsClient) waitEvent(name string) frame {
	c.t.Helper()
	for i, f := range c.backlog {
		if f.Event == name {
			c.backlog = append(c.backlog[:i], c.backlog[i+1:]...)
			return f
		}
	}
	for {
		f := c.readFrame()
		if f.Event == name {
			return f
		}
		c.backlog = append(c.backlog, f)
	}
}

func decodeData[T any](t *testing.T, f frame) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(f.Data, &out))
	return out
}

func createPoll(t *testing.T, c *wsClient, title string) string {
	t.Helper()
	ack := c.call(EventCreatePoll, createPollRequest{Title: title})
	require.Equal(t, true, ack["ok"])
	return ack["pollId"].(string)
}

func TestCreatePollAck(t *testing.T) {
	srv := newTestServer(t)
	teacher := dialWS(t, srv)

	ack := teacher.call(EventCreatePoll, createPollRequest{Title: "Quiz 1"})
	require.Equal(t, true, ack["ok"])
	require.Len(t, ack["pollId"].(string), 7)
}

func TestJoinUnknownPoll(t *testing.T) {
	srv := newTestServer(t)
	student := dialWS(t, srv)

	ack := student.call(EventJoin, joinRequest{PollID: "nope", Name: "Alice"})
	require.Equal(t, false, ack["ok"])
	require.Equal(t, "Poll not found", ack["error"])
}

func TestAnswerWithoutQuestion(t *testing.T) {
	srv := newTestServer(t)
	teacher := dialWS(t, srv)
	pollID := createPoll(t, teacher, "Quiz")

	student := dialWS(t, srv)
	student.call(EventJoin, joinRequest{PollID: pollID, Name: "Alice"})

	ack := student.call(EventAnswer, map[string]any{"pollId": pollID, "optionIndex": 0})
	require.Equal(t, false, ack["ok"])
	require.Equal(t, "No active question", ack["error"])
}

func TestDoubleStartRejected(t *testing.T) {
	srv := newTestServer(t)
	teacher := dialWS(t, srv)
	pollID := createPoll(t, teacher, "Quiz")

	ack := teacher.call(EventStartQuestion, startQuestionRequest{
		PollID: pollID, Question: "q1", Options: []string{"a", "b"}, Duration: 60,
	})
	require.Equal(t, true, ack["ok"])

	ack = teacher.call(EventStartQuestion, startQuestionRequest{
		PollID: pollID, Question: "q2", Options: []string{"c"}, Duration: 60,
	})
	require.Equal(t, false, ack["ok"])
	require.Equal(t, "Question already active", ack["error"])
}

func TestJoinBroadcastsRoster(t *testing.T) {
	srv := newTestServer(t)
	teacher := dialWS(t, srv)
	pollID := createPoll(t, teacher, "Quiz")

	alice := dialWS(t, srv)
	alice.call(EventJoin, joinRequest{PollID: pollID, Name: "Alice"})
	roster := decodeData[[]string](t, teacher.waitEvent(poll.EventStudentList))
	require.Equal(t, []string{"Alice"}, roster)

	bob := dialWS(t, srv)
	bob.call(EventJoin, joinRequest{PollID: pollID, Name: ""})
	roster = decodeData[[]string](t, teacher.waitEvent(poll.EventStudentList))
	require.Equal(t, []string{"Alice", "Anonymous"}, roster)

	// Joined students see roster changes too: first their own join, then
	// Bob's.
	require.Equal(t, []string{"Alice"},
		decodeData[[]string](t, alice.waitEvent(poll.EventStudentList)))
	require.Equal(t, []string{"Alice", "Anonymous"},
		decodeData[[]string](t, alice.waitEvent(poll.EventStudentList)))
}

func TestQuestionBroadcastAndEarlyCompletion(t *testing.T) {
	srv := newTestServer(t)
	teacher := dialWS(t, srv)
	pollID := createPoll(t, teacher, "Quiz 1")

	alice := dialWS(t, srv)
	bob := dialWS(t, srv)
	alice.call(EventJoin, joinRequest{PollID: pollID, Name: "Alice"})
	bob.call(EventJoin, joinRequest{PollID: pollID, Name: "Bob"})

	correct := 0
	before := time.Now()
	ack := teacher.call(EventStartQuestion, startQuestionRequest{
		PollID: pollID, Question: "Capital of France?",
		Options: []string{"Paris", "Lyon", "Nice"}, Duration: 60, CorrectIndex: &correct,
	})
	require.Equal(t, true, ack["ok"])

	for _, c := range []*wsClient{teacher, alice, bob} {
		start := decodeData[poll.QuestionStart](t, c.waitEvent(poll.EventQuestionStart))
		require.Equal(t, "Capital of France?", start.Question)
		require.Equal(t, []string{"Paris", "Lyon", "Nice"}, start.Options)
		require.GreaterOrEqual(t, start.EndsAt, before.Add(time.Minute).UnixMilli())
	}

	require.Equal(t, true, alice.call(EventAnswer, map[string]any{"pollId": pollID, "optionIndex": 0})["ok"])
	partial := decodeData[poll.QuestionPartial](t, teacher.waitEvent(poll.EventQuestionPartial))
	require.Equal(t, []int{1, 0, 0}, partial.Partial.Counts)
	require.Equal(t, 1, partial.Partial.Total)

	// Bob's answer completes the roster; the question ends well before
	// the 60s deadline.
	require.Equal(t, true, bob.call(EventAnswer, map[string]any{"pollId": pollID, "optionIndex": 1})["ok"])

	for _, c := range []*wsClient{teacher, alice, bob} {
		end := decodeData[poll.QuestionEnd](t, c.waitEvent(poll.EventQuestionEnd))
		require.Equal(t, []int{1, 1, 0}, end.Results.Counts)
		require.Equal(t, 2, end.Results.Total)
		require.NotNil(t, end.CorrectIndex)
		require.Equal(t, 0, *end.CorrectIndex)
		require.Equal(t, []string{"Paris", "Lyon", "Nice"}, end.Options)
	}
}

func TestNonIntegerAnswerRecorded(t *testing.T) {
	srv := newTestServer(t)
	teacher := dialWS(t, srv)
	pollID := createPoll(t, teacher, "Quiz")

	alice := dialWS(t, srv)
	alice.call(EventJoin, joinRequest{PollID: pollID, Name: "Alice"})

	teacher.call(EventStartQuestion, startQuestionRequest{
		PollID: pollID, Question: "q", Options: []string{"a", "b"}, Duration: 60,
	})

	// A garbage index is still an answer: it completes the one-student
	// roster and counts toward the total, but toward no option.
	ack := alice.call(EventAnswer, map[string]any{"pollId": pollID, "optionIndex": "two"})
	require.Equal(t, true, ack["ok"])

	end := decodeData[poll.QuestionEnd](t, teacher.waitEvent(poll.EventQuestionEnd))
	require.Equal(t, []int{0, 0}, end.Results.Counts)
	require.Equal(t, 1, end.Results.Total)
}

func TestDisconnectUpdatesRoster(t *testing.T) {
	srv := newTestServer(t)
	teacher := dialWS(t, srv)
	pollID := createPoll(t, teacher, "Quiz")

	alice := dialWS(t, srv)
	bob := dialWS(t, srv)
	alice.call(EventJoin, joinRequest{PollID: pollID, Name: "Alice"})
	bob.call(EventJoin, joinRequest{PollID: pollID, Name: "Bob"})
	teacher.waitEvent(poll.EventStudentList)
	teacher.waitEvent(poll.EventStudentList)

	require.NoError(t, bob.conn.Close())

	roster := decodeData[[]string](t, teacher.waitEvent(poll.EventStudentList))
	require.Equal(t, []string{"Alice"}, roster)
}

func TestDeadlineBroadcast(t *testing.T) {
	srv := newTestServer(t)
	teacher := dialWS(t, srv)
	pollID := createPoll(t, teacher, "Quiz")

	alice := dialWS(t, srv)
	bob := dialWS(t, srv)
	alice.call(EventJoin, joinRequest{PollID: pollID, Name: "Alice"})
	bob.call(EventJoin, joinRequest{PollID: pollID, Name: "Bob"})

	teacher.call(EventStartQuestion, startQuestionRequest{
		PollID: pollID, Question: "q", Options: []string{"a", "b", "c"}, Duration: 0.05,
	})
	alice.call(EventAnswer, map[string]any{"pollId": pollID, "optionIndex": 0})

	// Bob never answers; the deadline ends the question with the partial
	// result.
	end := decodeData[poll.QuestionEnd](t, teacher.waitEvent(poll.EventQuestionEnd))
	require.Equal(t, []int{1, 0, 0}, end.Results.Counts)
	require.Equal(t, 1, end.Results.Total)
	require.Nil(t, end.CorrectIndex)
}
