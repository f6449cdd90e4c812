// Command pollctl provides CLI tools for interacting with a running poll
// server.
//
// # Commands
//
// create: Create a poll and print its identifier.
//
//	pollctl create --server=ws://localhost:4000 --title="Quiz 1" --watch
//
// ask: Start a question on an existing poll.
//
//	pollctl ask --poll=abc1234 --question="Capital of France?" --options="Paris,Lyon,Nice" --duration=30 --correct=0
//
// join: Join a poll as a student and stream its events.
//
//	pollctl join --poll=abc1234 --name=Alice
//
// answer: Join a poll and answer the current question.
//
//	pollctl answer --poll=abc1234 --name=Alice --index=0
//
// watch: Stream a poll's events. The watcher joins the roster while
// connected.
//
//	pollctl watch --poll=abc1234
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "create":
		err = runCreate(args)
	case "ask":
		err = runAsk(args)
	case "join":
		err = runJoin(args)
	case "answer":
		err = runAnswer(args)
	case "watch":
		err = runWatch(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pollctl - CLI tools for the live poll server

Usage:
  pollctl <command> [options]

Commands:
  create    Create a poll
  ask       Start a question on a poll
  join      Join a poll and stream its events
  answer    Join a poll and answer the current question
  watch     Stream a poll's events

Run 'pollctl <command> --help' for command-specific options.`)
}

// frame mirrors the gateway wire format.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	Ack   int64           `json:"ack,omitempty"`
}

// conn wraps one WebSocket connection with ack bookkeeping.
type conn struct {
	ws   *websocket.Conn
	acks int64
}

func dial(server string) (*conn, error) {
	url := strings.TrimSuffix(server, "/") + "/ws"
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	return &conn{ws: ws}, nil
}

func (c *conn) close() { c.ws.Close() }

// call sends a command and waits for its ack, printing broadcast frames
// that arrive in between. It fails when the server acks with ok=false.
func (c *conn) call(event string, data any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	c.acks++
	token := c.acks
	if err := c.ws.WriteJSON(frame{Event: event, Data: raw, Ack: token}); err != nil {
		return nil, fmt.Errorf("send %s: %w", event, err)
	}

	c.ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	for {
		var f frame
		if err := c.ws.ReadJSON(&f); err != nil {
			return nil, fmt.Errorf("await ack: %w", err)
		}
		if f.Event != "ack" || f.Ack != token {
			printFrame(f)
			continue
		}
		var out map[string]any
		if err := json.Unmarshal(f.Data, &out); err != nil {
			return nil, err
		}
		if ok, _ := out["ok"].(bool); !ok {
			return nil, fmt.Errorf("%v", out["error"])
		}
		return out, nil
	}
}

// stream prints broadcast frames until the connection drops or the process
// is interrupted.
func (c *conn) stream() error {
	done := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		close(done)
		c.ws.Close()
	}()

	c.ws.SetReadDeadline(time.Time{})
	for {
		var f frame
		if err := c.ws.ReadJSON(&f); err != nil {
			select {
			case <-done:
				return nil
			default:
				return fmt.Errorf("stream: %w", err)
			}
		}
		printFrame(f)
	}
}

func printFrame(f frame) {
	fmt.Printf("%-17s %s\n", f.Event, string(f.Data))
}

func runCreate(args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	server := fs.String("server", "ws://localhost:4000", "Server WebSocket base URL")
	title := fs.String("title", "", "Poll title")
	watch := fs.Bool("watch", false, "Keep streaming the poll's events")
	fs.Parse(args)

	c, err := dial(*server)
	if err != nil {
		return err
	}
	defer c.close()

	ack, err := c.call("teacher:create-poll", map[string]any{"title": *title})
	if err != nil {
		return err
	}
	fmt.Printf("Poll created: %s\n", ack["pollId"])

	if *watch {
		return c.stream()
	}
	return nil
}

func runAsk(args []string) error {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	server := fs.String("server", "ws://localhost:4000", "Server WebSocket base URL")
	pollID := fs.String("poll", "", "Poll identifier")
	question := fs.String("question", "", "Question text")
	options := fs.String("options", "", "Comma-separated answer options")
	duration := fs.Float64("duration", 60, "Question duration in seconds")
	correct := fs.Int("correct", -1, "Index of the correct option (-1 for none)")
	fs.Parse(args)

	if *pollID == "" || *options == "" {
		return fmt.Errorf("--poll and --options are required")
	}

	c, err := dial(*server)
	if err != nil {
		return err
	}
	defer c.close()

	data := map[string]any{
		"pollId":   *pollID,
		"question": *question,
		"options":  strings.Split(*options, ","),
		"duration": *duration,
	}
	if *correct >= 0 {
		data["correctIndex"] = *correct
	}

	ack, err := c.call("teacher:start-question", data)
	if err != nil {
		return err
	}
	fmt.Printf("Question started: %s\n", ack["questionId"])
	return nil
}

func runJoin(args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	server := fs.String("server", "ws://localhost:4000", "Server WebSocket base URL")
	pollID := fs.String("poll", "", "Poll identifier")
	name := fs.String("name", "", "Display name")
	fs.Parse(args)

	if *pollID == "" {
		return fmt.Errorf("--poll is required")
	}

	c, err := dial(*server)
	if err != nil {
		return err
	}
	defer c.close()

	if _, err := c.call("student:join", map[string]any{"pollId": *pollID, "name": *name}); err != nil {
		return err
	}
	fmt.Printf("Joined poll %s\n", *pollID)
	return c.stream()
}

func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	server := fs.String("server", "ws://localhost:4000", "Server WebSocket base URL")
	pollID := fs.String("poll", "", "Poll identifier")
	name := fs.String("name", "observer", "Display name to watch under")
	fs.Parse(args)

	if *pollID == "" {
		return fmt.Errorf("--poll is required")
	}

	c, err := dial(*server)
	if err != nil {
		return err
	}
	defer c.close()

	// Subscribing requires joining, so the watcher shows up on the roster
	// and counts toward the all-answered threshold while connected.
	if _, err := c.call("student:join", map[string]any{"pollId": *pollID, "name": *name}); err != nil {
		return err
	}
	return c.stream()
}

func runAnswer(args []string) error {
	fs := flag.NewFlagSet("answer", flag.ExitOnError)
	server := fs.String("server", "ws://localhost:4000", "Server WebSocket base URL")
	pollID := fs.String("poll", "", "Poll identifier")
	name := fs.String("name", "", "Display name")
	index := fs.Int("index", 0, "Index of the chosen option")
	fs.Parse(args)

	if *pollID == "" {
		return fmt.Errorf("--poll is required")
	}

	c, err := dial(*server)
	if err != nil {
		return err
	}
	defer c.close()

	if _, err := c.call("student:join", map[string]any{"pollId": *pollID, "name": *name}); err != nil {
		return err
	}
	if _, err := c.call("student:answer", map[string]any{"pollId": *pollID, "optionIndex": *index}); err != nil {
		return err
	}
	fmt.Println("Answer recorded")
	return nil
}
