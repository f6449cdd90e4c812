// Package cmd provides the CLI commands of the live poll backend.
//
// # Commands
//
// server: Runs the poll server. Teachers and students connect over the
// WebSocket endpoint at /ws; state is in-memory only.
//
//	go run ./cmd/server
//	go run ./cmd/server --config=config.yaml --metrics-addr=:9090
//
// pollctl: CLI for driving a running server, useful for demos and smoke
// tests.
//
//	go run ./cmd/pollctl create --title="Quiz 1" --watch
//	go run ./cmd/pollctl ask --poll=abc1234 --question="2+2?" --options="3,4,5" --correct=1
//	go run ./cmd/pollctl join --poll=abc1234 --name=Alice
//	go run ./cmd/pollctl answer --poll=abc1234 --name=Alice --index=1
//
// # Configuration
//
// The server command supports a YAML configuration file via the --config
// flag. Command-line flags override config file values, and the PORT
// environment variable (optionally loaded from a .env file) overrides the
// listen address.
//
// Example config:
//
//	http_addr: ":4000"
//	metrics_addr: ":9090"
//	log_json: true
//	allowed_origins:
//	  - "https://polls.example.com"
//	drain_duration: 5s
//	shutdown_duration: 10s
package cmd
