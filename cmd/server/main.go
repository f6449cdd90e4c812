// Command server runs the live poll backend.
//
// The server exposes a WebSocket endpoint at /ws over which teachers create
// polls and broadcast questions, and students join and answer. Results fan
// out to every subscriber in real time. State lives in memory; restarting
// the server forgets all polls.
//
// # Usage
//
//	go run ./cmd/server
//	go run ./cmd/server --addr=:9000 --metrics-addr=:9090
//	go run ./cmd/server --config=config.yaml
//
// Command-line flags override config file values; the PORT environment
// variable (optionally from a .env file) overrides the listen address.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adamya-Git/live-poll-backend/api/httpserver"
	"github.com/Adamya-Git/live-poll-backend/cmd/common"
	"github.com/Adamya-Git/live-poll-backend/gateway"
	"github.com/Adamya-Git/live-poll-backend/poll"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to YAML config file")
		envPath     = flag.String("env", "", "Path to .env file (default .env)")
		addr        = flag.String("addr", "", "HTTP listen address")
		metricsAddr = flag.String("metrics-addr", "", "Metrics listen address (empty disables)")
		pprof       = flag.Bool("pprof", false, "Enable pprof debug API")
		logJSON     = flag.Bool("log-json", false, "Log in JSON format")
		logDebug    = flag.Bool("log-debug", false, "Log at debug level")
	)
	flag.Parse()

	isFlagSet := func(name string) bool {
		found := false
		flag.Visit(func(f *flag.Flag) {
			if f.Name == name {
				found = true
			}
		})
		return found
	}

	common.LoadEnv(*envPath)

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if isFlagSet("addr") {
		cfg.HTTPAddr = *addr
	}
	if isFlagSet("metrics-addr") {
		cfg.MetricsAddr = *metricsAddr
	}
	if isFlagSet("pprof") {
		cfg.EnablePprof = *pprof
	}
	if isFlagSet("log-json") {
		cfg.LogJSON = *logJSON
	}
	if isFlagSet("log-debug") {
		cfg.LogDebug = *logDebug
	}
	cfg.HTTPAddr = common.EnvAddr(cfg.HTTPAddr)

	log := common.NewLogger(cfg)

	reg := poll.NewRegistry()
	hub := gateway.New(reg, log)

	srv, err := httpserver.New(&httpserver.HTTPServerConfig{
		ListenAddr:               cfg.HTTPAddr,
		MetricsAddr:              cfg.MetricsAddr,
		EnablePprof:              cfg.EnablePprof,
		AllowedOrigins:           cfg.AllowedOrigins,
		Log:                      log,
		DrainDuration:            cfg.DrainDuration,
		GracefulShutdownDuration: cfg.ShutdownDuration,
		ReadTimeout:              cfg.ReadTimeout,
	}, hub)
	if err != nil {
		log.Error("Create server failed", "err", err)
		os.Exit(1)
	}

	srv.RunInBackground()
	log.Info("Live poll server running", "addr", cfg.HTTPAddr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down", "drain", cfg.DrainDuration)
	time.Sleep(cfg.DrainDuration)
	srv.Shutdown()
}
