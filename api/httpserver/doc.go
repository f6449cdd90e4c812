// Package httpserver provides the HTTP server the poll backend runs on.
//
// The server wires component routes (the WebSocket gateway) into a chi
// router alongside standard operational endpoints: a root liveness text,
// /livez, /readyz, drain control for load balancers, an optional metrics
// listener and optional pprof. Components implement RouteRegistrar to
// contribute their routes.
//
// Lifecycle: New configures, RunInBackground starts the HTTP and metrics
// listeners, Shutdown waits for in-flight requests up to the configured
// graceful shutdown duration.
package httpserver
