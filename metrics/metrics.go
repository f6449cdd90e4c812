// Package metrics exposes Prometheus instrumentation for the live poll
// server on a dedicated listener, separate from the application endpoints.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "livepoll"

// End causes for the questions_ended_total counter.
const (
	CauseDeadline    = "deadline"
	CauseAllAnswered = "all_answered"
)

var (
	// PollsCreated counts polls created since process start.
	PollsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "polls_created_total",
		Help:      "Number of polls created.",
	})

	// QuestionsStarted counts questions broadcast to poll subscribers.
	QuestionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "questions_started_total",
		Help:      "Number of questions started.",
	})

	// QuestionsEnded counts ended questions partitioned by what ended them:
	// the deadline timer or every joined student having answered.
	QuestionsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "questions_ended_total",
		Help:      "Number of questions ended, by trigger.",
	}, []string{"cause"})

	// AnswersReceived counts answer submissions, including overwrites.
	AnswersReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "answers_received_total",
		Help:      "Number of answer submissions received.",
	})

	// SessionsConnected tracks currently connected gateway sessions.
	SessionsConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_connected",
		Help:      "Number of currently connected sessions.",
	})
)

// MetricsServer serves the Prometheus scrape endpoint.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server listening on addr. An empty addr yields a
// server whose ListenAndServe is a no-op, so callers do not need to special
// case disabled metrics.
func New(addr string) (*MetricsServer, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// ListenAndServe blocks serving the scrape endpoint until Shutdown.
func (m *MetricsServer) ListenAndServe() error {
	if m.srv.Addr == "" {
		return nil
	}
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
