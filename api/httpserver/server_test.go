package httpserver

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type pingRegistrar struct{}

func (pingRegistrar) RegisterRoutes(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("pong"))
	})
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv, err := New(&HTTPServerConfig{
		ListenAddr:    ":0",
		Log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		DrainDuration: time.Millisecond,
	}, pingRegistrar{})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestRootBanner(t *testing.T) {
	ts := newTestServer(t)
	code, body := get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Live Poll Server Running", body)
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	code, _ := get(t, ts.URL+"/livez")
	require.Equal(t, http.StatusOK, code)

	code, _ = get(t, ts.URL+"/readyz")
	require.Equal(t, http.StatusOK, code)
}

func TestDrainUndrain(t *testing.T) {
	ts := newTestServer(t)

	code, _ := get(t, ts.URL+"/drain")
	require.Equal(t, http.StatusOK, code)

	code, _ = get(t, ts.URL+"/readyz")
	require.Equal(t, http.StatusServiceUnavailable, code)

	code, _ = get(t, ts.URL+"/undrain")
	require.Equal(t, http.StatusOK, code)

	code, _ = get(t, ts.URL+"/readyz")
	require.Equal(t, http.StatusOK, code)
}

func TestRegistrarRoutesMounted(t *testing.T) {
	ts := newTestServer(t)
	code, body := get(t, ts.URL+"/ping")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "pong", body)
}
