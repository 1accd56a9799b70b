package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sakib/mankey/core"
	"github.com/sakib/mankey/runtime"
	"github.com/sakib/mankey/viz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, logs io.Writer) *App {
	t.Helper()
	stocks := []core.Stock{
		core.NewStock("Employer", "USD", 0, true).WithColor("Gold"),
		core.NewStock("PNC Checking", "USD", 100, false),
	}
	f, err := core.NewFlow("Employer", "PNC Checking", 4000, 1)
	require.NoError(t, err)
	rec, err := runtime.NewSystem(stocks, []core.Flow{f}).Reconcile()
	require.NoError(t, err)
	d, err := viz.NewProjector(viz.DefaultPalette(), viz.DefaultLayout()).Project(rec)
	require.NoError(t, err)

	logger := slog.New(slog.NewJSONHandler(logs, nil))
	app, err := NewApp("Household", rec, d, logger)
	require.NoError(t, err)
	return app
}

func TestRoutes(t *testing.T) {
	var logs bytes.Buffer
	srv := httptest.NewServer(newTestApp(t, &logs).Handler())
	defer srv.Close()

	t.Run("page", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		assert.Contains(t, string(body), "<title>Household</title>")
		assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
	})

	t.Run("diagram", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/diagram")
		require.NoError(t, err)
		defer resp.Body.Close()
		var d viz.Diagram
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
		assert.Equal(t, []string{"Employer", "PNC Checking"}, d.Node.Label)
		assert.Equal(t, []float64{4000}, d.Link.Value)
	})

	t.Run("ledger", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/ledger")
		require.NoError(t, err)
		defer resp.Body.Close()
		var out struct {
			Policy runtime.PolicyInfo `json:"policy"`
			Stocks []map[string]any   `json:"stocks"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "class", out.Policy.Name)
		require.Len(t, out.Stocks, 2)
		assert.Equal(t, "+Inf", out.Stocks[0]["value"])
	})

	t.Run("healthz", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/healthz")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/nope")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("method", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/diagram", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	assert.Contains(t, logs.String(), `"msg":"web.request"`)
	assert.Contains(t, logs.String(), `"path":"/api/ledger"`)
}

func TestRequestIDIsPropagated(t *testing.T) {
	app := newTestApp(t, io.Discard)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestServerShutsDownOnCancel(t *testing.T) {
	app := newTestApp(t, io.Discard)
	ready := make(chan string, 1)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{Address: "127.0.0.1:0", Handler: app.Handler(), Ready: ready, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	addr := <-ready
	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServerListenError(t *testing.T) {
	s := &Server{Address: "not-an-address", Handler: http.NotFoundHandler()}
	assert.Error(t, s.Run(context.Background()))
}
