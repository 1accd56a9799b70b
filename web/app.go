// Package web serves a rendered flow diagram and its ledger over HTTP.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakib/mankey/runtime"
	"github.com/sakib/mankey/viz"
)

// App holds everything rendered at startup. It never mutates after
// NewApp returns, so handlers share it freely.
type App struct {
	Title   string
	Diagram *viz.Diagram
	Ledger  []runtime.LedgerEntry
	Policy  runtime.PolicyInfo

	page   []byte
	mux    *http.ServeMux
	logger *slog.Logger
}

type ledgerResponse struct {
	Policy runtime.PolicyInfo    `json:"policy"`
	Stocks []runtime.LedgerEntry `json:"stocks"`
}

// NewApp renders the diagram page once and sets up the routes.
func NewApp(title string, rec *runtime.Reconciled, d *viz.Diagram, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	page, err := viz.NewPlotlyGenerator(viz.DefaultPlotConfig()).Generate(title, d)
	if err != nil {
		return nil, err
	}
	app := &App{
		Title:   title,
		Diagram: d,
		Ledger:  rec.Entries(),
		Policy:  rec.Policy(),
		page:    []byte(page),
		mux:     http.NewServeMux(),
		logger:  logger,
	}
	app.setupRoutes()
	return app, nil
}

func (a *App) Handler() http.Handler {
	return withRequestLog(a.logger, a.mux)
}

func (a *App) setupRoutes() {
	// GET /              - the diagram page
	// GET /api/diagram   - the renderer payload
	// GET /api/ledger    - per stock inflow/outflow totals
	// GET /healthz       - liveness
	a.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(a.page)
	})
	a.mux.HandleFunc("GET /api/diagram", func(w http.ResponseWriter, r *http.Request) {
		a.writeJSON(w, a.Diagram)
	})
	a.mux.HandleFunc("GET /api/ledger", func(w http.ResponseWriter, r *http.Request) {
		a.writeJSON(w, ledgerResponse{Policy: a.Policy, Stocks: a.Ledger})
	})
	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		a.writeJSON(w, map[string]string{"status": "ok"})
	})
}

func (a *App) writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		a.logger.Error("web.encode_failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
