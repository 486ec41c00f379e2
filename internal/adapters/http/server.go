// Package http serves read only diagnostics for a running graph: cell and
// edge state as JSON, the topology as dot or mermaid, and Prometheus
// metrics.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/calyptra/synapse/internal/presentation/graph"
	"github.com/calyptra/synapse/pkg/observability"
	"github.com/calyptra/synapse/pkg/plasm"
	"github.com/calyptra/synapse/pkg/sched"
	"github.com/calyptra/synapse/pkg/tendril"
)

// Server exposes one graph and, optionally, the scheduler driving it.
type Server struct {
	p   *plasm.Plasm
	s   *sched.Scheduler
	log *slog.Logger
}

// NewHandler builds the diagnostics handler. The scheduler may be nil when
// only the topology is of interest.
func NewHandler(p *plasm.Plasm, s *sched.Scheduler, log *slog.Logger) http.Handler {
	srv := &Server{p: p, s: s, log: log}

	reg := prometheus.NewRegistry()
	reg.MustRegister(observability.NewGraphCollector(p))

	r := chi.NewRouter()
	r.Get("/healthz", srv.health)
	r.Get("/cells", srv.cells)
	r.Get("/cells/{name}", srv.cellByName)
	r.Get("/connections", srv.connections)
	r.Get("/graph.dot", srv.dot)
	r.Get("/graph.mmd", srv.mermaid)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return r
}

type cellView struct {
	Name    string         `json:"name"`
	Type    string         `json:"type"`
	State   string         `json:"state"`
	Tick    uint64         `json:"tick"`
	Params  map[string]any `json:"params,omitempty"`
	Inputs  []string       `json:"inputs,omitempty"`
	Outputs []string       `json:"outputs,omitempty"`
}

func (srv *Server) health(w http.ResponseWriter, r *http.Request) {
	running := srv.s != nil && srv.s.Running()
	srv.writeJSON(w, map[string]any{
		"status":  "ok",
		"running": running,
		"cells":   srv.p.Len(),
	})
}

func (srv *Server) cells(w http.ResponseWriter, r *http.Request) {
	views := make([]cellView, 0, srv.p.Len())
	for _, c := range srv.p.Cells() {
		views = append(views, cellView{
			Name:    c.Name(),
			Type:    c.TypeName(),
			State:   c.State().String(),
			Tick:    c.Tick(),
			Inputs:  c.Inputs().Names(),
			Outputs: c.Outputs().Names(),
		})
	}
	srv.writeJSON(w, views)
}

func (srv *Server) cellByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	c, err := srv.p.Cell(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	srv.writeJSON(w, cellView{
		Name:    c.Name(),
		Type:    c.TypeName(),
		State:   c.State().String(),
		Tick:    c.Tick(),
		Params:  jsonSafeValues(c.Params()),
		Inputs:  c.Inputs().Names(),
		Outputs: c.Outputs().Names(),
	})
}

type connectionView struct {
	From     string `json:"from"`
	FromPort string `json:"from_port"`
	To       string `json:"to"`
	ToPort   string `json:"to_port"`
	Queued   int    `json:"queued"`
}

func (srv *Server) connections(w http.ResponseWriter, r *http.Request) {
	conns := srv.p.Connections()
	views := make([]connectionView, 0, len(conns))
	for _, conn := range conns {
		views = append(views, connectionView{
			From: conn.From, FromPort: conn.FromPort,
			To: conn.To, ToPort: conn.ToPort,
			Queued: conn.Edge.Len(),
		})
	}
	srv.writeJSON(w, views)
}

func (srv *Server) dot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(graph.GenerateDot(srv.p, graph.CaptureOverlay(srv.p))))
}

func (srv *Server) mermaid(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(srv.p, graph.CaptureOverlay(srv.p))))
}

func (srv *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		srv.log.Error("encode response", slog.String("error", err.Error()))
	}
}

// jsonSafeValues keeps only values the JSON encoder can represent.
func jsonSafeValues(ts *tendril.Tendrils) map[string]any {
	out := make(map[string]any)
	for name, v := range ts.Values() {
		if _, err := json.Marshal(v); err == nil {
			out[name] = v
		}
	}
	return out
}
