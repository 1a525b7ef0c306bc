// Package introspect serves a running container's graph shape over
// HTTP/JSON: an http.ServeMux exposing typed JSON responses describing
// a flow container's children and connection wiring. Read-only: it
// never mutates the container it reports on.
package introspect

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cuemby/flowrt/pkg/flow"
	"github.com/cuemby/flowrt/pkg/flowmetrics"
	"github.com/cuemby/flowrt/pkg/nodetype"
)

// Server exposes a container's shape over HTTP.
type Server struct {
	container *flow.Container
	mux       *http.ServeMux
}

// New creates an introspection server for container. container may be
// replaced later via SetContainer, e.g. once a CLI command has finished
// opening the graph it was asked to run.
func New(container *flow.Container) *Server {
	mux := http.NewServeMux()
	s := &Server{container: container, mux: mux}

	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/graph", s.graphHandler)
	mux.Handle("/metrics", flowmetrics.Handler())

	return s
}

// SetContainer swaps the container reported on. Safe to call before the
// server starts serving traffic; not synchronised against concurrent
// requests. flowrt's CLI does not call it: serve passes its container
// to New.
func (s *Server) SetContainer(c *flow.Container) { s.container = c }

// Start runs the HTTP server, blocking until it exits or ctx-equivalent
// shutdown (the caller is expected to kill the process; flowrt has no
// graceful-drain requirement beyond what http.Server already gives it).
func (s *Server) Start(addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server.ListenAndServe()
}

// Handler returns the HTTP handler for embedding in another server.
func (s *Server) Handler() http.Handler { return s.mux }

// HealthResponse is the /health payload: simple liveness, mirroring the
// orchestrator's HealthResponse shape.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Timestamp: time.Now()})
}

// NodeView describes one live child node for /graph.
type NodeView struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Type  string `json:"type"`
}

// GraphResponse is the /graph payload: every live child and the
// connections between them, as currently wired.
type GraphResponse struct {
	Nodes       []NodeView `json:"nodes"`
	Connections []string   `json:"connections"`
}

func (s *Server) graphHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.container == nil {
		http.Error(w, "no container open", http.StatusServiceUnavailable)
		return
	}

	children := s.container.Children()
	resp := GraphResponse{Nodes: make([]NodeView, 0, len(children))}
	for i, child := range children {
		resp.Nodes = append(resp.Nodes, NodeView{
			Index: i, ID: child.ID, Type: child.Type.Description().Name,
		})
	}
	resp.Connections = connectionSummaries(children)

	writeJSON(w, http.StatusOK, resp)
}

// connectionSummaries renders each child's output port refcounts as
// "childID.port -> N connections"; the container doesn't expose the raw
// sorted connection table outside pkg/flow, so this reports what every
// node already tracks about itself instead of reaching into CompositeSpec.
func connectionSummaries(children []*nodetype.Node) []string {
	var out []string
	for _, child := range children {
		for _, p := range child.Type.PortsOut() {
			width := p.Size
			if width == 0 {
				width = 1
			}
			for i := uint16(0); i < width; i++ {
				port := p.Base + i
				if refs := child.OutRefs(port); refs > 0 {
					out = append(out, portSummary(child.ID, p.Name, port, refs))
				}
			}
		}
	}
	return out
}

func portSummary(id, portName string, port uint16, refs int) string {
	return id + "." + portName + ":" + strconv.Itoa(int(port)) + " -> " + strconv.Itoa(refs) + " connection(s)"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
