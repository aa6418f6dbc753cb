// Package ingest adapts browser-side capture payloads to the dispatcher's
// entry points over HTTP. It renders nothing: the response carries the
// classification and recovery plan for whatever UI the client owns.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vietddude/faultline/internal/faults/dispatch"
	"github.com/vietddude/faultline/internal/faults/normalize"
)

// Server exposes the three capture entry points.
type Server struct {
	dispatcher *dispatch.Dispatcher
	server     *http.Server
	log        *slog.Logger
}

// NewServer creates an ingest server around one dispatcher.
func NewServer(dispatcher *dispatch.Dispatcher, port int, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	mux := http.NewServeMux()
	s := &Server{
		dispatcher: dispatcher,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
		log: log,
	}

	mux.HandleFunc("POST /v1/events/error", s.handleError)
	mux.HandleFunc("POST /v1/events/rejection", s.handleRejection)
	mux.HandleFunc("POST /v1/events/fault", s.handleFault)

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the underlying handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// httpEvent carries the prevent-default decision back to the client.
type httpEvent struct {
	prevented bool
}

func (e *httpEvent) PreventDefault() {
	e.prevented = true
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request) {
	var payload errorEvent
	if !decode(w, r, &payload) {
		return
	}

	ev := &httpEvent{}
	out := s.dispatcher.OnGlobalError(
		r.Context(),
		normalize.Thrown{Message: payload.Message, Stack: payload.Stack},
		ev,
		payload.Filename,
		payload.Line,
		payload.Column,
	)
	s.respond(w, out, ev.prevented)
}

func (s *Server) handleRejection(w http.ResponseWriter, r *http.Request) {
	var payload rejectionEvent
	if !decode(w, r, &payload) {
		return
	}

	ev := &httpEvent{}
	out := s.dispatcher.OnUnhandledRejection(
		r.Context(),
		normalize.Thrown{Message: payload.Reason, Stack: payload.Stack},
		ev,
	)
	s.respond(w, out, ev.prevented)
}

func (s *Server) handleFault(w http.ResponseWriter, r *http.Request) {
	var payload faultEvent
	if !decode(w, r, &payload) {
		return
	}

	out := s.dispatcher.OnFault(
		r.Context(),
		normalize.Thrown{Message: payload.Message, Stack: payload.Stack},
		dispatch.FaultInfo{
			ComponentStack: payload.ComponentStack,
			Isolate:        payload.Isolate,
			Source:         payload.Source,
		},
	)
	s.respond(w, out, false)
}

func decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return false
	}
	return true
}

// respond writes the presentation surface. The pipeline is fail-open, so
// every decoded event answers 200.
func (s *Server) respond(w http.ResponseWriter, out dispatch.Outcome, prevented bool) {
	resp := eventResponse{
		Handled:          true,
		Status:           string(out.Status),
		DefaultPrevented: prevented || out.DefaultPrevented,
		Kind:             string(out.Kind),
	}
	if out.Plan != nil {
		resp.Actions = make([]actionJSON, 0, len(out.Plan.Actions))
		for _, action := range out.Plan.Actions {
			resp.Actions = append(resp.Actions, toActionJSON(action))
		}
		def := toActionJSON(out.Plan.Default)
		resp.DefaultAction = &def
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Warn("failed to encode response", "error", err)
	}
}
