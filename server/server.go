// Package server exposes a registry over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wolever/automaton"
	"github.com/wolever/automaton/internal/logging"
	"github.com/wolever/automaton/registry"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server serves the registry API.
type Server struct {
	Registry *registry.Registry

	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler replaces the handler mounted on /metrics. The default is
// promhttp.Handler(), which serves the default prometheus registry.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates the HTTP handler for ``reg``.
func NewHandler(reg *registry.Registry, opts ...Option) http.Handler {
	s := &Server{
		Registry: reg,
		logger:   logging.NewNop(),
		metrics:  promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.Health)
	r.Handle("/metrics", s.metrics)
	r.Get("/operations", s.ListOperations)

	r.Route("/automata", func(r chi.Router) {
		r.Get("/", s.ListAutomata)
		r.Post("/", s.CreateAutomaton)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.GetAutomaton)
			r.Put("/", s.PutAutomaton)
			r.Delete("/", s.DeleteAutomaton)
			r.Post("/accepts", s.Accepts)
			r.Post("/ops/{op}", s.Derive)
			r.Get("/dot", s.GetDot)
			r.Get("/mermaid", s.GetMermaid)
			r.Get("/regex", s.GetRegex)
		})
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// -- Handlers --

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": automaton.Version,
	})
}

// ListOperations handles GET /operations.
func (s *Server) ListOperations(w http.ResponseWriter, r *http.Request) {
	ops := []OperationInfo{}
	for _, op := range registry.Operations() {
		ops = append(ops, OperationInfo{Name: op.Name, Arity: op.Arity, Doc: op.Doc})
	}
	writeJSON(w, http.StatusOK, ops)
}

// ListAutomata handles GET /automata.
func (s *Server) ListAutomata(w http.ResponseWriter, r *http.Request) {
	names, err := s.Registry.Names(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{Automata: names})
}

// CreateAutomaton handles POST /automata: the regex is compiled and stored
// under a new name.
func (s *Server) CreateAutomaton(w http.ResponseWriter, r *http.Request) {
	var body CreateRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, err)
		return
	}

	a, err := automaton.Compile(body.Regex)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.Registry.Add(r.Context(), body.Name, a); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Summarize(body.Name, a))
}

// GetAutomaton handles GET /automata/{name}. The text form is returned unless
// JSON is asked for with ?format=json or the Accept header.
func (s *Server) GetAutomaton(w http.ResponseWriter, r *http.Request) {
	name, a, ok := s.load(w, r)
	if !ok {
		return
	}

	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		s.writeError(w, badRequest(err))
		return
	}
	wantJSON := strings.Contains(r.Header.Get("Accept"), "application/json")
	if format != nil {
		switch *format {
		case "json":
			wantJSON = true
		case "text":
			wantJSON = false
		default:
			s.writeError(w, badRequest(fmt.Errorf("unknown format %q", *format)))
			return
		}
	}

	if wantJSON {
		writeJSON(w, http.StatusOK, Summarize(name, a))
		return
	}
	writeText(w, "text/plain; charset=utf-8", automaton.Format(a))
}

// PutAutomaton handles PUT /automata/{name}; the body is the text form.
func (s *Server) PutAutomaton(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.writeError(w, err)
		return
	}

	a, err := automaton.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.Registry.Put(r.Context(), name, a); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Summarize(name, a))
}

// DeleteAutomaton handles DELETE /automata/{name}.
func (s *Server) DeleteAutomaton(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.Registry.Remove(r.Context(), name); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Accepts handles POST /automata/{name}/accepts.
func (s *Server) Accepts(w http.ResponseWriter, r *http.Request) {
	name, a, ok := s.load(w, r)
	if !ok {
		return
	}

	var body AcceptsRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, err)
		return
	}

	resp := AcceptsResponse{
		Name:     name,
		Word:     body.Word,
		Accepted: a.AcceptsWord(body.Word),
	}
	if body.Trace {
		resp.Trace = a.Trace(body.Word)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Derive handles POST /automata/{name}/ops/{op}: the result of the operation
// on {name} (and "other" for binary operations) is stored under "target",
// which defaults to {name}.
func (s *Server) Derive(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.writeError(w, err)
		return
	}
	opName, err := pathParam(r, "op")
	if err != nil {
		s.writeError(w, err)
		return
	}

	var body DeriveRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &body); err != nil {
			s.writeError(w, err)
			return
		}
	}
	target := body.Target
	if target == "" {
		target = name
	}
	operands := []string{name}
	if body.Other != "" {
		operands = append(operands, body.Other)
	}

	res, err := s.Registry.Derive(r.Context(), opName, target, operands...)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Summarize(target, res))
}

// GetDot handles GET /automata/{name}/dot.
func (s *Server) GetDot(w http.ResponseWriter, r *http.Request) {
	if _, a, ok := s.load(w, r); ok {
		writeText(w, "text/vnd.graphviz; charset=utf-8", automaton.ToDot(a))
	}
}

// GetMermaid handles GET /automata/{name}/mermaid.
func (s *Server) GetMermaid(w http.ResponseWriter, r *http.Request) {
	if _, a, ok := s.load(w, r); ok {
		writeText(w, "text/plain; charset=utf-8", automaton.ToMermaid(a))
	}
}

// GetRegex handles GET /automata/{name}/regex.
func (s *Server) GetRegex(w http.ResponseWriter, r *http.Request) {
	name, a, ok := s.load(w, r)
	if !ok {
		return
	}
	regex, err := automaton.ToRegex(a)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RegexResponse{Name: name, Regex: regex})
}

// -- Helpers --

// load resolves the {name} path parameter and fetches the automaton, writing
// the error response itself when that fails.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (string, *automaton.Automaton, bool) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.writeError(w, err)
		return "", nil, false
	}
	a, err := s.Registry.Get(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return "", nil, false
	}
	return name, a, true
}

func pathParam(r *http.Request, param string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", param, chi.URLParam(r, param), &value,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return "", badRequest(fmt.Errorf("invalid path parameter %s: %w", param, err))
	}
	return value, nil
}

// requestError marks client errors that have no sentinel of their own.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return &requestError{err: err}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return badRequest(fmt.Errorf("invalid request body: %w", err))
	}
	return nil
}

// statusOf maps an error to its HTTP status.
func statusOf(err error) int {
	var reqErr *requestError
	var formatErr *automaton.FormatError
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrExists):
		return http.StatusConflict
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &reqErr),
		errors.As(err, &formatErr),
		errors.Is(err, registry.ErrInvalidName),
		errors.Is(err, registry.ErrUnknownOperation),
		errors.Is(err, registry.ErrArity),
		errors.Is(err, automaton.ErrInvalidRegex):
		return http.StatusBadRequest
	case errors.Is(err, automaton.ErrNotTotal),
		errors.Is(err, automaton.ErrNotDeterministic),
		errors.Is(err, automaton.ErrAlphabetMismatch),
		errors.Is(err, automaton.ErrEmptyLanguage),
		errors.Is(err, automaton.ErrUnsupportedSymbol):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}
