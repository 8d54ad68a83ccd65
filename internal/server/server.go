// Package server is the general-purpose HTTP entry point: POST /query
// answered with {raw, summary}, plus health and CORS plumbing shared with
// the serverless adapter.
package server

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ametow/leakgate/internal/domain"
	"github.com/ametow/leakgate/internal/metrics"
	"github.com/ametow/leakgate/internal/service"
)

const maxBodySize = 1 << 20

type Deps struct {
	Service service.ProxyService
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	// AllowedOrigins is the CORS allow-list; empty means wildcard.
	AllowedOrigins []string

	// AllowRequestAlias accepts "request" as an alternate name for
	// "query". Only the serverless deployment turns this on.
	AllowRequestAlias bool
}

type Server struct {
	service    service.ProxyService
	logger     *zap.Logger
	metrics    *metrics.Metrics
	origins    []string
	allowAlias bool
}

func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Server{
		service:    deps.Service,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		origins:    deps.AllowedOrigins,
		allowAlias: deps.AllowRequestAlias,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/query", s.handleQuery)
	mux.HandleFunc("/health", s.handleHealth)
	return s.corsMiddleware(mux)
}

// QueryHandler exposes just the query endpoint behind the CORS middleware,
// for function runtimes that do their own routing.
func (s *Server) QueryHandler() http.Handler {
	return s.corsMiddleware(http.HandlerFunc(s.handleQuery))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if s.metrics != nil {
		s.metrics.IncRequestsInFlight()
		defer s.metrics.DecRequestsInFlight()
	}

	if r.Method != http.MethodPost {
		s.finish(w, start, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.finish(w, start, http.StatusBadRequest, ErrorBody(domain.ErrInvalidBody))
		return
	}

	req, err := domain.ParseSearchRequest(body, s.allowAlias)
	if err != nil {
		s.logger.Debug("rejecting request", zap.Error(err))
		s.finish(w, start, StatusForError(err), ErrorBody(err))
		return
	}

	result, err := s.service.Process(r.Context(), req)
	if err != nil {
		s.finish(w, start, StatusForError(err), ErrorBody(err))
		return
	}

	s.finish(w, start, http.StatusOK, result)
}

func (s *Server) finish(w http.ResponseWriter, start time.Time, status int, v any) {
	WriteJSON(w, status, v)
	if s.metrics != nil {
		s.metrics.RecordRequest("query", strconv.Itoa(status), time.Since(start))
	}
}
