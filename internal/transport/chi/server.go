// Package chi exposes the recommendation engine over HTTP.
package chi

import (
	"context"
	_ "embed"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain"
	healthuc "github.com/kailas-cloud/movierec/internal/usecase/health"
	"github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

const maxBodyBytes = 1 << 16

//go:embed index.html
var indexHTML []byte

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Recommender answers title queries.
type Recommender interface {
	Recommend(ctx context.Context, query string) (recommend.Result, error)
}

// Server holds the HTTP handlers.
type Server struct {
	recommender   Recommender
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(rec Recommender, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		recommender: rec,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeBadRequest),
		sentinelHandler(domain.ErrEngineNotReady, http.StatusServiceUnavailable, CodeNotReady),
		sentinelHandler(domain.ErrInternalFault, http.StatusInternalServerError, CodeInternalError),
	}
	return s
}

// Register mounts the routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.Index)
	r.Post("/recommend", s.Recommend)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Index handles GET / with the search page.
func (s *Server) Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexHTML)
}

// Recommend handles POST /recommend.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}

	movie := strings.TrimSpace(req.Movie)
	if movie == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "No movie name provided!")
		return
	}

	res, err := s.recommender.Recommend(r.Context(), movie)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := RecommendResponse{Recommendations: res.Titles()}
	if detail, _ := strconv.ParseBool(r.URL.Query().Get("detail")); detail {
		resp.Outcome = string(res.Resolution.Outcome())
		resp.ResolvedTitle = res.ResolvedTitle
		resp.Items = make([]RecommendationDTO, len(res.Items))
		for i, it := range res.Items {
			resp.Items[i] = RecommendationDTO{Title: it.Title, Score: it.Score}
		}
		if res.Resolution.OK() {
			c := res.Resolution.Confidence()
			resp.Confidence = &c
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:  code,
		Error: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrEngineNotReady,
		domain.ErrInternalFault,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger.With(zap.String("request_id", chiMiddleware.GetReqID(r.Context())))
	if errors.Is(err, domain.ErrInvalidQuery) {
		log.Debug("rejected query", zap.Error(err))
	} else {
		log.Error("recommendation failed", zap.Error(err))
	}
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
