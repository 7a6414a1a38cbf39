package chi

import (
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/metrics"
)

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	APIKeys           []string
	AllowedOrigins    []string
	CORSMaxAge        int
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter assembles the middleware stack and mounts the server routes.
// Callers may mount further handlers on the returned router.
func NewRouter(s *Server, opts RouterOptions, logger *zap.Logger) *chi.Mux {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.RateLimitWindow <= 0 {
		opts.RateLimitWindow = time.Minute
	}

	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(logger))
	r.Use(CORS(opts.AllowedOrigins, opts.CORSMaxAge))
	r.Use(RateLimit(opts.RateLimitRequests, opts.RateLimitWindow))
	r.Use(BearerAuthMiddleware(opts.APIKeys))
	r.Use(metrics.Middleware())
	s.Register(r)
	return r
}
