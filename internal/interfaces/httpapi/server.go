package httpapi

import (
	"net/http"

	"github.com/riskibarqy/race-tipping/internal/platform/logging"
)

// RouterConfig carries the optional pieces of the HTTP surface.
type RouterConfig struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	InternalJobToken   string
	// UserSyncer upserts the caller on authenticated routes.
	UserSyncer UserSyncer
	// TipRateLimiter guards tip submission; nil disables it.
	TipRateLimiter *PrincipalRateLimiter
	// Metrics observes every request; nil disables it.
	Metrics RequestObserver
	// MetricsHandler is served at /metrics when set.
	MetricsHandler http.Handler
}

func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	logger *logging.Logger,
	cfg RouterConfig,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	routes := &router{mux: mux, handler: handler, verifier: verifier, cfg: cfg}
	routes.registerSystemRoutes()
	routes.registerParticipantRoutes()
	routes.registerRaceRoutes()
	routes.registerTipRoutes()
	routes.registerUserRoutes()
	routes.registerInternalJobRoutes()

	return RequestTracing(RequestMetrics(cfg.Metrics, RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
