package httpapi

import (
	"context"
	"net/http"

	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type RouterConfig struct {
	CORSAllowedOrigins []string
	InternalJobToken   string
	// Metrics is served on /metrics when set.
	Metrics   http.Handler
	Observer  RequestObserver
	Readiness map[string]ReadinessCheck
}

func NewRouter(handler *Handler, cfg RouterConfig, logger *logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg)
	registerPublicRoutes(mux, handler)
	registerAdminRoutes(mux, handler, cfg.InternalJobToken)

	// Outermost first.
	chain := []func(http.Handler) http.Handler{
		RequestTracing,
		func(next http.Handler) http.Handler { return RequestLogging(logger, cfg.Observer, mux, next) },
		func(next http.Handler) http.Handler { return CORS(cfg.CORSAllowedOrigins, next) },
		func(next http.Handler) http.Handler { return recoverPanic(logger, next) },
	}
	var root http.Handler = mux
	for i := len(chain) - 1; i >= 0; i-- {
		root = chain[i](root)
	}
	return root
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
			writeInternalError(r.Context(), w)
		}()
		next.ServeHTTP(w, r)
	})
}
