package httpapi

import (
	"net/http"

	"github.com/courtdata/courtsync/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger, internalJobToken string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/sources", handler.ListSources)
	mux.HandleFunc("GET /v1/duplicates", handler.ListPotentialDuplicates)
	mux.HandleFunc("GET /v1/conflicts", handler.ListConflicts)
	mux.Handle("POST /v1/internal/sync/runs", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.TriggerSyncRun)))

	return RequestTracing(RequestLogging(logger, recoverPanic(logger, mux)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
