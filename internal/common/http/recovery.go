package http

import (
	"net/http"
	"runtime/debug"

	commonerrors "github.com/AlibekovAA/user-registry/internal/common/errors"
	"github.com/AlibekovAA/user-registry/internal/common/logger"
)

func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(r.Context(), logger.Fields{
						"path":   r.URL.Path,
						"method": r.Method,
						"action": "panic_recovered",
					}).Errorf("panic recovered: %v\n%s", err, debug.Stack())
					WriteAPIError(w, r, http.StatusInternalServerError, commonerrors.ErrInternalError.Message())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
