package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/mfgkeeper/manufacturer-maintenance/internal/transport"
)

// RecoveryMiddleware turns panics into the shared 500 error view. The
// panic value and stack go to the log only, never to the client.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						"error", err,
						"method", r.Method,
						"url", r.URL.String(),
						"stack", string(debug.Stack()))

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(transport.ErrorView{
						View:    "error",
						Error:   "系统错误",
						Message: "服务器内部错误，请稍后重试",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
