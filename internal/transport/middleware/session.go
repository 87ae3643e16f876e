package middleware

import (
	"net/http"

	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
	"github.com/mfgkeeper/manufacturer-maintenance/pkg/logger"
)

// SessionLoader decodes the session cookie into the request context.
// Requests with a missing, expired or tampered cookie pass through
// anonymous; the route guards decide what that means.
func SessionLoader(codec *session.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := codec.ReadCookie(r)
			if err != nil || sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := session.WithSession(r.Context(), sess)
			ctx = logger.With(ctx, "username", sess.Username, "role", sess.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
