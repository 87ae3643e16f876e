package auth

import (
	"net/http"

	errors "github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/transport"
)

// Gate guards routes behind session and role checks. Tenant scoping goes
// through the single CanAccessManufacturer predicate so every handler
// denies with the same view.
type Gate struct {
	*transport.BaseHandler
}

func NewGate() *Gate {
	return &Gate{BaseHandler: transport.NewBaseHandler(nil)}
}

// RequireSession redirects anonymous requests to the login page.
func (g *Gate) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles restricts the route to the given roles, on top of the
// session requirement.
func (g *Gate) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			if !allowed[sess.Role] {
				g.Logger.Warn("role denied",
					"username", sess.Username,
					"role", sess.Role,
					"path", r.URL.Path)
				g.WriteErrorView(w, http.StatusForbidden, "权限不足", "您没有访问此页面的权限")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CanAccessManufacturer is the tenant predicate: the user role is locked
// to its own manufacturer, admin roles are unrestricted.
func CanAccessManufacturer(sess *session.Session, manufacturerID string) bool {
	if sess == nil {
		return false
	}
	if sess.Role != session.RoleUser {
		return true
	}
	return sess.ManufacturerID != nil && *sess.ManufacturerID == manufacturerID
}

// RequireTenant writes the fixed denial view and returns false when the
// session may not touch the manufacturer.
func (g *Gate) RequireTenant(w http.ResponseWriter, sess *session.Session, manufacturerID string) bool {
	if CanAccessManufacturer(sess, manufacturerID) {
		return true
	}
	if sess != nil {
		g.Logger.Warn("tenant denied",
			"username", sess.Username,
			"manufacturer_id", manufacturerID)
	}
	g.WriteErrorView(w, http.StatusForbidden, "权限不足", errors.ErrTenantDenied.Message)
	return false
}
