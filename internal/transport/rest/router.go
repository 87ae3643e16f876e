package rest

import (
	"log/slog"
	"net/http"

	"github.com/mfgkeeper/manufacturer-maintenance/internal/admin"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/auth"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/keepalive"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/manufacturer"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/personnel"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/transport"
	appMiddleware "github.com/mfgkeeper/manufacturer-maintenance/internal/transport/middleware"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/transport/swagger"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// RegisterAllRoutes mounts the whole HTTP surface. Routes fall into
// four rings: public (login, health, wakeup, docs), any signed-in user
// (index, query, personnel mutations), admin roles (register, user
// management) and super_admin diagnostics. Tenant checks stay inside
// the handlers because they depend on form values.
func RegisterAllRoutes(
	router *chi.Mux,
	codec *session.Codec,
	gate *auth.Gate,
	clock *keepalive.Manager,
	authHandler *auth.Handler,
	manufacturerHandler *manufacturer.Handler,
	personnelHandler *personnel.Handler,
	userHandler *user.Handler,
	adminHandler *admin.Handler,
	healthHandler *HealthHandler,
	logger *slog.Logger,
) {
	router.Use(chiMiddleware.RealIP)
	router.Use(appMiddleware.RequestID)
	router.Use(appMiddleware.LoggingMiddleware(logger))
	router.Use(appMiddleware.RecoveryMiddleware(logger))
	router.Use(appMiddleware.SessionLoader(codec))
	router.Use(appMiddleware.ActivityTracker(clock))

	base := transport.NewBaseHandler(logger)
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		base.WriteErrorView(w, http.StatusNotFound, "页面未找到", "您访问的页面不存在")
	})

	// Public ring
	router.Get("/", authHandler.Home)
	router.Get("/login", authHandler.LoginPage)
	router.Post("/login", authHandler.Login)
	router.Get("/logout", authHandler.Logout)
	router.Get("/reset_admin", authHandler.ResetAdmin)

	router.Get("/health", healthHandler.Health)
	router.Get("/wakeup", healthHandler.Wakeup)
	router.Post("/wakeup", healthHandler.Wakeup)

	router.Get("/openapi.yml", swagger.Spec)
	router.Handle("/swagger/*", swagger.Handler())

	// Signed-in ring
	router.Group(func(pr chi.Router) {
		pr.Use(gate.RequireSession)

		pr.Get("/index", authHandler.Index)
		pr.Get("/query", manufacturerHandler.QueryPage)
		pr.Post("/query", manufacturerHandler.Query)

		pr.Post("/add_personnel", personnelHandler.Add)
		pr.Post("/update_personnel", personnelHandler.Update)
		pr.Post("/delete_personnel", personnelHandler.Delete)
		pr.Post("/restore_personnel", personnelHandler.Restore)
	})

	// Admin ring
	router.Group(func(ar chi.Router) {
		ar.Use(gate.RequireRoles(session.RoleSuperAdmin, session.RoleManufacturerAdmin))

		ar.Post("/register", manufacturerHandler.Register)
		ar.Get("/user_management", userHandler.Management)
		ar.Post("/add_user", userHandler.CreateUser)
	})

	// Diagnostics ring
	router.Group(func(sr chi.Router) {
		sr.Use(gate.RequireRoles(session.RoleSuperAdmin))

		sr.Post("/reset_password", userHandler.ResetPassword)
		sr.Get("/admin", adminHandler.Admin)
		sr.Get("/export", adminHandler.Export)
		sr.Get("/check-structure", adminHandler.CheckStructure)
		sr.Get("/status", adminHandler.Status)
	})
}
