package auth

import (
	"log/slog"
	"net/http"

	errors "github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/transport"
	"github.com/mfgkeeper/manufacturer-maintenance/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Sessions *session.Codec
}

func NewHandler(svc ServiceAPI, sessions *session.Codec) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Sessions:    sessions,
	}
}

// Home routes by session presence: dashboard when logged in, login page
// otherwise.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.FromContext(r.Context()); ok {
		http.Redirect(w, r, "/index", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.FromContext(r.Context()); ok {
		http.Redirect(w, r, "/index", http.StatusFound)
		return
	}
	h.WriteJSON(w, http.StatusOK, NewLoginView(""))
}

// Login authenticates the posted form and issues the session cookie.
// Failures re-render the login view with the failure message.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.FromContext(r.Context()); ok {
		http.Redirect(w, r, "/index", http.StatusFound)
		return
	}

	dto := LoginDTOFromForm(r)

	sess, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		status := http.StatusInternalServerError
		message := "系统错误，请稍后重试"
		if appErr, ok := errors.IsAppError(err); ok {
			status = appErr.StatusCode
			message = appErr.Message
		}
		h.Logger.Warn("login rejected", "username", dto.Username, "status", status)
		h.WriteJSON(w, status, NewLoginView(message))
		return
	}

	token, err := h.Sessions.Issue(*sess)
	if err != nil {
		h.Logger.Error("issue session failed", "error", err)
		h.WriteJSON(w, http.StatusInternalServerError, NewLoginView("系统错误，请稍后重试"))
		return
	}

	h.Sessions.SetCookie(w, token)
	http.Redirect(w, r, "/index", http.StatusFound)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := session.FromContext(r.Context()); ok {
		h.Logger.Info("user logged out", "username", sess.Username)
	}
	h.Sessions.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Index renders the dashboard with the access URLs the login page links
// print.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	base := requestBaseURL(r)
	h.WriteJSON(w, http.StatusOK, IndexView{
		View:         "index",
		User:         sess,
		UserRoles:    session.RoleNames,
		MobileURL:    base,
		LocalhostURL: base,
		LocalIP:      r.Host,
	})
}

// ResetAdmin restores the bootstrap admin account and lands on the login
// page. Kept unauthenticated for locked-out recovery.
func (h *Handler) ResetAdmin(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.EnsureAdmin(r.Context()); err != nil {
		h.Logger.Error("reset admin failed", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
