package user

import (
	"context"
	"log/slog"
	"net/http"

	errors "github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/transport"
	"github.com/mfgkeeper/manufacturer-maintenance/pkg/logger"
)

type ServiceAPI interface {
	ListForSession(ctx context.Context, sess *session.Session) (*ManagementView, error)
	Create(ctx context.Context, sess *session.Session, dto CreateUserDTO) error
	ResetPassword(ctx context.Context, dto ResetPasswordDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// Management renders the administration page.
func (h *Handler) Management(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	view, err := h.Service.ListForSession(r.Context(), sess)
	if err != nil {
		appErr, ok := errors.IsAppError(err)
		if !ok {
			appErr = errors.NewInternalError("系统错误，请稍后重试", err)
		}
		h.WriteErrorView(w, appErr.StatusCode, "查询失败", appErr.Message)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

// CreateUser handles the add-user form.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	dto := CreateUserDTOFromForm(r)

	if err := h.Service.Create(r.Context(), sess, dto); err != nil {
		status, message := actionOutcome(err)
		h.WriteJSON(w, status, ActionResponse{Success: false, Error: message})
		return
	}

	h.WriteJSON(w, http.StatusOK, ActionResponse{Success: true, Message: "用户添加成功"})
}

// ResetPassword handles the digest replacement form.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	dto := ResetPasswordDTOFromForm(r)

	if err := h.Service.ResetPassword(r.Context(), dto); err != nil {
		status, message := actionOutcome(err)
		h.WriteJSON(w, status, ActionResponse{Success: false, Error: message})
		return
	}

	h.WriteJSON(w, http.StatusOK, ActionResponse{Success: true, Message: "密码重置成功"})
}

func actionOutcome(err error) (int, string) {
	if appErr, ok := errors.IsAppError(err); ok {
		return appErr.StatusCode, appErr.Message
	}
	return http.StatusInternalServerError, "系统错误"
}
