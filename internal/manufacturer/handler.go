package manufacturer

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	errors "github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/auth"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/transport"
	"github.com/mfgkeeper/manufacturer-maintenance/pkg/logger"
)

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) error
	Manage(ctx context.Context, sess *session.Session, manufacturerID string) (*ManageView, error)
	List(ctx context.Context) ([]Manufacturer, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Gate    *auth.Gate
}

func NewHandler(svc ServiceAPI, gate *auth.Gate) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Gate:        gate,
	}
}

// QueryPage renders the empty lookup form.
func (h *Handler) QueryPage(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	h.WriteJSON(w, http.StatusOK, NewQueryView(sess, ""))
}

// Query looks up a manufacturer by business key. Hits render the
// management view; misses send admins to the registration form and
// deny regular users.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	manufacturerID := strings.TrimSpace(r.PostFormValue("manufacturer_id"))
	if manufacturerID == "" {
		h.WriteJSON(w, http.StatusBadRequest, NewQueryView(sess, "请输入厂家ID"))
		return
	}

	if !h.Gate.RequireTenant(w, sess, manufacturerID) {
		return
	}

	view, err := h.Service.Manage(r.Context(), sess, manufacturerID)
	if err == nil {
		h.WriteJSON(w, http.StatusOK, view)
		return
	}

	appErr, ok := errors.IsAppError(err)
	if !ok {
		h.Logger.Error("Query: unexpected failure", "manufacturer_id", manufacturerID, "error", err)
		h.WriteJSON(w, http.StatusInternalServerError, NewQueryView(sess, "系统错误，请稍后重试"))
		return
	}

	if appErr.Code == errors.ErrCodeManufacturerNotFound {
		if sess != nil && (sess.Role == session.RoleSuperAdmin || sess.Role == session.RoleManufacturerAdmin) {
			h.WriteJSON(w, http.StatusNotFound, NewRegisterView(sess, manufacturerID, ""))
			return
		}
		h.WriteErrorView(w, http.StatusNotFound, "厂家不存在", "厂家不存在且您没有注册权限")
		return
	}

	h.WriteJSON(w, appErr.StatusCode, NewQueryView(sess, appErr.Message))
}

// Register creates a manufacturer and lands on its management view.
// Failures re-render the registration form with the id preserved.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	dto := RegisterDTOFromForm(r)

	if err := h.Service.Register(r.Context(), dto); err != nil {
		appErr, ok := errors.IsAppError(err)
		if !ok {
			appErr = errors.NewInternalError("系统错误，请稍后重试", err)
		}
		h.WriteJSON(w, appErr.StatusCode, NewRegisterView(sess, dto.ManufacturerID, appErr.Message))
		return
	}

	h.renderManage(w, r, sess, dto.ManufacturerID, "", "")
}

// renderManage composes and writes the management view with optional
// banner messages. Shared by every handler that lands on this view.
func (h *Handler) renderManage(w http.ResponseWriter, r *http.Request, sess *session.Session, manufacturerID, successMsg, errorMsg string) {
	view, err := h.Service.Manage(r.Context(), sess, manufacturerID)
	if err != nil {
		appErr, ok := errors.IsAppError(err)
		if !ok {
			appErr = errors.NewInternalError("系统错误，请稍后重试", err)
		}
		h.Logger.Error("renderManage: compose failed", "manufacturer_id", manufacturerID, "error", err)
		h.WriteErrorView(w, appErr.StatusCode, "查询失败", appErr.Message)
		return
	}
	view.Success = successMsg
	view.Error = errorMsg
	h.WriteJSON(w, http.StatusOK, view)
}
