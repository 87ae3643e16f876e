package personnel

import (
	"context"
	"log/slog"
	"net/http"

	errors "github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/auth"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/manufacturer"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/transport"
	"github.com/mfgkeeper/manufacturer-maintenance/pkg/logger"
)

type ServiceAPI interface {
	Add(ctx context.Context, dto AddDTO) error
	Update(ctx context.Context, dto UpdateDTO) error
	Deactivate(ctx context.Context, personnelID int64) error
	Restore(ctx context.Context, personnelID int64) error
}

// Handler serves the four personnel mutations. Every outcome, success
// or failure, lands back on the freshly composed management view.
type Handler struct {
	*transport.BaseHandler
	Service       ServiceAPI
	Manufacturers manufacturer.ServiceAPI
	Gate          *auth.Gate
}

func NewHandler(svc ServiceAPI, manufacturers manufacturer.ServiceAPI, gate *auth.Gate) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler:   transport.NewBaseHandler(lg),
		Service:       svc,
		Manufacturers: manufacturers,
		Gate:          gate,
	}
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	dto := AddDTOFromForm(r)

	if !h.Gate.RequireTenant(w, sess, dto.ManufacturerID) {
		return
	}

	if err := h.Service.Add(r.Context(), dto); err != nil {
		status, message := mutationOutcome(err, "添加失败，系统错误")
		h.renderManage(w, r, sess, dto.ManufacturerID, status, "", message)
		return
	}

	h.renderManage(w, r, sess, dto.ManufacturerID, http.StatusOK, "保养人员添加成功", "")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	dto, parseErr := UpdateDTOFromForm(r)

	if !h.Gate.RequireTenant(w, sess, dto.ManufacturerID) {
		return
	}
	if parseErr != nil {
		h.renderManage(w, r, sess, dto.ManufacturerID, parseErr.StatusCode, "", parseErr.Message)
		return
	}

	if err := h.Service.Update(r.Context(), dto); err != nil {
		status, message := mutationOutcome(err, "更新失败，系统错误")
		h.renderManage(w, r, sess, dto.ManufacturerID, status, "", message)
		return
	}

	h.renderManage(w, r, sess, dto.ManufacturerID, http.StatusOK, "保养人员信息更新成功", "")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	dto, parseErr := ToggleDTOFromForm(r)

	if !h.Gate.RequireTenant(w, sess, dto.ManufacturerID) {
		return
	}
	if parseErr != nil {
		h.renderManage(w, r, sess, dto.ManufacturerID, parseErr.StatusCode, "", parseErr.Message)
		return
	}

	if err := h.Service.Deactivate(r.Context(), dto.PersonnelID); err != nil {
		status, message := mutationOutcome(err, "删除失败，系统错误")
		h.renderManage(w, r, sess, dto.ManufacturerID, status, "", message)
		return
	}

	h.renderManage(w, r, sess, dto.ManufacturerID, http.StatusOK, "保养人员删除成功", "")
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	dto, parseErr := ToggleDTOFromForm(r)

	if !h.Gate.RequireTenant(w, sess, dto.ManufacturerID) {
		return
	}
	if parseErr != nil {
		h.renderManage(w, r, sess, dto.ManufacturerID, parseErr.StatusCode, "", parseErr.Message)
		return
	}

	if err := h.Service.Restore(r.Context(), dto.PersonnelID); err != nil {
		status, message := mutationOutcome(err, "恢复失败，系统错误")
		h.renderManage(w, r, sess, dto.ManufacturerID, status, "", message)
		return
	}

	h.renderManage(w, r, sess, dto.ManufacturerID, http.StatusOK, "保养人员恢复成功", "")
}

func mutationOutcome(err error, fallback string) (int, string) {
	if appErr, ok := errors.IsAppError(err); ok {
		return appErr.StatusCode, appErr.Message
	}
	return http.StatusInternalServerError, fallback
}

func (h *Handler) renderManage(w http.ResponseWriter, r *http.Request, sess *session.Session, manufacturerID string, status int, successMsg, errorMsg string) {
	view, err := h.Manufacturers.Manage(r.Context(), sess, manufacturerID)
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
	h.WriteJSON(w, status, view)
}
