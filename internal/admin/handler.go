package admin

import (
	"context"
	"log/slog"
	"net/http"

	errors "github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/database"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/transport"
	"github.com/mfgkeeper/manufacturer-maintenance/pkg/logger"
)

type ServiceAPI interface {
	Dump(ctx context.Context) (map[string][]map[string]interface{}, error)
	DumpTable(ctx context.Context, table string, filters []database.Filter) (map[string][]map[string]interface{}, error)
	Structure(ctx context.Context) (*StructureReport, error)
	Status(sess *session.Session) *StatusView
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

// Admin renders the three-table system overview.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	data, err := h.Service.Dump(r.Context())
	if err != nil {
		appErr, ok := errors.IsAppError(err)
		if !ok {
			appErr = errors.NewInternalError("系统错误，请稍后重试", err)
		}
		h.WriteErrorView(w, appErr.StatusCode, "查询失败", appErr.Message)
		return
	}

	h.WriteJSON(w, http.StatusOK, DumpView{View: "admin", Data: data, User: sess})
}

// Export returns the raw table dump. An optional table parameter
// narrows the dump to one table, with the usual string filters applied
// to the rest of the query.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if table := query.Get("table"); table != "" {
		filters, err := database.ParseFilters(query)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		data, err := h.Service.DumpTable(r.Context(), table, filters)
		if err != nil {
			status, message := exportOutcome(err)
			h.WriteError(w, status, message)
			return
		}
		h.WriteJSON(w, http.StatusOK, data)
		return
	}

	data, err := h.Service.Dump(r.Context())
	if err != nil {
		status, message := exportOutcome(err)
		h.WriteError(w, status, message)
		return
	}
	h.WriteJSON(w, http.StatusOK, data)
}

// CheckStructure reports the live column layout of the two domain
// tables.
func (h *Handler) CheckStructure(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.Structure(r.Context())
	if err != nil {
		status, message := exportOutcome(err)
		h.WriteError(w, status, message)
		return
	}
	h.WriteJSON(w, http.StatusOK, report)
}

// Status renders the status page.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	h.WriteJSON(w, http.StatusOK, h.Service.Status(sess))
}

func exportOutcome(err error) (int, string) {
	if appErr, ok := errors.IsAppError(err); ok {
		return appErr.StatusCode, appErr.Message
	}
	return http.StatusInternalServerError, "系统错误，请稍后重试"
}
