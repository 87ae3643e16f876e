package admin_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	internal "github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/admin"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/database"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubAdminService struct {
	dump      map[string][]map[string]interface{}
	dumpErr   error
	tableName string
	filters   []database.Filter
	report    *admin.StructureReport
	status    *admin.StatusView
}

func (s *stubAdminService) Dump(_ context.Context) (map[string][]map[string]interface{}, error) {
	if s.dumpErr != nil {
		return nil, s.dumpErr
	}
	return s.dump, nil
}

func (s *stubAdminService) DumpTable(_ context.Context, table string, filters []database.Filter) (map[string][]map[string]interface{}, error) {
	s.tableName = table
	s.filters = filters
	if s.dumpErr != nil {
		return nil, s.dumpErr
	}
	return map[string][]map[string]interface{}{table: s.dump[table]}, nil
}

func (s *stubAdminService) Structure(_ context.Context) (*admin.StructureReport, error) {
	return s.report, nil
}

func (s *stubAdminService) Status(sess *session.Session) *admin.StatusView {
	view := *s.status
	view.User = sess
	return &view
}

var _ = Describe("Admin Handler", func() {
	var (
		service *stubAdminService
		handler *admin.Handler
		sess    *session.Session
	)

	get := func(target string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		return req.WithContext(session.WithSession(req.Context(), sess))
	}

	BeforeEach(func() {
		sess = &session.Session{UserID: 1, Username: "admin", Role: session.RoleSuperAdmin}
		service = &stubAdminService{
			dump: map[string][]map[string]interface{}{
				"manufacturers":         {{"manufacturer_id": "TEST001"}},
				"maintenance_personnel": {},
				"users":                 {{"username": "admin"}},
			},
			report: &admin.StructureReport{ManufacturersStructureOK: true, PersonnelStructureOK: true},
			status: &admin.StatusView{View: "status", StatusInfo: map[string]string{"应用状态": "运行中"}},
		}
		handler = admin.NewHandler(service)
	})

	Describe("Admin", func() {
		It("should wrap the dump in the overview", func() {
			rec := httptest.NewRecorder()
			handler.Admin(rec, get("/admin"))

			Expect(rec.Code).To(Equal(http.StatusOK))
			var view admin.DumpView
			Expect(json.Unmarshal(rec.Body.Bytes(), &view)).To(Succeed())
			Expect(view.View).To(Equal("admin"))
			Expect(view.Data).To(HaveKey("manufacturers"))
			Expect(view.User.Username).To(Equal("admin"))
		})

		It("should fall back to the error view when the dump fails", func() {
			service.dumpErr = internal.ErrDatabaseUnavailable
			rec := httptest.NewRecorder()
			handler.Admin(rec, get("/admin"))

			Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Describe("Export", func() {
		It("should return the bare three-table dump", func() {
			rec := httptest.NewRecorder()
			handler.Export(rec, get("/export"))

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body).To(HaveLen(3))
			Expect(body).NotTo(HaveKey("view"))
		})

		It("should pass the table and parsed filters through", func() {
			rec := httptest.NewRecorder()
			handler.Export(rec, get("/export?table=users&username=eq.admin&limit=5"))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.tableName).To(Equal("users"))
			Expect(service.filters).To(ConsistOf(
				database.Eq("username", "admin"),
				database.Limit(5),
			))

			var body map[string][]map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body).To(HaveKey("users"))
			Expect(body).To(HaveLen(1))
		})

		It("should reject a malformed filter", func() {
			rec := httptest.NewRecorder()
			handler.Export(rec, get("/export?table=users&limit=abc"))

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject an unknown table", func() {
			service.dumpErr = internal.NewValidationError("未知的数据表", internal.ErrCodeValidationFailed)
			rec := httptest.NewRecorder()
			handler.Export(rec, get("/export?table=secrets"))

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("未知的数据表"))
		})
	})

	Describe("CheckStructure", func() {
		It("should return the structure report", func() {
			rec := httptest.NewRecorder()
			handler.CheckStructure(rec, get("/check-structure"))

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body).To(HaveKeyWithValue("manufacturers_structure_ok", true))
			Expect(body).To(HaveKeyWithValue("personnel_structure_ok", true))
			Expect(body).To(HaveKey("expected_manufacturers_fields"))
			Expect(body).To(HaveKey("expected_personnel_fields"))
		})
	})

	Describe("Status", func() {
		It("should render the status view for the caller", func() {
			rec := httptest.NewRecorder()
			handler.Status(rec, get("/status"))

			Expect(rec.Code).To(Equal(http.StatusOK))
			var view admin.StatusView
			Expect(json.Unmarshal(rec.Body.Bytes(), &view)).To(Succeed())
			Expect(view.View).To(Equal("status"))
			Expect(view.StatusInfo).To(HaveKeyWithValue("应用状态", "运行中"))
			Expect(view.User.Username).To(Equal("admin"))
		})
	})
})
