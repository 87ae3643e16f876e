package personnel_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	internal "github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/auth"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/manufacturer"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/personnel"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubPersonnelService struct {
	addDTOs     []personnel.AddDTO
	addErr      error
	updateDTOs  []personnel.UpdateDTO
	updateErr   error
	deactivated []int64
	restored    []int64
	toggleErr   error
}

func (s *stubPersonnelService) Add(_ context.Context, dto personnel.AddDTO) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.addDTOs = append(s.addDTOs, dto)
	return nil
}

func (s *stubPersonnelService) Update(_ context.Context, dto personnel.UpdateDTO) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updateDTOs = append(s.updateDTOs, dto)
	return nil
}

func (s *stubPersonnelService) Deactivate(_ context.Context, personnelID int64) error {
	if s.toggleErr != nil {
		return s.toggleErr
	}
	s.deactivated = append(s.deactivated, personnelID)
	return nil
}

func (s *stubPersonnelService) Restore(_ context.Context, personnelID int64) error {
	if s.toggleErr != nil {
		return s.toggleErr
	}
	s.restored = append(s.restored, personnelID)
	return nil
}

type stubManufacturerService struct {
	view *manufacturer.ManageView
	err  error
}

func (s *stubManufacturerService) Register(_ context.Context, _ manufacturer.RegisterDTO) error {
	return nil
}

func (s *stubManufacturerService) Manage(_ context.Context, sess *session.Session, _ string) (*manufacturer.ManageView, error) {
	if s.err != nil {
		return nil, s.err
	}
	view := *s.view
	view.User = sess
	return &view, nil
}

func (s *stubManufacturerService) List(_ context.Context) ([]manufacturer.Manufacturer, error) {
	return nil, nil
}

var _ = Describe("Personnel Handler", func() {
	var (
		service       *stubPersonnelService
		manufacturers *stubManufacturerService
		handler       *personnel.Handler
		admin         *session.Session
		worker        *session.Session
	)

	tenant := "TEST001"

	postForm := func(target string, form url.Values, sess *session.Session) *http.Request {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req = req.WithContext(session.WithSession(req.Context(), sess))
		return req
	}

	decodeManage := func(rec *httptest.ResponseRecorder) manufacturer.ManageView {
		var view manufacturer.ManageView
		ExpectWithOffset(1, json.Unmarshal(rec.Body.Bytes(), &view)).To(Succeed())
		return view
	}

	BeforeEach(func() {
		service = &stubPersonnelService{}
		manufacturers = &stubManufacturerService{
			view: &manufacturer.ManageView{
				View: "manage",
				Manufacturer: &manufacturer.Manufacturer{
					ManufacturerID: tenant,
					Name:           "示例厂家",
				},
				Personnel: []manufacturer.PersonnelItem{{PersonnelName: "张三", IsActive: true}},
			},
		}
		handler = personnel.NewHandler(service, manufacturers, auth.NewGate())
		admin = &session.Session{UserID: 1, Username: "admin", Role: session.RoleSuperAdmin}
		worker = &session.Session{UserID: 2, Username: "zhang", Role: session.RoleUser, ManufacturerID: &tenant}
	})

	addForm := func() url.Values {
		return url.Values{
			"manufacturer_id":   {tenant},
			"personnel_name":    {"李四"},
			"hire_date":         {"2024-01-15"},
			"position":          {"维修工"},
			"name_id":           {"LS-02"},
			"manufacturer_name": {"示例厂家"},
			"note":              {""},
		}
	}

	Describe("Add", func() {
		It("should add and land on the management view with a success banner", func() {
			rec := httptest.NewRecorder()
			handler.Add(rec, postForm("/add_personnel", addForm(), admin))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.addDTOs).To(HaveLen(1))
			Expect(service.addDTOs[0].PersonnelName).To(Equal("李四"))
			Expect(service.addDTOs[0].NameID).To(Equal("LS-02"))

			view := decodeManage(rec)
			Expect(view.View).To(Equal("manage"))
			Expect(view.Success).To(Equal("保养人员添加成功"))
			Expect(view.Error).To(BeEmpty())
		})

		It("should deny a regular user adding to another tenant", func() {
			form := addForm()
			form.Set("manufacturer_id", "OTHER9")
			rec := httptest.NewRecorder()
			handler.Add(rec, postForm("/add_personnel", form, worker))

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			var view transport.ErrorView
			Expect(json.Unmarshal(rec.Body.Bytes(), &view)).To(Succeed())
			Expect(view.Error).To(Equal("权限不足"))
			Expect(view.Message).To(Equal("您只能访问自己厂家的信息"))
			Expect(service.addDTOs).To(BeEmpty())
		})

		It("should re-render with an inline error when the name is missing", func() {
			service.addErr = internal.NewValidationError("请输入保养人员姓名", internal.ErrCodeMissingField)
			rec := httptest.NewRecorder()
			handler.Add(rec, postForm("/add_personnel", addForm(), admin))

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			view := decodeManage(rec)
			Expect(view.View).To(Equal("manage"))
			Expect(view.Manufacturer.ManufacturerID).To(Equal(tenant))
			Expect(view.Error).To(Equal("请输入保养人员姓名"))
			Expect(view.Success).To(BeEmpty())
		})

		It("should re-render with the insert failure", func() {
			service.addErr = internal.NewInternalError("添加失败: 插入失败", nil)
			rec := httptest.NewRecorder()
			handler.Add(rec, postForm("/add_personnel", addForm(), admin))

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(decodeManage(rec).Error).To(Equal("添加失败: 插入失败"))
		})

		It("should fall back to a generic error for unexpected failures", func() {
			service.addErr = errors.New("boom")
			rec := httptest.NewRecorder()
			handler.Add(rec, postForm("/add_personnel", addForm(), admin))

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(decodeManage(rec).Error).To(Equal("添加失败，系统错误"))
		})
	})

	Describe("Update", func() {
		updateForm := func() url.Values {
			form := addForm()
			form.Set("personnel_id", "10")
			form.Set("position", "维修组长")
			return form
		}

		It("should update and report success", func() {
			rec := httptest.NewRecorder()
			handler.Update(rec, postForm("/update_personnel", updateForm(), worker))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.updateDTOs).To(HaveLen(1))
			Expect(service.updateDTOs[0].PersonnelID).To(Equal(int64(10)))
			Expect(service.updateDTOs[0].Position).To(Equal("维修组长"))
			Expect(decodeManage(rec).Success).To(Equal("保养人员信息更新成功"))
		})

		It("should reject a malformed personnel id", func() {
			form := updateForm()
			form.Set("personnel_id", "abc")
			rec := httptest.NewRecorder()
			handler.Update(rec, postForm("/update_personnel", form, admin))

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeManage(rec).Error).To(Equal("无效的人员ID"))
			Expect(service.updateDTOs).To(BeEmpty())
		})

		It("should re-render with the patch failure", func() {
			service.updateErr = internal.NewInternalError("更新失败: 更新失败，未找到记录", nil)
			rec := httptest.NewRecorder()
			handler.Update(rec, postForm("/update_personnel", updateForm(), admin))

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(decodeManage(rec).Error).To(Equal("更新失败: 更新失败，未找到记录"))
		})
	})

	Describe("Delete", func() {
		deleteForm := url.Values{
			"personnel_id":    {"10"},
			"manufacturer_id": {tenant},
		}

		It("should soft delete and report success", func() {
			rec := httptest.NewRecorder()
			handler.Delete(rec, postForm("/delete_personnel", deleteForm, worker))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.deactivated).To(Equal([]int64{10}))
			Expect(decodeManage(rec).Success).To(Equal("保养人员删除成功"))
		})

		It("should re-render with the failure", func() {
			service.toggleErr = internal.NewInternalError("删除失败: connection reset", nil)
			rec := httptest.NewRecorder()
			handler.Delete(rec, postForm("/delete_personnel", deleteForm, admin))

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(decodeManage(rec).Error).To(Equal("删除失败: connection reset"))
		})
	})

	Describe("Restore", func() {
		restoreForm := url.Values{
			"personnel_id":    {"10"},
			"manufacturer_id": {tenant},
		}

		It("should restore and report success", func() {
			rec := httptest.NewRecorder()
			handler.Restore(rec, postForm("/restore_personnel", restoreForm, admin))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.restored).To(Equal([]int64{10}))
			Expect(decodeManage(rec).Success).To(Equal("保养人员恢复成功"))
		})
	})

	It("should fall back to the error view when the re-render itself fails", func() {
		manufacturers.err = internal.ErrManufacturerNotFound
		rec := httptest.NewRecorder()
		handler.Add(rec, postForm("/add_personnel", addForm(), admin))

		Expect(rec.Code).To(Equal(http.StatusNotFound))
		var view transport.ErrorView
		Expect(json.Unmarshal(rec.Body.Bytes(), &view)).To(Succeed())
		Expect(view.View).To(Equal("error"))
		Expect(view.Error).To(Equal("查询失败"))
		Expect(view.Message).To(Equal("厂家不存在"))
	})
})
