package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Gate", func() {
	var (
		gate    *Gate
		nextHit bool
		next    http.Handler
	)

	manufacturerID := "TEST001"

	userSession := &session.Session{
		UserID:         5,
		Username:       "worker",
		RealName:       "维修工",
		Role:           session.RoleUser,
		ManufacturerID: &manufacturerID,
	}

	adminSession := &session.Session{
		UserID:   1,
		Username: "admin",
		RealName: "系统管理员",
		Role:     session.RoleSuperAdmin,
	}

	ginkgo.BeforeEach(func() {
		gate = NewGate()
		nextHit = false
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextHit = true
			w.WriteHeader(http.StatusOK)
		})
	})

	request := func(sess *session.Session) (*httptest.ResponseRecorder, *http.Request) {
		req := httptest.NewRequest(http.MethodGet, "/index", nil)
		if sess != nil {
			req = req.WithContext(session.WithSession(req.Context(), sess))
		}
		return httptest.NewRecorder(), req
	}

	ginkgo.Describe("RequireSession", func() {
		ginkgo.It("should redirect anonymous requests to the login page", func() {
			rec, req := request(nil)
			gate.RequireSession(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusFound))
			gomega.Expect(rec.Header().Get("Location")).To(gomega.Equal("/login"))
			gomega.Expect(nextHit).To(gomega.BeFalse())
		})

		ginkgo.It("should pass authenticated requests through", func() {
			rec, req := request(userSession)
			gate.RequireSession(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(nextHit).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("RequireRoles", func() {
		ginkgo.It("should reject a role outside the set with the fixed view", func() {
			rec, req := request(userSession)
			gate.RequireRoles(session.RoleSuperAdmin)(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(nextHit).To(gomega.BeFalse())

			var view map[string]string
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &view)).To(gomega.Succeed())
			gomega.Expect(view["view"]).To(gomega.Equal("error"))
			gomega.Expect(view["error"]).To(gomega.Equal("权限不足"))
			gomega.Expect(view["message"]).To(gomega.Equal("您没有访问此页面的权限"))
		})

		ginkgo.It("should admit a role inside the set", func() {
			rec, req := request(adminSession)
			gate.RequireRoles(session.RoleSuperAdmin, session.RoleManufacturerAdmin)(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(nextHit).To(gomega.BeTrue())
		})

		ginkgo.It("should redirect anonymous requests instead of denying", func() {
			rec, req := request(nil)
			gate.RequireRoles(session.RoleSuperAdmin)(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusFound))
			gomega.Expect(rec.Header().Get("Location")).To(gomega.Equal("/login"))
		})
	})

	ginkgo.Describe("CanAccessManufacturer", func() {
		ginkgo.It("should let admin roles reach every tenant", func() {
			gomega.Expect(CanAccessManufacturer(adminSession, "OTHER01")).To(gomega.BeTrue())

			managerSession := &session.Session{
				Role:           session.RoleManufacturerAdmin,
				ManufacturerID: &manufacturerID,
			}
			gomega.Expect(CanAccessManufacturer(managerSession, "OTHER01")).To(gomega.BeTrue())
		})

		ginkgo.It("should lock the user role to its own manufacturer", func() {
			gomega.Expect(CanAccessManufacturer(userSession, "TEST001")).To(gomega.BeTrue())
			gomega.Expect(CanAccessManufacturer(userSession, "OTHER01")).To(gomega.BeFalse())
		})

		ginkgo.It("should deny a user without a manufacturer binding", func() {
			unbound := &session.Session{Role: session.RoleUser}
			gomega.Expect(CanAccessManufacturer(unbound, "TEST001")).To(gomega.BeFalse())
		})

		ginkgo.It("should deny a nil session", func() {
			gomega.Expect(CanAccessManufacturer(nil, "TEST001")).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("RequireTenant", func() {
		ginkgo.It("should write the fixed denial view", func() {
			rec := httptest.NewRecorder()

			ok := gate.RequireTenant(rec, userSession, "OTHER01")
			gomega.Expect(ok).To(gomega.BeFalse())
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))

			var view map[string]string
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &view)).To(gomega.Succeed())
			gomega.Expect(view["error"]).To(gomega.Equal("权限不足"))
			gomega.Expect(view["message"]).To(gomega.Equal("您只能访问自己厂家的信息"))
		})

		ginkgo.It("should write nothing when access is allowed", func() {
			rec := httptest.NewRecorder()

			ok := gate.RequireTenant(rec, userSession, "TEST001")
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(rec.Body.Len()).To(gomega.BeZero())
		})
	})
})
