package auth

import (
	"net/http"
	"strings"

	errors "github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/core/common/validation"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
)

// LoginDTO is the transport shape of the login form.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginDTOFromForm reads the posted form, trimming whitespace the way the
// login page always has.
func LoginDTOFromForm(r *http.Request) LoginDTO {
	return LoginDTO{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: strings.TrimSpace(r.PostFormValue("password")),
	}
}

// Validate checks required fields and returns the combined form message.
func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required()
	v.Field("password", d.Password).Required()
	return v.Validate("请输入用户名和密码")
}

// LoginView is the login page payload; Error carries the form-level
// failure message when present.
type LoginView struct {
	View  string `json:"view"`
	Error string `json:"error,omitempty"`
}

func NewLoginView(errorMessage string) LoginView {
	return LoginView{View: "login", Error: errorMessage}
}

// IndexView is the dashboard payload after login.
type IndexView struct {
	View         string            `json:"view"`
	User         *session.Session  `json:"user"`
	UserRoles    map[string]string `json:"user_roles"`
	MobileURL    string            `json:"mobile_url"`
	LocalhostURL string            `json:"localhost_url"`
	LocalIP      string            `json:"local_ip"`
}
