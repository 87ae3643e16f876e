package user

import (
	"net/http"

	errors "github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/core/common/validation"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/manufacturer"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
)

type CreateUserDTO struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	RealName       string `json:"real_name"`
	Role           string `json:"role"`
	ManufacturerID string `json:"manufacturer_id"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
}

func CreateUserDTOFromForm(r *http.Request) CreateUserDTO {
	return CreateUserDTO{
		Username:       r.PostFormValue("username"),
		Password:       r.PostFormValue("password"),
		RealName:       r.PostFormValue("real_name"),
		Role:           r.PostFormValue("role"),
		ManufacturerID: r.PostFormValue("manufacturer_id"),
		Email:          r.PostFormValue("email"),
		Phone:          r.PostFormValue("phone"),
	}
}

func (d CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required()
	v.Field("real_name", d.RealName).Required()
	v.Field("role", d.Role).Required()
	v.Field("password", d.Password).Required()
	if err := v.Validate("请填写所有必填字段"); err != nil {
		return err
	}

	rv := validation.NewValidator()
	rv.Field("role", d.Role).OneOf(session.RoleSuperAdmin, session.RoleManufacturerAdmin, session.RoleUser)
	return rv.Validate("无效的用户角色")
}

type ResetPasswordDTO struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
}

func ResetPasswordDTOFromForm(r *http.Request) ResetPasswordDTO {
	return ResetPasswordDTO{
		Username:    r.PostFormValue("username"),
		NewPassword: r.PostFormValue("new_password"),
	}
}

func (d ResetPasswordDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required()
	v.Field("new_password", d.NewPassword).Required()
	return v.Validate("请提供用户名和新密码")
}

// ActionResponse is the add_user / reset_password reply shape.
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ManagementView backs the user administration page.
type ManagementView struct {
	View          string                      `json:"view"`
	Users         []User                      `json:"users"`
	Manufacturers []manufacturer.Manufacturer `json:"manufacturers"`
	UserRoles     map[string]string           `json:"user_roles"`
	User          *session.Session            `json:"user"`
}
