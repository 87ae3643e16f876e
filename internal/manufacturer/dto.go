package manufacturer

import (
	"net/http"
	"time"

	errors "github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/core/common/validation"
	personnelDatamodel "github.com/mfgkeeper/manufacturer-maintenance/internal/core/datamodel/personnel"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
)

type RegisterDTO struct {
	ManufacturerID string `json:"manufacturer_id"`
	Name           string `json:"name"`
	ContactPerson  string `json:"contact_person"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
}

func RegisterDTOFromForm(r *http.Request) RegisterDTO {
	return RegisterDTO{
		ManufacturerID: r.PostFormValue("manufacturer_id"),
		Name:           r.PostFormValue("name"),
		ContactPerson:  r.PostFormValue("contact_person"),
		Phone:          r.PostFormValue("phone"),
		Email:          r.PostFormValue("email"),
	}
}

// Validate requires everything except email.
func (d RegisterDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("manufacturer_id", d.ManufacturerID).Required()
	v.Field("name", d.Name).Required()
	v.Field("contact_person", d.ContactPerson).Required()
	v.Field("phone", d.Phone).Required()
	return v.Validate("请填写所有必填字段")
}

func (d RegisterDTO) toRow() map[string]interface{} {
	return map[string]interface{}{
		"manufacturer_id": d.ManufacturerID,
		"name":            d.Name,
		"contact_person":  d.ContactPerson,
		"phone":           d.Phone,
		"email":           d.Email,
	}
}

// QueryView is the manufacturer lookup form.
type QueryView struct {
	View  string           `json:"view"`
	Error string           `json:"error,omitempty"`
	User  *session.Session `json:"user"`
}

func NewQueryView(sess *session.Session, errorMessage string) QueryView {
	return QueryView{View: "query", Error: errorMessage, User: sess}
}

// RegisterView is the registration form, pre-filled with the id the
// caller searched for.
type RegisterView struct {
	View           string           `json:"view"`
	ManufacturerID string           `json:"manufacturer_id"`
	Error          string           `json:"error,omitempty"`
	User           *session.Session `json:"user"`
}

func NewRegisterView(sess *session.Session, manufacturerID, errorMessage string) RegisterView {
	return RegisterView{
		View:           "register",
		ManufacturerID: manufacturerID,
		Error:          errorMessage,
		User:           sess,
	}
}

// PersonnelItem is the personnel row as the management view renders it.
type PersonnelItem struct {
	ID               int64     `json:"id"`
	ManufacturerID   string    `json:"manufacturer_id"`
	PersonnelName    string    `json:"personnel_name"`
	HireDate         string    `json:"hire_date"`
	Position         string    `json:"position"`
	NameID           string    `json:"name_id"`
	ManufacturerName string    `json:"manufacturer_name"`
	Note             string    `json:"note"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func personnelItems(rows []personnelDatamodel.Personnel) []PersonnelItem {
	items := make([]PersonnelItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, PersonnelItem{
			ID:               row.ID,
			ManufacturerID:   row.ManufacturerID,
			PersonnelName:    row.PersonnelName,
			HireDate:         row.HireDate,
			Position:         row.Position,
			NameID:           row.NameID,
			ManufacturerName: row.ManufacturerName,
			Note:             row.Note,
			IsActive:         row.IsActive,
			CreatedAt:        row.CreatedAt,
			UpdatedAt:        row.UpdatedAt,
		})
	}
	return items
}

// ManageView is rendered after every lookup and every personnel
// mutation. Personnel always holds the active roster only.
type ManageView struct {
	View         string           `json:"view"`
	Manufacturer *Manufacturer    `json:"manufacturer"`
	Personnel    []PersonnelItem  `json:"personnel"`
	Error        string           `json:"error,omitempty"`
	Success      string           `json:"success,omitempty"`
	User         *session.Session `json:"user"`
}
