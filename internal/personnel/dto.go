package personnel

import (
	"net/http"
	"strconv"

	errors "github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/core/common/validation"
)

// AddDTO carries the full personnel form. Only the name is required;
// hire_date stays a free-form string on purpose.
type AddDTO struct {
	ManufacturerID   string `json:"manufacturer_id"`
	PersonnelName    string `json:"personnel_name"`
	HireDate         string `json:"hire_date"`
	Position         string `json:"position"`
	NameID           string `json:"name_id"`
	ManufacturerName string `json:"manufacturer_name"`
	Note             string `json:"note"`
}

func AddDTOFromForm(r *http.Request) AddDTO {
	return AddDTO{
		ManufacturerID:   r.PostFormValue("manufacturer_id"),
		PersonnelName:    r.PostFormValue("personnel_name"),
		HireDate:         r.PostFormValue("hire_date"),
		Position:         r.PostFormValue("position"),
		NameID:           r.PostFormValue("name_id"),
		ManufacturerName: r.PostFormValue("manufacturer_name"),
		Note:             r.PostFormValue("note"),
	}
}

func (d AddDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("personnel_name", d.PersonnelName).Required()
	return v.Validate("请输入保养人员姓名")
}

func (d AddDTO) toRow() map[string]interface{} {
	return map[string]interface{}{
		"manufacturer_id":   d.ManufacturerID,
		"personnel_name":    d.PersonnelName,
		"hire_date":         d.HireDate,
		"position":          d.Position,
		"name_id":           d.NameID,
		"manufacturer_name": d.ManufacturerName,
		"note":              d.Note,
	}
}

// UpdateDTO patches one personnel row. The manufacturer id is carried
// for the tenant check and the view re-render, never written.
type UpdateDTO struct {
	PersonnelID      int64  `json:"personnel_id"`
	ManufacturerID   string `json:"manufacturer_id"`
	PersonnelName    string `json:"personnel_name"`
	HireDate         string `json:"hire_date"`
	Position         string `json:"position"`
	NameID           string `json:"name_id"`
	ManufacturerName string `json:"manufacturer_name"`
	Note             string `json:"note"`
}

func UpdateDTOFromForm(r *http.Request) (UpdateDTO, *errors.AppError) {
	dto := UpdateDTO{
		ManufacturerID:   r.PostFormValue("manufacturer_id"),
		PersonnelName:    r.PostFormValue("personnel_name"),
		HireDate:         r.PostFormValue("hire_date"),
		Position:         r.PostFormValue("position"),
		NameID:           r.PostFormValue("name_id"),
		ManufacturerName: r.PostFormValue("manufacturer_name"),
		Note:             r.PostFormValue("note"),
	}
	id, err := strconv.ParseInt(r.PostFormValue("personnel_id"), 10, 64)
	if err != nil {
		return dto, errors.NewValidationError("无效的人员ID", errors.ErrCodeValidationFailed)
	}
	dto.PersonnelID = id
	return dto, nil
}

func (d UpdateDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("personnel_name", d.PersonnelName).Required()
	return v.Validate("请输入保养人员姓名")
}

func (d UpdateDTO) toPatch() map[string]interface{} {
	return map[string]interface{}{
		"personnel_name":    d.PersonnelName,
		"hire_date":         d.HireDate,
		"position":          d.Position,
		"name_id":           d.NameID,
		"manufacturer_name": d.ManufacturerName,
		"note":              d.Note,
	}
}

// ToggleDTO identifies the row for soft delete and restore.
type ToggleDTO struct {
	PersonnelID    int64  `json:"personnel_id"`
	ManufacturerID string `json:"manufacturer_id"`
}

func ToggleDTOFromForm(r *http.Request) (ToggleDTO, *errors.AppError) {
	dto := ToggleDTO{ManufacturerID: r.PostFormValue("manufacturer_id")}
	id, err := strconv.ParseInt(r.PostFormValue("personnel_id"), 10, 64)
	if err != nil {
		return dto, errors.NewValidationError("无效的人员ID", errors.ErrCodeValidationFailed)
	}
	dto.PersonnelID = id
	return dto, nil
}
