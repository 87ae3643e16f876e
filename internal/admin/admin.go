package admin

import (
	"time"

	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
)

// KeepaliveStatus is the slice of the keep-alive manager the status
// page reads.
type KeepaliveStatus interface {
	Active() bool
	Platform() string
	LastActivity() time.Time
}

// DumpView is the three-table system overview.
type DumpView struct {
	View string                              `json:"view"`
	Data map[string][]map[string]interface{} `json:"data"`
	User *session.Session                    `json:"user"`
}

// StructureReport compares the live column sets against the layout the
// handlers depend on.
type StructureReport struct {
	ManufacturersStructureOK    bool     `json:"manufacturers_structure_ok"`
	ManufacturersFields         []string `json:"manufacturers_fields"`
	PersonnelStructureOK        bool     `json:"personnel_structure_ok"`
	PersonnelFields             []string `json:"personnel_fields"`
	ExpectedManufacturersFields []string `json:"expected_manufacturers_fields"`
	ExpectedPersonnelFields     []string `json:"expected_personnel_fields"`
}

type StatusView struct {
	View        string            `json:"view"`
	StatusInfo  map[string]string `json:"status_info"`
	CurrentTime string            `json:"current_time"`
	User        *session.Session  `json:"user"`
}

func expectedManufacturerFields() []string {
	return []string{"id", "manufacturer_id", "name", "contact_person", "phone", "email", "created_at"}
}

func expectedPersonnelFields() []string {
	return []string{"id", "manufacturer_id", "personnel_name", "hire_date", "position", "is_active", "created_at", "updated_at", "name_id", "manufacturer_name", "note"}
}
