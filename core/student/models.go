package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/wilsonXeem/school-results-management-system-server/core"
)

// Student is an identity record. RegNo is the natural key and the stable
// merge key used by the duplicate-student reconciliation job.
type Student struct {
	ID        string      `json:"id" db:"id"`
	RegNo     string      `json:"reg_no" db:"reg_no"`
	FullName  string      `json:"fullname" db:"fullname"`
	Level     int         `json:"level" db:"level"`
	CGPA      float64     `json:"cgpa" db:"cgpa"`
	MOE       null.String `json:"moe,omitempty" db:"moe"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// Descriptor is the explicit (reg no, full name) pair accepted at the
// boundary for bulk registration.
type Descriptor struct {
	RegNo    string `json:"reg_no" validate:"required,regno"`
	FullName string `json:"fullname" validate:"required"`
}

func (d *Descriptor) Clean() {
	d.RegNo = core.CleanString(d.RegNo)
	d.FullName = core.CleanString(d.FullName)
}

// UpdateName renames a student looked up by reg no.
type UpdateName struct {
	RegNo    string `json:"reg_no" validate:"required"`
	FullName string `json:"fullname" validate:"required"`
}

func (un *UpdateName) Validate(validate *validator.Validate) error {
	un.RegNo = core.CleanString(un.RegNo)
	un.FullName = core.CleanString(un.FullName)
	return validate.Struct(un)
}

// UpdateMOE sets a student's mode-of-entry tag.
type UpdateMOE struct {
	RegNo string `json:"reg_no" validate:"required"`
	MOE   string `json:"moe" validate:"required"`
}

func (um *UpdateMOE) Validate(validate *validator.Validate) error {
	um.RegNo = core.CleanString(um.RegNo)
	um.MOE = core.CleanString(um.MOE)
	return validate.Struct(um)
}

// BulkMOE is the bulk variant of UpdateMOE; failures are skipped and counted.
type BulkMOE struct {
	Students []UpdateMOE `json:"students" validate:"required,min=1,dive"`
}

func (bm *BulkMOE) Validate(validate *validator.Validate) error {
	for i := range bm.Students {
		bm.Students[i].RegNo = core.CleanString(bm.Students[i].RegNo)
		bm.Students[i].MOE = core.CleanString(bm.Students[i].MOE)
	}
	return validate.Struct(bm)
}
