package session

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/wilsonXeem/school-results-management-system-server/core"
)

// Levels are the class cohorts created for every enrollment session.
var Levels = []int{100, 200, 300, 400, 500, 600}

// Session is a named enrollment period, eg. "2020-2021". At most one session
// is current at any time.
type Session struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"session" db:"name"`
	Current   bool      `json:"current" db:"current"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC

	Classes   []Class          `json:"classes,omitempty" db:"-"`
	Externals []ExternalCourse `json:"externals,omitempty" db:"-"`
}

// Class is the cohort of students enrolled at one level within a session.
// There is exactly one per (session, level) pair, created lazily on first
// registration at that level.
type Class struct {
	ID        string    `json:"id" db:"id"`
	SessionID string    `json:"session_id" db:"session_id"`
	Level     int       `json:"level" db:"level"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC

	StudentIDs []string `json:"students" db:"-"`
}

// HasStudent reports cohort membership.
func (c *Class) HasStudent(studentID string) bool {
	for _, id := range c.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// ExternalCourse is a session-scoped catalog entry recorded once per
// (session, course code) for reporting; distinct from the per-student
// course entries on semester results.
type ExternalCourse struct {
	ID          string    `json:"id" db:"id"`
	Session     string    `json:"session" db:"session"`
	CourseCode  string    `json:"course_code" db:"course_code"`
	CourseTitle string    `json:"course_title" db:"course_title"`
	UnitLoad    float64   `json:"unit_load" db:"unit_load"`
	Semester    int       `json:"semester" db:"semester"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
}

// NewSession contains information needed to register a new enrollment session.
type NewSession struct {
	Name    string `json:"session" validate:"required,sessionname"`
	Current bool   `json:"current"`
}

func (ns *NewSession) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}

// NewExternalCourse registers an external course in a session's catalog.
type NewExternalCourse struct {
	Session     string  `json:"session" validate:"required,sessionname"`
	CourseCode  string  `json:"course_code" validate:"required"`
	CourseTitle string  `json:"course_title" validate:"required"`
	UnitLoad    float64 `json:"unit_load" validate:"required,gt=0"`
	Semester    int     `json:"semester" validate:"semester"`
}

func (ne *NewExternalCourse) Validate(validate *validator.Validate) error {
	ne.Session = core.CleanString(ne.Session)
	ne.CourseCode = core.CleanString(ne.CourseCode)
	ne.CourseTitle = core.CleanString(ne.CourseTitle)
	return validate.Struct(ne)
}
