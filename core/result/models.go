package result

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/wilsonXeem/school-results-management-system-server/core"
	"github.com/wilsonXeem/school-results-management-system-server/core/grading"
	"github.com/wilsonXeem/school-results-management-system-server/core/student"
)

// CourseEntry is one registered course inside a semester result.
type CourseEntry struct {
	CourseCode  string  `json:"course_code"`
	CourseTitle string  `json:"course_title"`
	UnitLoad    float64 `json:"unit_load"`
	CA          float64 `json:"ca"`
	Exam        float64 `json:"exam"`
	Total       float64 `json:"total"`
	Grade       int     `json:"grade"`
	External    bool    `json:"external"`
}

// Approved reports whether the entry counts towards GPA/CGPA.
func (ce *CourseEntry) Approved() bool {
	return grading.Approved(ce.CourseCode, ce.External)
}

// Scored reports whether a score has been recorded for the entry.
func (ce *CourseEntry) Scored() bool {
	return ce.Total > 0
}

// CourseEntries is stored as a single JSON document on the semester result
// row, mirroring the per-record write atomicity the rest of the system
// assumes.
type CourseEntries []CourseEntry

func (ces CourseEntries) Value() (driver.Value, error) {
	if ces == nil {
		ces = CourseEntries{}
	}
	return json.Marshal(ces)
}

func (ces *CourseEntries) Scan(src interface{}) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, ces)
	case string:
		return json.Unmarshal([]byte(data), ces)
	case nil:
		*ces = nil
		return nil
	}
	return errors.Errorf("unsupported course entries source: %T", src)
}

// SemesterResult is the per-(student, session, semester) record of
// registered courses and scores. Exactly one exists per triple; within it at
// most one course entry per course code.
type SemesterResult struct {
	ID         string        `json:"id" db:"id"`
	StudentID  string        `json:"student_id" db:"student_id"`
	Session    string        `json:"session" db:"session"`
	Semester   int           `json:"semester" db:"semester"`
	Level      int           `json:"level" db:"level"`
	GPA        float64       `json:"gpa" db:"gpa"`
	SessionGPA null.Float64  `json:"session_gpa" db:"session_gpa"`
	Courses    CourseEntries `json:"courses" db:"courses"`
	Published  bool          `json:"published" db:"published"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"` // UTC
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"` // UTC
}

// FindCourse locates the entry for a course code. Comparison is
// case-insensitive everywhere, registration and removal alike.
func (sr *SemesterResult) FindCourse(code string) (*CourseEntry, bool) {
	for i := range sr.Courses {
		if grading.SameCode(sr.Courses[i].CourseCode, code) {
			return &sr.Courses[i], true
		}
	}
	return nil, false
}

// HasScoredCourse reports whether at least one course has a recorded score.
func (sr *SemesterResult) HasScoredCourse() bool {
	for i := range sr.Courses {
		if sr.Courses[i].Scored() {
			return true
		}
	}
	return false
}

// points collects the (grade, unit) pairs of the approved entries only;
// unapproved courses stay stored but carry zero weight.
func (sr *SemesterResult) points() []grading.CoursePoint {
	pts := make([]grading.CoursePoint, 0, len(sr.Courses))
	for i := range sr.Courses {
		ce := &sr.Courses[i]
		if !ce.Approved() {
			continue
		}
		pts = append(pts, grading.CoursePoint{Grade: ce.Grade, UnitLoad: ce.UnitLoad})
	}
	return pts
}

// QueryFilter narrows semester result lookups. Zero-valued fields are
// ignored; all present fields are ANDed.
type QueryFilter struct {
	StudentIDs []string
	Session    string
	Semester   int
	Level      int
	CourseCode string // results containing an entry for this code
}

// RegisterCourses is the bulk registration request: one course registered
// for many students at once.
type RegisterCourses struct {
	Students    []student.Descriptor `json:"students" validate:"required,min=1,dive"`
	Session     string               `json:"session" validate:"required,sessionname"`
	Semester    int                  `json:"semester" validate:"semester"`
	Level       int                  `json:"level" validate:"level"`
	CourseCode  string               `json:"course_code" validate:"required"`
	CourseTitle string               `json:"course_title" validate:"required"`
	UnitLoad    float64              `json:"unit_load" validate:"required,gt=0"`
	External    bool                 `json:"external"`
}

func (rc *RegisterCourses) Validate(validate *validator.Validate) error {
	for i := range rc.Students {
		rc.Students[i].Clean()
	}
	rc.Session = core.CleanString(rc.Session)
	rc.CourseCode = core.CleanString(rc.CourseCode)
	rc.CourseTitle = core.CleanString(rc.CourseTitle)
	return validate.Struct(rc)
}

// RegisterExternal registers one externally-supervised course for an
// existing student.
type RegisterExternal struct {
	RegNo       string  `json:"reg_no" validate:"required,regno"`
	Session     string  `json:"session" validate:"required,sessionname"`
	Semester    int     `json:"semester" validate:"semester"`
	Level       int     `json:"level" validate:"level"`
	CourseCode  string  `json:"course_code" validate:"required"`
	CourseTitle string  `json:"course_title" validate:"required"`
	UnitLoad    float64 `json:"unit_load" validate:"required,gt=0"`
	External    bool    `json:"external"`
}

func (re *RegisterExternal) Validate(validate *validator.Validate) error {
	re.RegNo = core.CleanString(re.RegNo)
	re.Session = core.CleanString(re.Session)
	re.CourseCode = core.CleanString(re.CourseCode)
	re.CourseTitle = core.CleanString(re.CourseTitle)
	return validate.Struct(re)
}

// ScoreEntry is one student's CA and exam score for the course being scored.
type ScoreEntry struct {
	RegNo string  `json:"reg_no" validate:"required"`
	CA    float64 `json:"ca" validate:"gte=0,lte=30"`
	Exam  float64 `json:"exam" validate:"gte=0,lte=70"`
}

// AddScores is the bulk score entry request for one course.
type AddScores struct {
	Session    string       `json:"session" validate:"required,sessionname"`
	Semester   int          `json:"semester" validate:"semester"`
	CourseCode string       `json:"course_code" validate:"required"`
	Students   []ScoreEntry `json:"students" validate:"required,min=1,dive"`
}

func (as *AddScores) Validate(validate *validator.Validate) error {
	as.Session = core.CleanString(as.Session)
	as.CourseCode = core.CleanString(as.CourseCode)
	for i := range as.Students {
		as.Students[i].RegNo = core.CleanString(as.Students[i].RegNo)
	}
	return validate.Struct(as)
}

// TotalEntry carries a composite score only; CA and exam are back-derived.
type TotalEntry struct {
	RegNo string  `json:"reg_no" validate:"required"`
	Total float64 `json:"total" validate:"gte=0,lte=100"`
}

// AddTotals is the bulk variant of AddScores for composite-only sources.
type AddTotals struct {
	Session    string       `json:"session" validate:"required,sessionname"`
	Semester   int          `json:"semester" validate:"semester"`
	CourseCode string       `json:"course_code" validate:"required"`
	Students   []TotalEntry `json:"students" validate:"required,min=1,dive"`
}

func (at *AddTotals) Validate(validate *validator.Validate) error {
	at.Session = core.CleanString(at.Session)
	at.CourseCode = core.CleanString(at.CourseCode)
	for i := range at.Students {
		at.Students[i].RegNo = core.CleanString(at.Students[i].RegNo)
	}
	return validate.Struct(at)
}

// RemoveCourse drops a course entry from a semester record. GPA is not
// recomputed automatically; callers recompute after structural edits.
type RemoveCourse struct {
	RegNo      string `json:"reg_no" validate:"required"`
	Session    string `json:"session" validate:"required,sessionname"`
	Semester   int    `json:"semester" validate:"semester"`
	CourseCode string `json:"course_code" validate:"required"`
}

func (rm *RemoveCourse) Validate(validate *validator.Validate) error {
	rm.RegNo = core.CleanString(rm.RegNo)
	rm.Session = core.CleanString(rm.Session)
	rm.CourseCode = core.CleanString(rm.CourseCode)
	return validate.Struct(rm)
}
