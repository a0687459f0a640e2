package student

import (
	"fmt"
	"time"

	"github.com/wilsonXeem/school-results-management-system-server/core"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("student")
)

type (
	Repository interface {
		CreateStudent(st Student) (Student, error)
		GetStudentByID(id string) (Student, error)
		GetStudentByRegNo(regNo string) (Student, error)
		QueryAllStudents() ([]Student, error)
		UpdateStudent(st Student) (Student, error)
		// TopStudentsByCGPA returns up to n students ordered by CGPA descending.
		TopStudentsByCGPA(n int) ([]Student, error)
		// DeleteStudent removes the student and all semester results they own.
		DeleteStudent(id string) error
	}

	Service interface {
		Create(regNo, fullName string, level int) (Student, error)
		GetOrCreate(regNo, fullName string, level int) (Student, error)
		GetByRegNo(regNo string) (Student, error)
		GetByID(id string) (Student, error)
		QueryAll() ([]Student, error)
		UpdateName(un UpdateName) (Student, error)
		UpdateMOE(um UpdateMOE) (Student, error)
		BulkUpdateMOE(bm BulkMOE) (BulkReport, error)
		SetCGPA(id string, cgpa float64) (Student, error)
		TopByCGPA(n int) ([]Student, error)
		Delete(regNo string) error
	}

	service struct {
		repo   Repository
		logger core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, logger core.Logger) Service {
	return &service{repo: repo, logger: logger}
}

// BulkReport summarizes a partially-successful batch operation.
type BulkReport struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
}

func (svc *service) Create(regNo, fullName string, level int) (Student, error) {
	now := time.Now().UTC()
	st := Student{
		RegNo:     core.CleanString(regNo),
		FullName:  core.CleanString(fullName),
		Level:     level,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateStudent(st)
}

// GetOrCreate finds the student by reg no, creating them on first sight.
// An existing student's level is refreshed when it differs: the level passed
// by the most recent registration call is authoritative.
func (svc *service) GetOrCreate(regNo, fullName string, level int) (Student, error) {
	st, err := svc.repo.GetStudentByRegNo(core.CleanString(regNo))
	if err != nil {
		if core.IsNotFound(err) {
			return svc.Create(regNo, fullName, level)
		}
		return Student{}, err
	}
	if st.Level != level {
		st.Level = level
		st.UpdatedAt = time.Now().UTC()
		return svc.repo.UpdateStudent(st)
	}
	return st, nil
}

func (svc *service) GetByRegNo(regNo string) (Student, error) {
	return svc.repo.GetStudentByRegNo(core.CleanString(regNo))
}

func (svc *service) GetByID(id string) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *service) UpdateName(un UpdateName) (Student, error) {
	st, err := svc.repo.GetStudentByRegNo(un.RegNo)
	if err != nil {
		return Student{}, err
	}
	st.FullName = un.FullName
	st.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(st)
}

func (svc *service) UpdateMOE(um UpdateMOE) (Student, error) {
	st, err := svc.repo.GetStudentByRegNo(um.RegNo)
	if err != nil {
		return Student{}, err
	}
	st.MOE.SetValid(um.MOE)
	st.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(st)
}

// BulkUpdateMOE applies each update independently; a missing student is
// logged and skipped, the batch continues.
func (svc *service) BulkUpdateMOE(bm BulkMOE) (BulkReport, error) {
	report := BulkReport{Processed: len(bm.Students)}
	for _, um := range bm.Students {
		if _, err := svc.UpdateMOE(um); err != nil {
			svc.logger.Warn(fmt.Sprintf("bulk MOE update: skipping %s: %v", um.RegNo, err))
			report.Skipped++
			continue
		}
		report.Updated++
	}
	return report, nil
}

// SetCGPA stores a freshly recomputed cumulative GPA.
func (svc *service) SetCGPA(id string, cgpa float64) (Student, error) {
	st, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	st.CGPA = cgpa
	st.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(st)
}

func (svc *service) TopByCGPA(n int) ([]Student, error) {
	if n <= 0 {
		n = 10
	}
	return svc.repo.TopStudentsByCGPA(n)
}

// Delete removes the student and, through the repository cascade, every
// semester result they own.
func (svc *service) Delete(regNo string) error {
	st, err := svc.repo.GetStudentByRegNo(core.CleanString(regNo))
	if err != nil {
		return err
	}
	return svc.repo.DeleteStudent(st.ID)
}
