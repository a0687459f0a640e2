package session

import (
	"errors"
	"time"

	"github.com/wilsonXeem/school-results-management-system-server/core"
)

var (
	// errors
	ErrNotFound      = core.NewNotFoundError("session")
	ErrClassNotFound = core.NewNotFoundError("class")
	ErrSessionExists = errors.New("session already registered")
)

type (
	Repository interface {
		CreateSession(s Session) (Session, error)
		GetSessionByName(name string) (Session, error)
		QueryAllSessions() ([]Session, error)
		// SetCurrentSession clears the current flag on all sessions and sets
		// it on the named one, atomically from the caller's point of view.
		SetCurrentSession(name string) (Session, error)
		DeleteSession(id string) error

		CreateClass(c Class) (Class, error)
		GetClass(sessionID string, level int) (Class, error)
		GetClassByID(id string) (Class, error)
		// AddStudentToClass is a no-op when the student is already a member.
		AddStudentToClass(classID, studentID string) error

		// CreateExternalCourse is a no-op returning the existing entry when
		// the (session, course code) pair is already cataloged.
		CreateExternalCourse(ec ExternalCourse) (ExternalCourse, error)
		QueryExternalCourses(sessionName string) ([]ExternalCourse, error)
	}

	Service interface {
		Register(ns NewSession) (Session, error)
		Get(name string) (Session, error)
		QueryAll() ([]Session, error)
		SetCurrent(name string) (Session, error)
		Remove(id string) error
		EnsureClass(sessionName string, level int) (Class, error)
		GetClassByID(id string) (Class, error)
		AddStudentToClass(classID, studentID string) error
		AddExternalCourse(ne NewExternalCourse) (ExternalCourse, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register creates the session along with its six level cohorts. A name
// collision is rejected before any state change.
func (svc *service) Register(ns NewSession) (Session, error) {
	if _, err := svc.repo.GetSessionByName(ns.Name); err == nil {
		return Session{}, core.NewValidationError(ErrSessionExists, core.FieldError{Field: "session", Error: ErrSessionExists.Error()})
	} else if !core.IsNotFound(err) {
		return Session{}, err
	}

	now := time.Now().UTC()
	s, err := svc.repo.CreateSession(Session{Name: ns.Name, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return Session{}, err
	}
	for _, level := range Levels {
		cls, err := svc.repo.CreateClass(Class{SessionID: s.ID, Level: level, CreatedAt: now})
		if err != nil {
			return Session{}, err
		}
		s.Classes = append(s.Classes, cls)
	}

	if ns.Current {
		return svc.repo.SetCurrentSession(s.Name)
	}
	return s, nil
}

func (svc *service) Get(name string) (Session, error) {
	return svc.repo.GetSessionByName(core.CleanString(name))
}

func (svc *service) QueryAll() ([]Session, error) {
	return svc.repo.QueryAllSessions()
}

func (svc *service) SetCurrent(name string) (Session, error) {
	return svc.repo.SetCurrentSession(core.CleanString(name))
}

func (svc *service) Remove(id string) error {
	return svc.repo.DeleteSession(id)
}

// EnsureClass returns the (session, level) cohort, creating it lazily the
// first time a student at that level is registered in that session.
func (svc *service) EnsureClass(sessionName string, level int) (Class, error) {
	s, err := svc.repo.GetSessionByName(core.CleanString(sessionName))
	if err != nil {
		return Class{}, err
	}
	cls, err := svc.repo.GetClass(s.ID, level)
	if err == nil {
		return cls, nil
	}
	if !core.IsNotFound(err) {
		return Class{}, err
	}
	return svc.repo.CreateClass(Class{SessionID: s.ID, Level: level, CreatedAt: time.Now().UTC()})
}

func (svc *service) GetClassByID(id string) (Class, error) {
	return svc.repo.GetClassByID(id)
}

func (svc *service) AddStudentToClass(classID, studentID string) error {
	return svc.repo.AddStudentToClass(classID, studentID)
}

func (svc *service) AddExternalCourse(ne NewExternalCourse) (ExternalCourse, error) {
	return svc.repo.CreateExternalCourse(ExternalCourse{
		Session:     ne.Session,
		CourseCode:  ne.CourseCode,
		CourseTitle: ne.CourseTitle,
		UnitLoad:    ne.UnitLoad,
		Semester:    ne.Semester,
		CreatedAt:   time.Now().UTC(),
	})
}
