package dummydb

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wilsonXeem/school-results-management-system-server/core/session"
)

type sessionRepository struct {
	db *sessionTable
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *DB) session.Repository {
	return &sessionRepository{db: db.session}
}

// classesOf assembles a session's classes, members included. Callers hold
// the lock.
func (repo *sessionRepository) classesOf(sessionID string) []session.Class {
	classes := make([]session.Class, 0)
	for _, c := range repo.db.classes {
		if c.SessionID == sessionID {
			classes = append(classes, *c)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Level < classes[j].Level })
	return classes
}

func (repo *sessionRepository) CreateSession(s session.Session) (session.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s.ID = uuid.NewString()
	repo.db.sessions[s.ID] = &s
	return s, nil
}

func (repo *sessionRepository) GetSessionByName(name string) (session.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.sessions {
		if s.Name == name {
			found := *s
			found.Classes = repo.classesOf(s.ID)
			return found, nil
		}
	}
	return session.Session{}, session.ErrNotFound
}

func (repo *sessionRepository) QueryAllSessions() ([]session.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	sessions := make([]session.Session, 0, len(repo.db.sessions))
	for _, s := range repo.db.sessions {
		sessions = append(sessions, *s)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Name < sessions[j].Name })
	return sessions, nil
}

func (repo *sessionRepository) SetCurrentSession(name string) (session.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var target *session.Session
	for _, s := range repo.db.sessions {
		if s.Name == name {
			target = s
			break
		}
	}
	if target == nil {
		return session.Session{}, session.ErrNotFound
	}
	for _, s := range repo.db.sessions {
		s.Current = false
	}
	target.Current = true
	target.UpdatedAt = time.Now().UTC()

	found := *target
	found.Classes = repo.classesOf(target.ID)
	return found, nil
}

func (repo *sessionRepository) DeleteSession(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.sessions, id)
	for cid, c := range repo.db.classes {
		if c.SessionID == id {
			delete(repo.db.classes, cid)
		}
	}
	return nil
}

func (repo *sessionRepository) CreateClass(c session.Class) (session.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = uuid.NewString()
	if c.StudentIDs == nil {
		c.StudentIDs = make([]string, 0)
	}
	repo.db.classes[c.ID] = &c
	return c, nil
}

func (repo *sessionRepository) GetClass(sessionID string, level int) (session.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, c := range repo.db.classes {
		if c.SessionID == sessionID && c.Level == level {
			return *c, nil
		}
	}
	return session.Class{}, session.ErrClassNotFound
}

func (repo *sessionRepository) GetClassByID(id string) (session.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.classes[id]; ok {
		return *c, nil
	}
	return session.Class{}, session.ErrClassNotFound
}

func (repo *sessionRepository) AddStudentToClass(classID, studentID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	c, ok := repo.db.classes[classID]
	if !ok {
		return session.ErrClassNotFound
	}
	if c.HasStudent(studentID) {
		return nil
	}
	c.StudentIDs = append(c.StudentIDs, studentID)
	return nil
}

func (repo *sessionRepository) CreateExternalCourse(ec session.ExternalCourse) (session.ExternalCourse, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.externals {
		if existing.Session == ec.Session && strings.EqualFold(existing.CourseCode, ec.CourseCode) {
			return *existing, nil
		}
	}
	ec.ID = uuid.NewString()
	repo.db.externals[ec.ID] = &ec
	return ec, nil
}

func (repo *sessionRepository) QueryExternalCourses(sessionName string) ([]session.ExternalCourse, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]session.ExternalCourse, 0)
	for _, ec := range repo.db.externals {
		if ec.Session == sessionName {
			courses = append(courses, *ec)
		}
	}
	sort.Slice(courses, func(i, j int) bool {
		if courses[i].Semester != courses[j].Semester {
			return courses[i].Semester < courses[j].Semester
		}
		return courses[i].CourseCode < courses[j].CourseCode
	})
	return courses, nil
}
