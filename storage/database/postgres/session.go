package postgresdb

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/wilsonXeem/school-results-management-system-server/core/session"
)

type sessionRepository struct {
	db *sqlx.DB
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *sqlx.DB) session.Repository {
	return &sessionRepository{db: db}
}

func (repo *sessionRepository) CreateSession(s session.Session) (session.Session, error) {
	s.ID = uuid.NewString()
	_, err := repo.db.NamedExec(`
		INSERT INTO session (id, name, current, created_at, updated_at)
		VALUES (:id, :name, :current, :created_at, :updated_at)`, s)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "creating session")
	}
	return s, nil
}

func (repo *sessionRepository) GetSessionByName(name string) (session.Session, error) {
	var s session.Session
	err := repo.db.Get(&s, `SELECT * FROM session WHERE name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, errors.Wrap(err, "getting session")
	}
	if s.Classes, err = repo.queryClasses(s.ID); err != nil {
		return session.Session{}, err
	}
	return s, nil
}

func (repo *sessionRepository) QueryAllSessions() ([]session.Session, error) {
	sessions := make([]session.Session, 0)
	if err := repo.db.Select(&sessions, `SELECT * FROM session ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying sessions")
	}
	return sessions, nil
}

func (repo *sessionRepository) SetCurrentSession(name string) (session.Session, error) {
	tx, err := repo.db.Beginx()
	if err != nil {
		return session.Session{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(`UPDATE session SET current = FALSE WHERE current`); err != nil {
		return session.Session{}, errors.Wrap(err, "clearing current session")
	}
	res, err := tx.Exec(`UPDATE session SET current = TRUE, updated_at = NOW() WHERE name = $1`, name)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "setting current session")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return session.Session{}, session.ErrNotFound
	}
	if err = tx.Commit(); err != nil {
		return session.Session{}, errors.Wrap(err, "committing transaction")
	}
	return repo.GetSessionByName(name)
}

func (repo *sessionRepository) DeleteSession(id string) error {
	if _, err := repo.db.Exec(`DELETE FROM session WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}

func (repo *sessionRepository) queryClasses(sessionID string) ([]session.Class, error) {
	classes := make([]session.Class, 0)
	err := repo.db.Select(&classes, `SELECT * FROM class WHERE session_id = $1 ORDER BY level`, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	for i := range classes {
		if classes[i].StudentIDs, err = repo.queryMembers(classes[i].ID); err != nil {
			return nil, err
		}
	}
	return classes, nil
}

func (repo *sessionRepository) queryMembers(classID string) ([]string, error) {
	ids := make([]string, 0)
	err := repo.db.Select(&ids, `SELECT student_id FROM class_student WHERE class_id = $1`, classID)
	if err != nil {
		return nil, errors.Wrap(err, "querying class members")
	}
	return ids, nil
}

func (repo *sessionRepository) CreateClass(c session.Class) (session.Class, error) {
	c.ID = uuid.NewString()
	_, err := repo.db.NamedExec(`
		INSERT INTO class (id, session_id, level, created_at)
		VALUES (:id, :session_id, :level, :created_at)`, c)
	if err != nil {
		return session.Class{}, errors.Wrap(err, "creating class")
	}
	return c, nil
}

func (repo *sessionRepository) GetClass(sessionID string, level int) (session.Class, error) {
	var c session.Class
	err := repo.db.Get(&c, `SELECT * FROM class WHERE session_id = $1 AND level = $2`, sessionID, level)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Class{}, session.ErrClassNotFound
		}
		return session.Class{}, errors.Wrap(err, "getting class")
	}
	if c.StudentIDs, err = repo.queryMembers(c.ID); err != nil {
		return session.Class{}, err
	}
	return c, nil
}

func (repo *sessionRepository) GetClassByID(id string) (session.Class, error) {
	var c session.Class
	err := repo.db.Get(&c, `SELECT * FROM class WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Class{}, session.ErrClassNotFound
		}
		return session.Class{}, errors.Wrap(err, "getting class")
	}
	if c.StudentIDs, err = repo.queryMembers(c.ID); err != nil {
		return session.Class{}, err
	}
	return c, nil
}

func (repo *sessionRepository) AddStudentToClass(classID, studentID string) error {
	_, err := repo.db.Exec(`
		INSERT INTO class_student (class_id, student_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, classID, studentID)
	if err != nil {
		return errors.Wrap(err, "adding student to class")
	}
	return nil
}

func (repo *sessionRepository) CreateExternalCourse(ec session.ExternalCourse) (session.ExternalCourse, error) {
	existing := session.ExternalCourse{}
	err := repo.db.Get(&existing, `
		SELECT * FROM external_course
		WHERE session = $1 AND LOWER(course_code) = LOWER($2)`, ec.Session, ec.CourseCode)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return session.ExternalCourse{}, errors.Wrap(err, "checking external course")
	}

	ec.ID = uuid.NewString()
	_, err = repo.db.NamedExec(`
		INSERT INTO external_course (id, session, course_code, course_title, unit_load, semester, created_at)
		VALUES (:id, :session, :course_code, :course_title, :unit_load, :semester, :created_at)`, ec)
	if err != nil {
		return session.ExternalCourse{}, errors.Wrap(err, "creating external course")
	}
	return ec, nil
}

func (repo *sessionRepository) QueryExternalCourses(sessionName string) ([]session.ExternalCourse, error) {
	courses := make([]session.ExternalCourse, 0)
	err := repo.db.Select(&courses, `
		SELECT * FROM external_course WHERE session = $1 ORDER BY semester, course_code`, sessionName)
	if err != nil {
		return nil, errors.Wrap(err, "querying external courses")
	}
	return courses, nil
}
