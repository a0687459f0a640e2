package postgresdb

import (
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/wilsonXeem/school-results-management-system-server/core/result"
)

type resultRepository struct {
	db *sqlx.DB
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(db *sqlx.DB) result.Repository {
	return &resultRepository{db: db}
}

func (repo *resultRepository) CreateResult(sr result.SemesterResult) (result.SemesterResult, error) {
	sr.ID = uuid.NewString()
	_, err := repo.db.NamedExec(`
		INSERT INTO semester_result (id, student_id, session, semester, level, gpa, session_gpa, courses, published, created_at, updated_at)
		VALUES (:id, :student_id, :session, :semester, :level, :gpa, :session_gpa, :courses, :published, :created_at, :updated_at)`, sr)
	if err != nil {
		return result.SemesterResult{}, errors.Wrap(err, "creating semester result")
	}
	return sr, nil
}

func (repo *resultRepository) GetResult(studentID, sessionName string, semester int) (result.SemesterResult, error) {
	var sr result.SemesterResult
	err := repo.db.Get(&sr, `
		SELECT * FROM semester_result
		WHERE student_id = $1 AND session = $2 AND semester = $3`, studentID, sessionName, semester)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result.SemesterResult{}, result.ErrNotFound
		}
		return result.SemesterResult{}, errors.Wrap(err, "getting semester result")
	}
	return sr, nil
}

func (repo *resultRepository) GetResultByID(id string) (result.SemesterResult, error) {
	var sr result.SemesterResult
	err := repo.db.Get(&sr, `SELECT * FROM semester_result WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result.SemesterResult{}, result.ErrNotFound
		}
		return result.SemesterResult{}, errors.Wrap(err, "getting semester result")
	}
	return sr, nil
}

func (repo *resultRepository) QueryResults(filter result.QueryFilter) ([]result.SemesterResult, error) {
	where := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)

	if len(filter.StudentIDs) > 0 {
		q, inArgs, err := sqlx.In("student_id IN (?)", filter.StudentIDs)
		if err != nil {
			return nil, errors.Wrap(err, "building results query")
		}
		where = append(where, q)
		args = append(args, inArgs...)
	}
	if filter.Session != "" {
		where = append(where, "session = ?")
		args = append(args, filter.Session)
	}
	if filter.Semester != 0 {
		where = append(where, "semester = ?")
		args = append(args, filter.Semester)
	}
	if filter.Level != 0 {
		where = append(where, "level = ?")
		args = append(args, filter.Level)
	}
	if filter.CourseCode != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM jsonb_array_elements(courses) AS ce
			WHERE LOWER(ce->>'course_code') = LOWER(?))`)
		args = append(args, filter.CourseCode)
	}

	q := `SELECT * FROM semester_result`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY session, semester"

	results := make([]result.SemesterResult, 0)
	if err := repo.db.Select(&results, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying semester results")
	}
	return results, nil
}

func (repo *resultRepository) QueryResultsByStudent(studentID string) ([]result.SemesterResult, error) {
	results := make([]result.SemesterResult, 0)
	err := repo.db.Select(&results, `
		SELECT * FROM semester_result WHERE student_id = $1
		ORDER BY session, semester`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying semester results")
	}
	return results, nil
}

func (repo *resultRepository) QueryResultsByStudentSession(studentID, sessionName string) ([]result.SemesterResult, error) {
	results := make([]result.SemesterResult, 0, 2)
	err := repo.db.Select(&results, `
		SELECT * FROM semester_result WHERE student_id = $1 AND session = $2
		ORDER BY semester`, studentID, sessionName)
	if err != nil {
		return nil, errors.Wrap(err, "querying semester results")
	}
	return results, nil
}

func (repo *resultRepository) QueryAllResults() ([]result.SemesterResult, error) {
	results := make([]result.SemesterResult, 0)
	err := repo.db.Select(&results, `SELECT * FROM semester_result ORDER BY session, semester`)
	if err != nil {
		return nil, errors.Wrap(err, "querying semester results")
	}
	return results, nil
}

func (repo *resultRepository) UpdateResult(sr result.SemesterResult) (result.SemesterResult, error) {
	res, err := repo.db.NamedExec(`
		UPDATE semester_result
		SET student_id = :student_id, session = :session, semester = :semester,
		    level = :level, gpa = :gpa, session_gpa = :session_gpa,
		    courses = :courses, published = :published, updated_at = :updated_at
		WHERE id = :id`, sr)
	if err != nil {
		return result.SemesterResult{}, errors.Wrap(err, "updating semester result")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return result.SemesterResult{}, result.ErrNotFound
	}
	return sr, nil
}

func (repo *resultRepository) DeleteResult(id string) error {
	if _, err := repo.db.Exec(`DELETE FROM semester_result WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting semester result")
	}
	return nil
}

func (repo *resultRepository) DeleteResultsByStudentSession(studentID, sessionName string) (int, error) {
	res, err := repo.db.Exec(`
		DELETE FROM semester_result WHERE student_id = $1 AND session = $2`, studentID, sessionName)
	if err != nil {
		return 0, errors.Wrap(err, "deleting semester results")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
