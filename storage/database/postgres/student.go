package postgresdb

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/wilsonXeem/school-results-management-system-server/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(st student.Student) (student.Student, error) {
	st.ID = uuid.NewString()
	_, err := repo.db.NamedExec(`
		INSERT INTO student (id, reg_no, fullname, level, cgpa, moe, created_at, updated_at)
		VALUES (:id, :reg_no, :fullname, :level, :cgpa, :moe, :created_at, :updated_at)`, st)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "creating student")
	}
	return st, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	var st student.Student
	err := repo.db.Get(&st, `SELECT * FROM student WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return st, nil
}

func (repo *studentRepository) GetStudentByRegNo(regNo string) (student.Student, error) {
	var st student.Student
	err := repo.db.Get(&st, `SELECT * FROM student WHERE LOWER(reg_no) = LOWER($1)`, regNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return st, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	students := make([]student.Student, 0)
	if err := repo.db.Select(&students, `SELECT * FROM student ORDER BY reg_no`); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudent(st student.Student) (student.Student, error) {
	res, err := repo.db.NamedExec(`
		UPDATE student
		SET reg_no = :reg_no, fullname = :fullname, level = :level, cgpa = :cgpa,
		    moe = :moe, updated_at = :updated_at
		WHERE id = :id`, st)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return st, nil
}

func (repo *studentRepository) TopStudentsByCGPA(n int) ([]student.Student, error) {
	students := make([]student.Student, 0, n)
	err := repo.db.Select(&students, `SELECT * FROM student ORDER BY cgpa DESC, reg_no LIMIT $1`, n)
	if err != nil {
		return nil, errors.Wrap(err, "querying top students")
	}
	return students, nil
}

func (repo *studentRepository) DeleteStudent(id string) error {
	// semester results cascade via FK
	if _, err := repo.db.Exec(`DELETE FROM student WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return nil
}
