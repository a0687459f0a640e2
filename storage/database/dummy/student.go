package dummydb

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/wilsonXeem/school-results-management-system-server/core/student"
)

type studentRepository struct {
	db      *studentTable
	results *resultTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student, results: db.result}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, st := range repo.db.table {
		students = append(students, *st)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].RegNo < students[j].RegNo })
	return students
}

func (repo *studentRepository) CreateStudent(st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	st.ID = uuid.NewString()
	repo.db.table[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if st, ok := repo.db.table[id]; ok {
		return *st, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByRegNo(regNo string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, st := range repo.db.table {
		if strings.EqualFold(st.RegNo, regNo) {
			return *st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *studentRepository) UpdateStudent(st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[st.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.table[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) TopStudentsByCGPA(n int) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := repo.query()
	sort.SliceStable(students, func(i, j int) bool { return students[i].CGPA > students[j].CGPA })
	if len(students) > n {
		students = students[:n]
	}
	return students, nil
}

func (repo *studentRepository) DeleteStudent(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, id)

	// cascade: semester results owned by the student go too
	repo.results.Lock()
	defer repo.results.Unlock()
	for rid, sr := range repo.results.table {
		if sr.StudentID == id {
			delete(repo.results.table, rid)
		}
	}
	return nil
}
