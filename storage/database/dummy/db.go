package dummydb

import (
	"sync"

	"github.com/wilsonXeem/school-results-management-system-server/core/result"
	"github.com/wilsonXeem/school-results-management-system-server/core/session"
	"github.com/wilsonXeem/school-results-management-system-server/core/staff"
	"github.com/wilsonXeem/school-results-management-system-server/core/student"
)

type (
	DB struct {
		student *studentTable
		session *sessionTable
		result  *resultTable
		staff   *staffTable
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	sessionTable struct {
		sync.RWMutex
		sessions  map[string]*session.Session
		classes   map[string]*session.Class
		externals map[string]*session.ExternalCourse
	}

	resultTable struct {
		sync.RWMutex
		table map[string]*result.SemesterResult
	}

	staffTable struct {
		sync.RWMutex
		table map[string]*staff.Staff
	}
)

func Open() (*DB, error) {
	db := &DB{
		student: &studentTable{table: make(map[string]*student.Student)},
		session: &sessionTable{
			sessions:  make(map[string]*session.Session),
			classes:   make(map[string]*session.Class),
			externals: make(map[string]*session.ExternalCourse),
		},
		result: &resultTable{table: make(map[string]*result.SemesterResult)},
		staff:  &staffTable{table: make(map[string]*staff.Staff)},
	}
	return db, nil
}
