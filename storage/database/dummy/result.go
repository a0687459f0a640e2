package dummydb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/wilsonXeem/school-results-management-system-server/core/result"
)

type resultRepository struct {
	db *resultTable
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(db *DB) result.Repository {
	return &resultRepository{db: db.result}
}

// copyOf deep-copies a record so callers cannot mutate stored state through
// the shared courses slice.
func copyOf(sr *result.SemesterResult) result.SemesterResult {
	cp := *sr
	cp.Courses = make(result.CourseEntries, len(sr.Courses))
	copy(cp.Courses, sr.Courses)
	return cp
}

func sortResults(results []result.SemesterResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Session != results[j].Session {
			return results[i].Session < results[j].Session
		}
		return results[i].Semester < results[j].Semester
	})
}

func (repo *resultRepository) CreateResult(sr result.SemesterResult) (result.SemesterResult, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	sr.ID = uuid.NewString()
	stored := copyOf(&sr)
	repo.db.table[sr.ID] = &stored
	return sr, nil
}

func (repo *resultRepository) GetResult(studentID, sessionName string, semester int) (result.SemesterResult, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sr := range repo.db.table {
		if sr.StudentID == studentID && sr.Session == sessionName && sr.Semester == semester {
			return copyOf(sr), nil
		}
	}
	return result.SemesterResult{}, result.ErrNotFound
}

func (repo *resultRepository) GetResultByID(id string) (result.SemesterResult, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sr, ok := repo.db.table[id]; ok {
		return copyOf(sr), nil
	}
	return result.SemesterResult{}, result.ErrNotFound
}

func (repo *resultRepository) QueryResults(filter result.QueryFilter) ([]result.SemesterResult, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	results := make([]result.SemesterResult, 0)
	for _, sr := range repo.db.table {
		if filter.Session != "" && sr.Session != filter.Session {
			continue
		}
		if filter.Semester != 0 && sr.Semester != filter.Semester {
			continue
		}
		if filter.Level != 0 && sr.Level != filter.Level {
			continue
		}
		if len(filter.StudentIDs) > 0 && !contains(filter.StudentIDs, sr.StudentID) {
			continue
		}
		if filter.CourseCode != "" {
			if _, ok := sr.FindCourse(filter.CourseCode); !ok {
				continue
			}
		}
		results = append(results, copyOf(sr))
	}
	sortResults(results)
	return results, nil
}

func (repo *resultRepository) QueryResultsByStudent(studentID string) ([]result.SemesterResult, error) {
	return repo.QueryResults(result.QueryFilter{StudentIDs: []string{studentID}})
}

func (repo *resultRepository) QueryResultsByStudentSession(studentID, sessionName string) ([]result.SemesterResult, error) {
	return repo.QueryResults(result.QueryFilter{StudentIDs: []string{studentID}, Session: sessionName})
}

func (repo *resultRepository) QueryAllResults() ([]result.SemesterResult, error) {
	return repo.QueryResults(result.QueryFilter{})
}

func (repo *resultRepository) UpdateResult(sr result.SemesterResult) (result.SemesterResult, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[sr.ID]; !ok {
		return result.SemesterResult{}, result.ErrNotFound
	}
	stored := copyOf(&sr)
	repo.db.table[sr.ID] = &stored
	return sr, nil
}

func (repo *resultRepository) DeleteResult(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, id)
	return nil
}

func (repo *resultRepository) DeleteResultsByStudentSession(studentID, sessionName string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	deleted := 0
	for id, sr := range repo.db.table {
		if sr.StudentID == studentID && sr.Session == sessionName {
			delete(repo.db.table, id)
			deleted++
		}
	}
	return deleted, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
