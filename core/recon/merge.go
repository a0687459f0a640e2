package recon

import (
	"fmt"
	"sort"
	"time"

	"github.com/wilsonXeem/school-results-management-system-server/core"
	"github.com/wilsonXeem/school-results-management-system-server/core/result"
	"github.com/wilsonXeem/school-results-management-system-server/core/student"
)

// MergeDuplicateStudents groups students by trimmed registration number and
// collapses each group onto a primary identity. The primary is the member
// with the most semester results, ties broken by total course count. Results
// of the other members are reassigned to the primary; when a (session,
// semester) triple collides, course entries union without duplicating codes.
// Non-primary student records are deleted afterwards.
func (svc *service) MergeDuplicateStudents() (Report, error) {
	students, err := svc.students.QueryAllStudents()
	if err != nil {
		return Report{}, err
	}

	groups := make(map[string][]student.Student)
	for _, st := range students {
		key := core.CleanString(st.RegNo, true)
		groups[key] = append(groups[key], st)
	}

	report := Report{}
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		report.Processed += len(group)
		if err := svc.mergeGroup(group, &report); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (svc *service) mergeGroup(group []student.Student, report *Report) error {
	histories := make(map[string][]result.SemesterResult, len(group))
	for _, st := range group {
		history, err := svc.results.QueryResultsByStudent(st.ID)
		if err != nil {
			return err
		}
		histories[st.ID] = history
	}

	sort.Slice(group, func(i, j int) bool {
		hi, hj := histories[group[i].ID], histories[group[j].ID]
		if len(hi) != len(hj) {
			return len(hi) > len(hj)
		}
		return countCourses(hi) > countCourses(hj)
	})
	primary, rest := group[0], group[1:]

	for _, dup := range rest {
		absorbed := true
		for _, sr := range histories[dup.ID] {
			if err := svc.absorbResult(primary.ID, sr); err != nil {
				svc.logger.Warn(fmt.Sprintf("merge: result %s of %s: %v", sr.ID, dup.RegNo, err))
				report.Skipped++
				absorbed = false
			}
		}
		// the delete cascades over the duplicate's remaining results, so a
		// partially absorbed identity must survive for the next run
		if !absorbed {
			continue
		}
		if err := svc.students.DeleteStudent(dup.ID); err != nil {
			svc.logger.Warn(fmt.Sprintf("merge: deleting %s: %v", dup.RegNo, err))
			report.Skipped++
			continue
		}
		report.Updated++
	}

	return svc.resultsSvc.Recompute(primary.ID)
}

// absorbResult moves one semester record onto the primary student. On a
// (session, semester) collision the entries union into the primary's record
// and the duplicate record is deleted.
func (svc *service) absorbResult(primaryID string, sr result.SemesterResult) error {
	existing, err := svc.results.GetResult(primaryID, sr.Session, sr.Semester)
	if err != nil {
		if !core.IsNotFound(err) {
			return err
		}
		sr.StudentID = primaryID
		sr.UpdatedAt = time.Now().UTC()
		_, err = svc.results.UpdateResult(sr)
		return err
	}

	for _, ce := range sr.Courses {
		if _, ok := existing.FindCourse(ce.CourseCode); !ok {
			existing.Courses = append(existing.Courses, ce)
		}
	}
	existing.UpdatedAt = time.Now().UTC()
	if _, err = svc.results.UpdateResult(existing); err != nil {
		return err
	}
	return svc.results.DeleteResult(sr.ID)
}

func countCourses(history []result.SemesterResult) int {
	n := 0
	for i := range history {
		n += len(history[i].Courses)
	}
	return n
}
