package result

import (
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/wilsonXeem/school-results-management-system-server/core"
	"github.com/wilsonXeem/school-results-management-system-server/core/grading"
	"github.com/wilsonXeem/school-results-management-system-server/core/student"
)

// Read-side views assembled from students, cohorts and semester results.

type (
	// RosterRow is one student's standing within a cohort view.
	RosterRow struct {
		Student student.Student `json:"student"`
		Result  *SemesterResult `json:"result,omitempty"`
	}

	// Roster lists a cohort with each member's record for one semester.
	Roster struct {
		Session  string      `json:"session"`
		Semester int         `json:"semester"`
		Level    int         `json:"level"`
		Rows     []RosterRow `json:"rows"`
	}

	// CourseScoreRow is one student's score line for a single course.
	CourseScoreRow struct {
		Student student.Student `json:"student"`
		Entry   CourseEntry     `json:"entry"`
	}

	// SemesterBreakdown splits one semester's entries by supervision.
	SemesterBreakdown struct {
		Semester     int           `json:"semester"`
		GPA          float64       `json:"gpa"`
		Professional []CourseEntry `json:"professional"`
		External     []CourseEntry `json:"external"`
		Other        []CourseEntry `json:"other"`
	}

	// SessionSummary is the per-student view of one academic session.
	SessionSummary struct {
		Student    student.Student     `json:"student"`
		Session    string              `json:"session"`
		Semesters  []SemesterBreakdown `json:"semesters"`
		SessionGPA null.Float64        `json:"session_gpa"`
		CGPA       float64             `json:"cgpa"`
	}
)

// ClassRoster resolves a cohort to its members and pairs each with their
// semester record, when one exists.
func (svc *service) ClassRoster(classID, sessionName string, semester, level int) (Roster, error) {
	cls, err := svc.sessions.GetClassByID(classID)
	if err != nil {
		return Roster{}, err
	}
	sessionName = core.CleanString(sessionName)

	roster := Roster{Session: sessionName, Semester: semester, Level: level}
	for _, id := range cls.StudentIDs {
		st, err := svc.students.GetByID(id)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return Roster{}, err
		}
		row := RosterRow{Student: st}
		sr, err := svc.repo.GetResult(id, sessionName, semester)
		if err == nil {
			row.Result = &sr
		} else if !core.IsNotFound(err) {
			return Roster{}, err
		}
		roster.Rows = append(roster.Rows, row)
	}
	sort.Slice(roster.Rows, func(i, j int) bool {
		return roster.Rows[i].Student.RegNo < roster.Rows[j].Student.RegNo
	})
	return roster, nil
}

// StudentsByCourse lists every student registered for a course in one
// (session, semester), with their recorded scores.
func (svc *service) StudentsByCourse(sessionName string, semester int, courseCode string) ([]CourseScoreRow, error) {
	results, err := svc.repo.QueryResults(QueryFilter{
		Session:    core.CleanString(sessionName),
		Semester:   semester,
		CourseCode: core.CleanString(courseCode),
	})
	if err != nil {
		return nil, err
	}

	rows := make([]CourseScoreRow, 0, len(results))
	for i := range results {
		ce, ok := results[i].FindCourse(courseCode)
		if !ok {
			continue
		}
		st, err := svc.students.GetByID(results[i].StudentID)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		rows = append(rows, CourseScoreRow{Student: st, Entry: *ce})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Student.RegNo < rows[j].Student.RegNo
	})
	return rows, nil
}

// ResultsByStudent returns a student's full result history ordered by
// session name then semester.
func (svc *service) ResultsByStudent(regNo string) ([]SemesterResult, error) {
	st, err := svc.students.GetByRegNo(regNo)
	if err != nil {
		return nil, err
	}
	results, err := svc.repo.QueryResultsByStudent(st.ID)
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Session != results[j].Session {
			return results[i].Session < results[j].Session
		}
		return results[i].Semester < results[j].Semester
	})
	return results, nil
}

// SessionSummary assembles one student's session view with courses split
// into professional, external and other groups per semester.
func (svc *service) SessionSummary(regNo, sessionName string) (SessionSummary, error) {
	st, err := svc.students.GetByRegNo(regNo)
	if err != nil {
		return SessionSummary{}, err
	}
	sessionName = core.CleanString(sessionName)
	results, err := svc.repo.QueryResultsByStudentSession(st.ID, sessionName)
	if err != nil {
		return SessionSummary{}, err
	}
	if len(results) == 0 {
		return SessionSummary{}, ErrNotFound
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Semester < results[j].Semester })

	summary := SessionSummary{
		Student:    st,
		Session:    sessionName,
		SessionGPA: SessionGPA(results),
		CGPA:       st.CGPA,
	}
	for i := range results {
		sr := &results[i]
		bd := SemesterBreakdown{Semester: sr.Semester, GPA: sr.GPA}
		for _, ce := range sr.Courses {
			switch {
			case grading.IsProfessional(ce.CourseCode):
				bd.Professional = append(bd.Professional, ce)
			case ce.External:
				bd.External = append(bd.External, ce)
			default:
				bd.Other = append(bd.Other, ce)
			}
		}
		summary.Semesters = append(summary.Semesters, bd)
	}
	return summary, nil
}
