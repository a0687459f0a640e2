package probation

import (
	"regexp"
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/wilsonXeem/school-results-management-system-server/core"
	"github.com/wilsonXeem/school-results-management-system-server/core/result"
	"github.com/wilsonXeem/school-results-management-system-server/core/student"
)

// Two rule families decide probation, selected by the level recorded on the
// session's second-semester record. Entry-level (100) students are judged on
// raw subject averages across foundational subjects; everyone else on the
// session GPA. The analyzer only reads; it never mutates stored state.

const (
	// GPAFloor is the session GPA below which a non-entry-level student is
	// flagged.
	GPAFloor = 2.5
	// SubjectFloor is the mean raw score below which a foundational subject
	// group flags an entry-level student.
	SubjectFloor = 40.0
)

// foundationalPrefixes are the subject groups the entry-level rule inspects.
// Courses outside these prefixes are ignored by the rule even when they count
// towards GPA.
var foundationalPrefixes = []string{"mth", "phy", "chm", "bio", "gsp"}

var prefixPattern = regexp.MustCompile(`^[a-z]+`)

type (
	// SubjectAverage is the mean raw total of one foundational subject group.
	SubjectAverage struct {
		Prefix  string  `json:"prefix"`
		Average float64 `json:"average"`
		Courses int     `json:"courses"`
	}

	// SessionDetail explains why one session flagged (or did not flag) a
	// student.
	SessionDetail struct {
		Session    string           `json:"session"`
		Level      int              `json:"level"`
		SessionGPA null.Float64     `json:"session_gpa"`
		Subjects   []SubjectAverage `json:"subjects,omitempty"`
		Flagged    bool             `json:"flagged"`
	}

	// Entry is one student on a session's probation list.
	Entry struct {
		Student student.Student `json:"student"`
		Detail  SessionDetail   `json:"detail"`
	}

	// ErrorStudent is a student flagged in more than one distinct session.
	ErrorStudent struct {
		Student  student.Student `json:"student"`
		Sessions []SessionDetail `json:"sessions"`
	}

	Service interface {
		// ProbationList flags every student below threshold for one session.
		// A non-zero level restricts the scan to that cohort.
		ProbationList(sessionName string, level int) ([]Entry, error)
		// ErrorStudents detects students on probation in more than one
		// distinct session.
		ErrorStudents() ([]ErrorStudent, error)
	}

	service struct {
		results  result.Repository
		students student.Service
		logger   core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(results result.Repository, students student.Service, logger core.Logger) Service {
	return &service{results: results, students: students, logger: logger}
}

// subjectPrefix extracts the leading letters of a course code, lower-cased.
func subjectPrefix(code string) string {
	return prefixPattern.FindString(core.CleanString(code, true))
}

func isFoundational(prefix string) bool {
	for _, p := range foundationalPrefixes {
		if p == prefix {
			return true
		}
	}
	return false
}

// subjectAverages computes the mean raw total per foundational subject group
// over the approved entries of a session's records.
func subjectAverages(sessionResults []result.SemesterResult) []SubjectAverage {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := range sessionResults {
		for _, ce := range sessionResults[i].Courses {
			if !ce.Approved() {
				continue
			}
			prefix := subjectPrefix(ce.CourseCode)
			if !isFoundational(prefix) {
				continue
			}
			sums[prefix] += ce.Total
			counts[prefix]++
		}
	}

	averages := make([]SubjectAverage, 0, len(sums))
	for _, prefix := range foundationalPrefixes {
		n := counts[prefix]
		if n == 0 {
			continue
		}
		averages = append(averages, SubjectAverage{
			Prefix:  prefix,
			Average: core.Round2(sums[prefix] / float64(n)),
			Courses: n,
		})
	}
	return averages
}

// evaluate applies the level-appropriate rule to one session of one
// student's history. sem2 is the session's second-semester record;
// sessionResults holds both semesters.
func evaluate(sem2 *result.SemesterResult, sessionResults []result.SemesterResult) SessionDetail {
	detail := SessionDetail{
		Session:    sem2.Session,
		Level:      sem2.Level,
		SessionGPA: sem2.SessionGPA,
	}
	if sem2.Level == 100 {
		detail.Subjects = subjectAverages(sessionResults)
		for _, sa := range detail.Subjects {
			if sa.Average < SubjectFloor {
				detail.Flagged = true
				break
			}
		}
		return detail
	}
	// a session GPA that was never computed cannot flag anyone
	detail.Flagged = sem2.SessionGPA.Valid && sem2.SessionGPA.Float64 < GPAFloor
	return detail
}

func (svc *service) ProbationList(sessionName string, level int) ([]Entry, error) {
	sessionName = core.CleanString(sessionName)
	sem2Results, err := svc.results.QueryResults(result.QueryFilter{Session: sessionName, Semester: 2, Level: level})
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0)
	for i := range sem2Results {
		sem2 := &sem2Results[i]
		sessionResults, err := svc.results.QueryResultsByStudentSession(sem2.StudentID, sessionName)
		if err != nil {
			return nil, err
		}
		detail := evaluate(sem2, sessionResults)
		if !detail.Flagged {
			continue
		}
		st, err := svc.students.GetByID(sem2.StudentID)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		entries = append(entries, Entry{Student: st, Detail: detail})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Student.RegNo < entries[j].Student.RegNo
	})
	return entries, nil
}

func (svc *service) ErrorStudents() ([]ErrorStudent, error) {
	students, err := svc.students.QueryAll()
	if err != nil {
		return nil, err
	}

	errored := make([]ErrorStudent, 0)
	for _, st := range students {
		history, err := svc.results.QueryResultsByStudent(st.ID)
		if err != nil {
			return nil, err
		}

		bySession := make(map[string][]result.SemesterResult)
		for _, sr := range history {
			bySession[sr.Session] = append(bySession[sr.Session], sr)
		}
		names := make([]string, 0, len(bySession))
		for name := range bySession {
			names = append(names, name)
		}
		sort.Strings(names)

		var flagged []SessionDetail
		for _, name := range names {
			sessionResults := bySession[name]
			var sem2 *result.SemesterResult
			for i := range sessionResults {
				if sessionResults[i].Semester == 2 {
					sem2 = &sessionResults[i]
					break
				}
			}
			if sem2 == nil {
				continue
			}
			if detail := evaluate(sem2, sessionResults); detail.Flagged {
				flagged = append(flagged, detail)
			}
		}
		if len(flagged) > 1 {
			errored = append(errored, ErrorStudent{Student: st, Sessions: flagged})
		}
	}
	return errored, nil
}
