package result

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/wilsonXeem/school-results-management-system-server/core"
	"github.com/wilsonXeem/school-results-management-system-server/core/grading"
	"github.com/wilsonXeem/school-results-management-system-server/core/session"
	"github.com/wilsonXeem/school-results-management-system-server/core/student"
)

var (
	// errors
	ErrNotFound       = core.NewNotFoundError("semester result")
	ErrCourseNotFound = core.NewNotFoundError("course entry")
)

type (
	Repository interface {
		CreateResult(sr SemesterResult) (SemesterResult, error)
		// GetResult returns the single record for a (student, session,
		// semester) triple.
		GetResult(studentID, sessionName string, semester int) (SemesterResult, error)
		GetResultByID(id string) (SemesterResult, error)
		QueryResults(filter QueryFilter) ([]SemesterResult, error)
		QueryResultsByStudent(studentID string) ([]SemesterResult, error)
		QueryResultsByStudentSession(studentID, sessionName string) ([]SemesterResult, error)
		QueryAllResults() ([]SemesterResult, error)
		UpdateResult(sr SemesterResult) (SemesterResult, error)
		DeleteResult(id string) error
		DeleteResultsByStudentSession(studentID, sessionName string) (int, error)
	}

	Service interface {
		RegisterStudents(rc RegisterCourses) (BatchReport, error)
		RegisterExternal(re RegisterExternal) (SemesterResult, error)
		RecordScore(sessionName string, semester int, courseCode string, entry ScoreEntry) (SemesterResult, error)
		RecordScores(as AddScores) (BatchReport, error)
		RecordScoreByTotal(sessionName string, semester int, courseCode string, entry TotalEntry) (SemesterResult, error)
		RecordTotals(at AddTotals) (BatchReport, error)
		RemoveCourse(rm RemoveCourse) (SemesterResult, error)
		RemoveSemester(regNo, sessionName string, semester int) error
		RemoveSession(regNo, sessionName string) error
		UpdateLevel(regNo, sessionName string, semester, level int) (SemesterResult, error)
		Publish(sessionName string, semester int) (BatchReport, error)
		Recompute(studentID string) error

		ClassRoster(classID, sessionName string, semester, level int) (Roster, error)
		StudentsByCourse(sessionName string, semester int, courseCode string) ([]CourseScoreRow, error)
		ResultsByStudent(regNo string) ([]SemesterResult, error)
		SessionSummary(regNo, sessionName string) (SessionSummary, error)
	}

	service struct {
		repo     Repository
		students student.Service
		sessions session.Service
		mailSvc  core.EmailService
		pub      Publisher
		logger   core.Logger
		conf     *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	students student.Service,
	sessions session.Service,
	mailSvc core.EmailService,
	pub Publisher,
	logger core.Logger,
	conf *core.Config,
) Service {
	if pub == nil {
		pub = NopPublisher()
	}
	return &service{
		repo:     repo,
		students: students,
		sessions: sessions,
		mailSvc:  mailSvc,
		pub:      pub,
		logger:   logger,
		conf:     conf,
	}
}

// BatchReport summarizes a partially-successful batch operation. A single
// record's failure never aborts the batch.
type BatchReport struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
}

// registerCourse ensures the semester record shell exists for the triple and
// adds the course entry if its code is not present yet. Re-registering an
// already-present code is a no-op. The level passed by the most recent call
// is authoritative.
func (svc *service) registerCourse(st student.Student, sessionName string, semester, level int, ce CourseEntry) (SemesterResult, error) {
	sr, err := svc.repo.GetResult(st.ID, sessionName, semester)
	if err != nil {
		if !core.IsNotFound(err) {
			return SemesterResult{}, err
		}
		now := time.Now().UTC()
		sr, err = svc.repo.CreateResult(SemesterResult{
			StudentID: st.ID,
			Session:   sessionName,
			Semester:  semester,
			Level:     level,
			Courses:   CourseEntries{},
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return SemesterResult{}, err
		}
	}

	changed := false
	if sr.Level != level {
		sr.Level = level
		changed = true
	}
	if _, ok := sr.FindCourse(ce.CourseCode); !ok {
		sr.Courses = append(sr.Courses, ce)
		changed = true
	}
	if !changed {
		return sr, nil
	}
	sr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateResult(sr)
}

// RegisterStudents registers one course for many students at once, creating
// students, the level cohort and semester record shells on first sight.
// Failures on individual students are logged and skipped.
func (svc *service) RegisterStudents(rc RegisterCourses) (BatchReport, error) {
	// the session must exist before anything is touched
	if _, err := svc.sessions.Get(rc.Session); err != nil {
		return BatchReport{}, err
	}
	cls, err := svc.sessions.EnsureClass(rc.Session, rc.Level)
	if err != nil {
		return BatchReport{}, err
	}

	report := BatchReport{Processed: len(rc.Students)}
	for _, desc := range rc.Students {
		if desc.RegNo == "" || desc.FullName == "" {
			report.Skipped++
			continue
		}
		st, err := svc.students.GetOrCreate(desc.RegNo, desc.FullName, rc.Level)
		if err != nil {
			svc.logger.Warn(fmt.Sprintf("register: skipping %s: %v", desc.RegNo, err))
			report.Skipped++
			continue
		}
		ce := CourseEntry{
			CourseCode:  rc.CourseCode,
			CourseTitle: rc.CourseTitle,
			UnitLoad:    rc.UnitLoad,
			External:    rc.External,
		}
		if _, err = svc.registerCourse(st, rc.Session, rc.Semester, rc.Level, ce); err != nil {
			svc.logger.Warn(fmt.Sprintf("register: skipping %s: %v", desc.RegNo, err))
			report.Skipped++
			continue
		}
		if err = svc.sessions.AddStudentToClass(cls.ID, st.ID); err != nil {
			svc.logger.Warn(fmt.Sprintf("register: class membership for %s: %v", desc.RegNo, err))
		}
		report.Updated++
	}

	if rc.External {
		_, err = svc.sessions.AddExternalCourse(session.NewExternalCourse{
			Session:     rc.Session,
			CourseCode:  rc.CourseCode,
			CourseTitle: rc.CourseTitle,
			UnitLoad:    rc.UnitLoad,
			Semester:    rc.Semester,
		})
		if err != nil {
			svc.logger.Warn(fmt.Sprintf("register: external catalog entry %s: %v", rc.CourseCode, err))
		}
	}
	return report, nil
}

// RegisterExternal registers a single externally-supervised course for an
// existing student; the student must already be enrolled.
func (svc *service) RegisterExternal(re RegisterExternal) (SemesterResult, error) {
	if _, err := svc.sessions.Get(re.Session); err != nil {
		return SemesterResult{}, err
	}
	st, err := svc.students.GetByRegNo(re.RegNo)
	if err != nil {
		return SemesterResult{}, err
	}
	cls, err := svc.sessions.EnsureClass(re.Session, re.Level)
	if err != nil {
		return SemesterResult{}, err
	}
	ce := CourseEntry{
		CourseCode:  re.CourseCode,
		CourseTitle: re.CourseTitle,
		UnitLoad:    re.UnitLoad,
		External:    re.External,
	}
	sr, err := svc.registerCourse(st, re.Session, re.Semester, re.Level, ce)
	if err != nil {
		return SemesterResult{}, err
	}
	if err = svc.sessions.AddStudentToClass(cls.ID, st.ID); err != nil {
		svc.logger.Warn(fmt.Sprintf("register external: class membership for %s: %v", re.RegNo, err))
	}

	if re.External {
		_, err = svc.sessions.AddExternalCourse(session.NewExternalCourse{
			Session:     re.Session,
			CourseCode:  re.CourseCode,
			CourseTitle: re.CourseTitle,
			UnitLoad:    re.UnitLoad,
			Semester:    re.Semester,
		})
		if err != nil {
			svc.logger.Warn(fmt.Sprintf("register external: catalog entry %s: %v", re.CourseCode, err))
		}
	}
	return sr, nil
}

// RecordScore records a CA/exam pair for one registered course and runs the
// full recompute cascade: semester GPA, session GPA (once the semester-2
// record exists), and CGPA. Scores cannot be recorded for unregistered
// courses. Every write completes before the call returns.
func (svc *service) RecordScore(sessionName string, semester int, courseCode string, entry ScoreEntry) (SemesterResult, error) {
	return svc.recordScore(sessionName, semester, courseCode, entry.RegNo, func(ce *CourseEntry) {
		ce.CA = entry.CA
		ce.Exam = entry.Exam
		ce.Total = entry.CA + entry.Exam
	})
}

// RecordScoreByTotal records a composite score, back-deriving the 30/70
// CA/exam split.
func (svc *service) RecordScoreByTotal(sessionName string, semester int, courseCode string, entry TotalEntry) (SemesterResult, error) {
	return svc.recordScore(sessionName, semester, courseCode, entry.RegNo, func(ce *CourseEntry) {
		ce.CA = core.Round2(0.3 * entry.Total)
		ce.Exam = core.Round2(0.7 * entry.Total)
		ce.Total = entry.Total
	})
}

func (svc *service) recordScore(sessionName string, semester int, courseCode, regNo string, apply func(*CourseEntry)) (SemesterResult, error) {
	st, err := svc.students.GetByRegNo(regNo)
	if err != nil {
		return SemesterResult{}, err
	}
	sr, err := svc.repo.GetResult(st.ID, sessionName, semester)
	if err != nil {
		return SemesterResult{}, err
	}
	ce, ok := sr.FindCourse(courseCode)
	if !ok {
		return SemesterResult{}, ErrCourseNotFound
	}

	apply(ce)
	ce.Grade = grading.GradePoint(ce.Total, grading.BandFor(ce.CourseCode))
	sr.GPA = SemesterGPA(&sr)

	if semester == 2 {
		sessionResults, err := svc.repo.QueryResultsByStudentSession(st.ID, sessionName)
		if err != nil {
			return SemesterResult{}, err
		}
		replaceResult(sessionResults, sr)
		sr.SessionGPA = SessionGPA(sessionResults)
	}

	sr.UpdatedAt = time.Now().UTC()
	sr, err = svc.repo.UpdateResult(sr)
	if err != nil {
		return SemesterResult{}, err
	}

	// CGPA is recomputed from full history on every score mutation.
	history, err := svc.repo.QueryResultsByStudent(st.ID)
	if err != nil {
		return SemesterResult{}, err
	}
	if _, err = svc.students.SetCGPA(st.ID, CGPA(history)); err != nil {
		return SemesterResult{}, err
	}
	return sr, nil
}

// replaceResult swaps the stored copy of an updated record into a freshly
// queried slice so aggregates see the in-flight mutation.
func replaceResult(results []SemesterResult, sr SemesterResult) {
	for i := range results {
		if results[i].ID == sr.ID {
			results[i] = sr
			return
		}
	}
}

// RecordScores enters scores for one course across many students. A missing
// student, record or course entry is logged and skipped; the batch continues.
func (svc *service) RecordScores(as AddScores) (BatchReport, error) {
	report := BatchReport{Processed: len(as.Students)}
	for _, entry := range as.Students {
		if _, err := svc.RecordScore(as.Session, as.Semester, as.CourseCode, entry); err != nil {
			svc.logger.Warn(fmt.Sprintf("scores: skipping %s: %v", entry.RegNo, err))
			report.Skipped++
			continue
		}
		report.Updated++
	}
	svc.pub.ScoresRecorded(as.Session, as.Semester, as.CourseCode, report.Updated)
	return report, nil
}

// RecordTotals is the composite-only bulk variant.
func (svc *service) RecordTotals(at AddTotals) (BatchReport, error) {
	report := BatchReport{Processed: len(at.Students)}
	for _, entry := range at.Students {
		if _, err := svc.RecordScoreByTotal(at.Session, at.Semester, at.CourseCode, entry); err != nil {
			svc.logger.Warn(fmt.Sprintf("totals: skipping %s: %v", entry.RegNo, err))
			report.Skipped++
			continue
		}
		report.Updated++
	}
	svc.pub.ScoresRecorded(at.Session, at.Semester, at.CourseCode, report.Updated)
	return report, nil
}

// RemoveCourse drops the entry matching the course code. GPA is not
// recomputed here; structural edits require an explicit Recompute.
func (svc *service) RemoveCourse(rm RemoveCourse) (SemesterResult, error) {
	st, err := svc.students.GetByRegNo(rm.RegNo)
	if err != nil {
		return SemesterResult{}, err
	}
	sr, err := svc.repo.GetResult(st.ID, rm.Session, rm.Semester)
	if err != nil {
		return SemesterResult{}, err
	}
	kept := make(CourseEntries, 0, len(sr.Courses))
	for _, ce := range sr.Courses {
		if !grading.SameCode(ce.CourseCode, rm.CourseCode) {
			kept = append(kept, ce)
		}
	}
	if len(kept) == len(sr.Courses) {
		return SemesterResult{}, ErrCourseNotFound
	}
	sr.Courses = kept
	sr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateResult(sr)
}

func (svc *service) RemoveSemester(regNo, sessionName string, semester int) error {
	st, err := svc.students.GetByRegNo(regNo)
	if err != nil {
		return err
	}
	sr, err := svc.repo.GetResult(st.ID, core.CleanString(sessionName), semester)
	if err != nil {
		return err
	}
	return svc.repo.DeleteResult(sr.ID)
}

func (svc *service) RemoveSession(regNo, sessionName string) error {
	st, err := svc.students.GetByRegNo(regNo)
	if err != nil {
		return err
	}
	deleted, err := svc.repo.DeleteResultsByStudentSession(st.ID, core.CleanString(sessionName))
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLevel overrides the recorded level of one semester record.
func (svc *service) UpdateLevel(regNo, sessionName string, semester, level int) (SemesterResult, error) {
	st, err := svc.students.GetByRegNo(regNo)
	if err != nil {
		return SemesterResult{}, err
	}
	sr, err := svc.repo.GetResult(st.ID, core.CleanString(sessionName), semester)
	if err != nil {
		return SemesterResult{}, err
	}
	sr.Level = level
	sr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateResult(sr)
}

// Publish marks every record of a (session, semester) as published and
// notifies the configured channels.
func (svc *service) Publish(sessionName string, semester int) (BatchReport, error) {
	results, err := svc.repo.QueryResults(QueryFilter{Session: core.CleanString(sessionName), Semester: semester})
	if err != nil {
		return BatchReport{}, err
	}
	report := BatchReport{Processed: len(results)}
	for _, sr := range results {
		if sr.Published {
			report.Skipped++
			continue
		}
		sr.Published = true
		sr.UpdatedAt = time.Now().UTC()
		if _, err = svc.repo.UpdateResult(sr); err != nil {
			svc.logger.Warn(fmt.Sprintf("publish: skipping %s: %v", sr.ID, err))
			report.Skipped++
			continue
		}
		report.Updated++
	}

	svc.pub.ResultsPublished(sessionName, semester, report.Updated)
	if svc.mailSvc != nil && svc.conf != nil && svc.conf.AdminEmail != "" {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:      []mail.Address{{Address: svc.conf.AdminEmail}},
			Subject: fmt.Sprintf("Results published: %s semester %d", sessionName, semester),
			Body:    fmt.Sprintf("%d of %d semester records were published.", report.Updated, report.Processed),
		})
	}
	return report, nil
}

// Recompute refreshes every stored aggregate for one student from the course
// entries: each semester GPA, each session GPA, and the CGPA. Used after
// structural edits that bypass the score cascade.
func (svc *service) Recompute(studentID string) error {
	history, err := svc.repo.QueryResultsByStudent(studentID)
	if err != nil {
		return err
	}

	bySession := make(map[string][]SemesterResult)
	for _, sr := range history {
		bySession[sr.Session] = append(bySession[sr.Session], sr)
	}

	for i := range history {
		sr := &history[i]
		sr.GPA = SemesterGPA(sr)
		if sr.Semester == 2 {
			sr.SessionGPA = SessionGPA(bySession[sr.Session])
		}
		sr.UpdatedAt = time.Now().UTC()
		if _, err = svc.repo.UpdateResult(*sr); err != nil {
			return err
		}
	}

	if _, err = svc.students.SetCGPA(studentID, CGPA(history)); err != nil {
		return err
	}
	return nil
}
