package result_test

import (
	"testing"

	"github.com/wilsonXeem/school-results-management-system-server/core"
	"github.com/wilsonXeem/school-results-management-system-server/core/result"
	"github.com/wilsonXeem/school-results-management-system-server/core/session"
	"github.com/wilsonXeem/school-results-management-system-server/core/student"
	emailsvc "github.com/wilsonXeem/school-results-management-system-server/services/email"
	dummydb "github.com/wilsonXeem/school-results-management-system-server/storage/database/dummy"
	testutil "github.com/wilsonXeem/school-results-management-system-server/tests"
)

type testDeps struct {
	resultRepo result.Repository
	students   student.Service
	sessions   session.Service
	svc        result.Service
}

func setup(t *testing.T) testDeps {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}

	logger := testutil.NopLogger{}
	conf := testutil.TestConfig()
	studentSvc := student.NewService(dummydb.NewStudentRepository(db), logger)
	sessionSvc := session.NewService(dummydb.NewSessionRepository(db))
	resultRepo := dummydb.NewResultRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	return testDeps{
		resultRepo: resultRepo,
		students:   studentSvc,
		sessions:   sessionSvc,
		svc:        result.NewService(resultRepo, studentSvc, sessionSvc, mailSvc, nil, logger, conf),
	}
}

func registerCourse(t *testing.T, d testDeps, regNo, sessionName string, semester, level int, code string, unit float64, external bool) {
	t.Helper()

	report, err := d.svc.RegisterStudents(result.RegisterCourses{
		Students:    []student.Descriptor{{RegNo: regNo, FullName: "Test Student"}},
		Session:     sessionName,
		Semester:    semester,
		Level:       level,
		CourseCode:  code,
		CourseTitle: code,
		UnitLoad:    unit,
		External:    external,
	})
	if err != nil {
		t.Fatalf("RegisterStudents() failed: %v", err)
	}
	if report.Skipped > 0 {
		t.Fatalf("RegisterStudents() skipped %d", report.Skipped)
	}
}

func getResult(t *testing.T, d testDeps, regNo, sessionName string, semester int) result.SemesterResult {
	t.Helper()

	st, err := d.students.GetByRegNo(regNo)
	if err != nil {
		t.Fatalf("GetByRegNo(%s) failed: %v", regNo, err)
	}
	sr, err := d.resultRepo.GetResult(st.ID, sessionName, semester)
	if err != nil {
		t.Fatalf("GetResult() failed: %v", err)
	}
	return sr
}

func Test_service_RegisterStudents(t *testing.T) {
	d := setup(t)
	testutil.CreateSession(t, d.sessions, "2020-2021", true)

	rc := result.RegisterCourses{
		Students: []student.Descriptor{
			{RegNo: "PSS/2020/001", FullName: "Awe Mde"},
			{RegNo: "PSS/2020/002", FullName: "King Solo"},
			{RegNo: "", FullName: "No RegNo"},
		},
		Session:     "2020-2021",
		Semester:    1,
		Level:       200,
		CourseCode:  "PCT212",
		CourseTitle: "Physical Pharmaceutics I",
		UnitLoad:    3,
	}

	report, err := d.svc.RegisterStudents(rc)
	if err != nil {
		t.Fatalf("RegisterStudents() failed: %v", err)
	}
	if report.Processed != 3 || report.Updated != 2 || report.Skipped != 1 {
		t.Errorf("RegisterStudents() report = %+v", report)
	}

	// the student, the record shell and the course entry all exist
	st, err := d.students.GetByRegNo("PSS/2020/001")
	if err != nil {
		t.Fatalf("GetByRegNo() failed: %v", err)
	}
	if st.Level != 200 {
		t.Errorf("student level = %d, want 200", st.Level)
	}
	sr := getResult(t, d, "PSS/2020/001", "2020-2021", 1)
	if len(sr.Courses) != 1 {
		t.Fatalf("len(Courses) = %d, want 1", len(sr.Courses))
	}

	// re-registration with a different code casing is a no-op
	rc.CourseCode = " pct212 "
	if _, err = d.svc.RegisterStudents(rc); err != nil {
		t.Fatalf("RegisterStudents() failed: %v", err)
	}
	sr = getResult(t, d, "PSS/2020/001", "2020-2021", 1)
	if len(sr.Courses) != 1 {
		t.Errorf("re-registration duplicated the course entry: %d entries", len(sr.Courses))
	}

	// unknown session is rejected up front
	rc.Session = "2030-2031"
	if _, err = d.svc.RegisterStudents(rc); !core.IsNotFound(err) {
		t.Errorf("RegisterStudents() error = %v, want not found", err)
	}
}

func Test_service_RecordScore(t *testing.T) {
	d := setup(t)
	testutil.CreateSession(t, d.sessions, "2020-2021", true)
	registerCourse(t, d, "PSS/2020/001", "2020-2021", 1, 200, "PCT212", 3, false)
	registerCourse(t, d, "PSS/2020/001", "2020-2021", 1, 200, "GSP101", 2, false)

	sr, err := d.svc.RecordScore("2020-2021", 1, "pct212", result.ScoreEntry{
		RegNo: "PSS/2020/001", CA: 20, Exam: 55,
	})
	if err != nil {
		t.Fatalf("RecordScore() failed: %v", err)
	}

	ce, ok := sr.FindCourse("PCT212")
	if !ok {
		t.Fatal("course entry missing after scoring")
	}
	if ce.Total != 75 || ce.Grade != 5 {
		t.Errorf("entry total/grade = %v/%d, want 75/5", ce.Total, ce.Grade)
	}
	// gsp101 is unapproved: zero weight
	if sr.GPA != 5 {
		t.Errorf("GPA = %v, want 5", sr.GPA)
	}
	if sr.SessionGPA.Valid {
		t.Errorf("SessionGPA = %v, want unset before semester 2", sr.SessionGPA)
	}

	// CGPA cascades to the student record
	st, err := d.students.GetByRegNo("PSS/2020/001")
	if err != nil {
		t.Fatalf("GetByRegNo() failed: %v", err)
	}
	if st.CGPA != 5 {
		t.Errorf("CGPA = %v, want 5", st.CGPA)
	}

	// scoring an unregistered course is rejected
	_, err = d.svc.RecordScore("2020-2021", 1, "PCL412", result.ScoreEntry{RegNo: "PSS/2020/001", CA: 10, Exam: 50})
	if !core.IsNotFound(err) {
		t.Errorf("RecordScore() error = %v, want not found", err)
	}
}

func Test_service_RecordScoreByTotal(t *testing.T) {
	d := setup(t)
	testutil.CreateSession(t, d.sessions, "2020-2021", true)
	registerCourse(t, d, "PSS/2020/001", "2020-2021", 1, 200, "PCT212", 3, false)

	sr, err := d.svc.RecordScoreByTotal("2020-2021", 1, "PCT212", result.TotalEntry{
		RegNo: "PSS/2020/001", Total: 75,
	})
	if err != nil {
		t.Fatalf("RecordScoreByTotal() failed: %v", err)
	}

	ce, _ := sr.FindCourse("PCT212")
	if ce.CA != 22.5 || ce.Exam != 52.5 || ce.Total != 75 {
		t.Errorf("entry = CA %v, exam %v, total %v; want 22.5/52.5/75", ce.CA, ce.Exam, ce.Total)
	}
}

func Test_service_sessionGPACascade(t *testing.T) {
	d := setup(t)
	testutil.CreateSession(t, d.sessions, "2020-2021", true)
	registerCourse(t, d, "PSS/2020/001", "2020-2021", 1, 200, "PCT212", 3, false)
	registerCourse(t, d, "PSS/2020/001", "2020-2021", 2, 200, "PCT222", 2, false)

	if _, err := d.svc.RecordScore("2020-2021", 1, "PCT212", result.ScoreEntry{RegNo: "PSS/2020/001", CA: 20, Exam: 55}); err != nil {
		t.Fatalf("RecordScore() failed: %v", err)
	}

	sr, err := d.svc.RecordScore("2020-2021", 2, "PCT222", result.ScoreEntry{RegNo: "PSS/2020/001", CA: 15, Exam: 40})
	if err != nil {
		t.Fatalf("RecordScore() failed: %v", err)
	}

	// semester 2: total 55, internal band => grade 3, GPA 3
	if sr.GPA != 3 {
		t.Errorf("semester GPA = %v, want 3", sr.GPA)
	}
	// session GPA over both semesters: (5*3 + 3*2) / 5 = 4.2
	if !sr.SessionGPA.Valid || sr.SessionGPA.Float64 != 4.2 {
		t.Errorf("SessionGPA = %v, want 4.2", sr.SessionGPA)
	}

	st, err := d.students.GetByRegNo("PSS/2020/001")
	if err != nil {
		t.Fatalf("GetByRegNo() failed: %v", err)
	}
	if st.CGPA != 4.2 {
		t.Errorf("CGPA = %v, want 4.2", st.CGPA)
	}
}

func Test_service_RemoveCourse(t *testing.T) {
	d := setup(t)
	testutil.CreateSession(t, d.sessions, "2020-2021", true)
	registerCourse(t, d, "PSS/2020/001", "2020-2021", 1, 200, "PCT212", 3, false)
	registerCourse(t, d, "PSS/2020/001", "2020-2021", 1, 200, "PCT222", 2, false)

	if _, err := d.svc.RecordScore("2020-2021", 1, "PCT212", result.ScoreEntry{RegNo: "PSS/2020/001", CA: 20, Exam: 55}); err != nil {
		t.Fatalf("RecordScore() failed: %v", err)
	}
	if _, err := d.svc.RecordScore("2020-2021", 1, "PCT222", result.ScoreEntry{RegNo: "PSS/2020/001", CA: 15, Exam: 40}); err != nil {
		t.Fatalf("RecordScore() failed: %v", err)
	}

	// (5*3 + 3*2) / 5 = 4.2
	before := getResult(t, d, "PSS/2020/001", "2020-2021", 1)
	if before.GPA != 4.2 {
		t.Fatalf("GPA = %v, want 4.2", before.GPA)
	}

	sr, err := d.svc.RemoveCourse(result.RemoveCourse{
		RegNo: "PSS/2020/001", Session: "2020-2021", Semester: 1, CourseCode: " pct222 ",
	})
	if err != nil {
		t.Fatalf("RemoveCourse() failed: %v", err)
	}
	if len(sr.Courses) != 1 {
		t.Fatalf("len(Courses) = %d, want 1", len(sr.Courses))
	}

	// structural edits do not recompute; the stale aggregate stays until an
	// explicit Recompute
	if sr.GPA != 4.2 {
		t.Errorf("GPA after removal = %v, want stale 4.2", sr.GPA)
	}

	st, _ := d.students.GetByRegNo("PSS/2020/001")
	if err = d.svc.Recompute(st.ID); err != nil {
		t.Fatalf("Recompute() failed: %v", err)
	}
	after := getResult(t, d, "PSS/2020/001", "2020-2021", 1)
	if after.GPA != 5 {
		t.Errorf("GPA after recompute = %v, want 5", after.GPA)
	}

	// removing an absent course fails
	_, err = d.svc.RemoveCourse(result.RemoveCourse{
		RegNo: "PSS/2020/001", Session: "2020-2021", Semester: 1, CourseCode: "PCT222",
	})
	if !core.IsNotFound(err) {
		t.Errorf("RemoveCourse() error = %v, want not found", err)
	}
}

func Test_service_RemoveSession(t *testing.T) {
	d := setup(t)
	testutil.CreateSession(t, d.sessions, "2020-2021", true)
	registerCourse(t, d, "PSS/2020/001", "2020-2021", 1, 200, "PCT212", 3, false)
	registerCourse(t, d, "PSS/2020/001", "2020-2021", 2, 200, "PCT222", 2, false)

	if err := d.svc.RemoveSession("PSS/2020/001", "2020-2021"); err != nil {
		t.Fatalf("RemoveSession() failed: %v", err)
	}

	st, _ := d.students.GetByRegNo("PSS/2020/001")
	if _, err := d.resultRepo.GetResult(st.ID, "2020-2021", 1); !core.IsNotFound(err) {
		t.Errorf("semester 1 record survived removal: %v", err)
	}
	if _, err := d.resultRepo.GetResult(st.ID, "2020-2021", 2); !core.IsNotFound(err) {
		t.Errorf("semester 2 record survived removal: %v", err)
	}

	// nothing left to remove
	if err := d.svc.RemoveSession("PSS/2020/001", "2020-2021"); !core.IsNotFound(err) {
		t.Errorf("RemoveSession() error = %v, want not found", err)
	}
}

func Test_service_Publish(t *testing.T) {
	d := setup(t)
	testutil.CreateSession(t, d.sessions, "2020-2021", true)
	registerCourse(t, d, "PSS/2020/001", "2020-2021", 1, 200, "PCT212", 3, false)
	registerCourse(t, d, "PSS/2020/002", "2020-2021", 1, 200, "PCT212", 3, false)

	report, err := d.svc.Publish("2020-2021", 1)
	if err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if report.Processed != 2 || report.Updated != 2 || report.Skipped != 0 {
		t.Errorf("Publish() report = %+v", report)
	}
	sr := getResult(t, d, "PSS/2020/001", "2020-2021", 1)
	if !sr.Published {
		t.Error("record not marked published")
	}

	// second publish skips everything
	report, err = d.svc.Publish("2020-2021", 1)
	if err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if report.Updated != 0 || report.Skipped != 2 {
		t.Errorf("Publish() report = %+v", report)
	}
}

func Test_service_UpdateLevel(t *testing.T) {
	d := setup(t)
	testutil.CreateSession(t, d.sessions, "2020-2021", true)
	registerCourse(t, d, "PSS/2020/001", "2020-2021", 1, 200, "PCT212", 3, false)

	sr, err := d.svc.UpdateLevel("PSS/2020/001", "2020-2021", 1, 300)
	if err != nil {
		t.Fatalf("UpdateLevel() failed: %v", err)
	}
	if sr.Level != 300 {
		t.Errorf("level = %d, want 300", sr.Level)
	}
}
