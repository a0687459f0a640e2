package probation_test

import (
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/wilsonXeem/school-results-management-system-server/core/probation"
	"github.com/wilsonXeem/school-results-management-system-server/core/result"
	"github.com/wilsonXeem/school-results-management-system-server/core/student"
	dummydb "github.com/wilsonXeem/school-results-management-system-server/storage/database/dummy"
	testutil "github.com/wilsonXeem/school-results-management-system-server/tests"
)

type testDeps struct {
	studentRepo student.Repository
	resultRepo  result.Repository
	svc         probation.Service
}

func setup(t *testing.T) testDeps {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	studentRepo := dummydb.NewStudentRepository(db)
	resultRepo := dummydb.NewResultRepository(db)
	students := student.NewService(studentRepo, testutil.NopLogger{})
	return testDeps{
		studentRepo: studentRepo,
		resultRepo:  resultRepo,
		svc:         probation.NewService(resultRepo, students, testutil.NopLogger{}),
	}
}

func createResult(t *testing.T, d testDeps, studentID, session string, semester, level int, gpa null.Float64, courses ...result.CourseEntry) {
	t.Helper()

	_, err := d.resultRepo.CreateResult(result.SemesterResult{
		StudentID:  studentID,
		Session:    session,
		Semester:   semester,
		Level:      level,
		SessionGPA: gpa,
		Courses:    courses,
	})
	if err != nil {
		t.Fatalf("CreateResult() failed: %v", err)
	}
}

func external(code string, total float64) result.CourseEntry {
	return result.CourseEntry{CourseCode: code, UnitLoad: 2, Total: total, External: true}
}

func Test_service_ProbationList_entryLevel(t *testing.T) {
	d := setup(t)

	// chm average (30+50)/2 = 40: on the floor, not below it
	passing := testutil.CreateStudent(t, d.studentRepo, "PSS/2020/001", "Awe Mde", 100)
	createResult(t, d, passing.ID, "2020-2021", 1, 100, null.Float64{}, external("CHM101", 30))
	createResult(t, d, passing.ID, "2020-2021", 2, 100, null.Float64From(1.0), external("CHM102", 50))

	// chm average (20+50)/2 = 35: flagged
	failing := testutil.CreateStudent(t, d.studentRepo, "PSS/2020/002", "King Solo", 100)
	createResult(t, d, failing.ID, "2020-2021", 1, 100, null.Float64{}, external("CHM101", 20))
	createResult(t, d, failing.ID, "2020-2021", 2, 100, null.Float64From(1.0), external("CHM102", 50))

	// non-foundational subjects never flag an entry-level student
	arts := testutil.CreateStudent(t, d.studentRepo, "PSS/2020/003", "Hero Mwa", 100)
	createResult(t, d, arts.ID, "2020-2021", 1, 100, null.Float64{}, external("ECO101", 10))
	createResult(t, d, arts.ID, "2020-2021", 2, 100, null.Float64From(1.0), external("ECO102", 15))

	entries, err := d.svc.ProbationList("2020-2021", 0)
	if err != nil {
		t.Fatalf("ProbationList() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Student.ID != failing.ID {
		t.Errorf("flagged %s, want %s", entries[0].Student.RegNo, failing.RegNo)
	}
	detail := entries[0].Detail
	if len(detail.Subjects) != 1 || detail.Subjects[0].Prefix != "chm" || detail.Subjects[0].Average != 35 {
		t.Errorf("detail.Subjects = %+v", detail.Subjects)
	}
}

func Test_service_ProbationList_gpaRule(t *testing.T) {
	d := setup(t)

	below := testutil.CreateStudent(t, d.studentRepo, "PSS/2018/001", "Awe Mde", 200)
	createResult(t, d, below.ID, "2020-2021", 2, 200, null.Float64From(2.49))

	onFloor := testutil.CreateStudent(t, d.studentRepo, "PSS/2018/002", "King Solo", 200)
	createResult(t, d, onFloor.ID, "2020-2021", 2, 200, null.Float64From(2.5))

	// an uncomputed session GPA never flags
	unset := testutil.CreateStudent(t, d.studentRepo, "PSS/2018/003", "Hero Mwa", 200)
	createResult(t, d, unset.ID, "2020-2021", 2, 200, null.Float64{})

	entries, err := d.svc.ProbationList("2020-2021", 0)
	if err != nil {
		t.Fatalf("ProbationList() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Student.ID != below.ID {
		t.Errorf("flagged %s, want %s", entries[0].Student.RegNo, below.RegNo)
	}
}

func Test_service_ProbationList_levelFilter(t *testing.T) {
	d := setup(t)

	l200 := testutil.CreateStudent(t, d.studentRepo, "PSS/2018/001", "Awe Mde", 200)
	createResult(t, d, l200.ID, "2020-2021", 2, 200, null.Float64From(1.5))

	l300 := testutil.CreateStudent(t, d.studentRepo, "PSS/2017/001", "King Solo", 300)
	createResult(t, d, l300.ID, "2020-2021", 2, 300, null.Float64From(1.5))

	entries, err := d.svc.ProbationList("2020-2021", 300)
	if err != nil {
		t.Fatalf("ProbationList() failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Student.ID != l300.ID {
		t.Errorf("entries = %+v, want only the 300-level student", entries)
	}
}

func Test_service_ErrorStudents(t *testing.T) {
	d := setup(t)

	// flagged in two distinct sessions
	repeat := testutil.CreateStudent(t, d.studentRepo, "PSS/2018/001", "Awe Mde", 300)
	createResult(t, d, repeat.ID, "2020-2021", 2, 200, null.Float64From(2.0))
	createResult(t, d, repeat.ID, "2021-2022", 2, 300, null.Float64From(1.8))

	// flagged once only
	once := testutil.CreateStudent(t, d.studentRepo, "PSS/2018/002", "King Solo", 300)
	createResult(t, d, once.ID, "2020-2021", 2, 200, null.Float64From(2.0))
	createResult(t, d, once.ID, "2021-2022", 2, 300, null.Float64From(3.5))

	errored, err := d.svc.ErrorStudents()
	if err != nil {
		t.Fatalf("ErrorStudents() failed: %v", err)
	}
	if len(errored) != 1 {
		t.Fatalf("len(errored) = %d, want 1", len(errored))
	}
	if errored[0].Student.ID != repeat.ID {
		t.Errorf("errored %s, want %s", errored[0].Student.RegNo, repeat.RegNo)
	}
	if len(errored[0].Sessions) != 2 {
		t.Errorf("len(Sessions) = %d, want 2", len(errored[0].Sessions))
	}
	if errored[0].Sessions[0].Session != "2020-2021" || errored[0].Sessions[1].Session != "2021-2022" {
		t.Errorf("sessions out of order: %+v", errored[0].Sessions)
	}
}
