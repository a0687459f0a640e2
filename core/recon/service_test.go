package recon_test

import (
	"errors"
	"testing"

	"github.com/wilsonXeem/school-results-management-system-server/core"
	"github.com/wilsonXeem/school-results-management-system-server/core/recon"
	"github.com/wilsonXeem/school-results-management-system-server/core/result"
	"github.com/wilsonXeem/school-results-management-system-server/core/session"
	"github.com/wilsonXeem/school-results-management-system-server/core/student"
	emailsvc "github.com/wilsonXeem/school-results-management-system-server/services/email"
	dummydb "github.com/wilsonXeem/school-results-management-system-server/storage/database/dummy"
	testutil "github.com/wilsonXeem/school-results-management-system-server/tests"
)

type testDeps struct {
	studentRepo student.Repository
	resultRepo  result.Repository
	svc         recon.Service
}

func setup(t *testing.T) testDeps {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	logger := testutil.NopLogger{}
	conf := testutil.TestConfig()
	studentRepo := dummydb.NewStudentRepository(db)
	resultRepo := dummydb.NewResultRepository(db)
	studentSvc := student.NewService(studentRepo, logger)
	sessionSvc := session.NewService(dummydb.NewSessionRepository(db))
	resultSvc := result.NewService(resultRepo, studentSvc, sessionSvc, emailsvc.NewConsoleServiceMock(conf), nil, logger, conf)

	return testDeps{
		studentRepo: studentRepo,
		resultRepo:  resultRepo,
		svc:         recon.NewService(resultRepo, studentRepo, resultSvc, logger),
	}
}

func createResult(t *testing.T, d testDeps, studentID, sessionName string, semester, level int, courses ...result.CourseEntry) result.SemesterResult {
	t.Helper()

	sr, err := d.resultRepo.CreateResult(result.SemesterResult{
		StudentID: studentID,
		Session:   sessionName,
		Semester:  semester,
		Level:     level,
		Courses:   courses,
	})
	if err != nil {
		t.Fatalf("CreateResult() failed: %v", err)
	}
	return sr
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		want    recon.Strategy
		wantErr bool
	}{
		{name: "", want: recon.MaxDigit},
		{name: "max", want: recon.MaxDigit},
		{name: "MODE", want: recon.ModeDigit},
		{name: "lol", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := recon.ParseStrategy(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStrategy(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseStrategy(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func Test_service_InferLevels(t *testing.T) {
	tests := []struct {
		name      string
		strategy  recon.Strategy
		codes     []string
		wantLevel int
	}{
		{name: "max picks highest digit", strategy: recon.MaxDigit, codes: []string{"PCT212", "PCT312", "GSP101"}, wantLevel: 300},
		{name: "mode picks most frequent", strategy: recon.ModeDigit, codes: []string{"PCT212", "PCH222", "PCT312"}, wantLevel: 200},
		{name: "mode tie goes to higher digit", strategy: recon.ModeDigit, codes: []string{"PCT212", "PCT312"}, wantLevel: 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setup(t)
			st := testutil.CreateStudent(t, d.studentRepo, "PSS/2020/001", "Awe Mde", 0)
			entries := make([]result.CourseEntry, 0, len(tt.codes))
			for _, code := range tt.codes {
				entries = append(entries, result.CourseEntry{CourseCode: code, UnitLoad: 2})
			}
			sr := createResult(t, d, st.ID, "2020-2021", 1, 0, entries...)

			report, err := d.svc.InferLevels(tt.strategy)
			if err != nil {
				t.Fatalf("InferLevels() failed: %v", err)
			}
			if report.Updated != 1 {
				t.Errorf("report = %+v, want 1 update", report)
			}
			refreshed, err := d.resultRepo.GetResultByID(sr.ID)
			if err != nil {
				t.Fatalf("GetResultByID() failed: %v", err)
			}
			if refreshed.Level != tt.wantLevel {
				t.Errorf("level = %d, want %d", refreshed.Level, tt.wantLevel)
			}
		})
	}
}

func Test_service_InferLevels_idempotent(t *testing.T) {
	d := setup(t)
	st := testutil.CreateStudent(t, d.studentRepo, "PSS/2020/001", "Awe Mde", 200)
	createResult(t, d, st.ID, "2020-2021", 1, 200, result.CourseEntry{CourseCode: "PCT212", UnitLoad: 3})

	report, err := d.svc.InferLevels(recon.MaxDigit)
	if err != nil {
		t.Fatalf("InferLevels() failed: %v", err)
	}
	if report.Updated != 0 || report.Skipped != 1 {
		t.Errorf("report = %+v, want everything skipped", report)
	}
}

func Test_service_MergeDuplicateStudents(t *testing.T) {
	d := setup(t)

	// primary carries the longer history
	primary := testutil.CreateStudent(t, d.studentRepo, "PSS/2020/001", "Awe Mde", 200)
	createResult(t, d, primary.ID, "2020-2021", 1, 200,
		result.CourseEntry{CourseCode: "PCT212", UnitLoad: 3, Total: 75, Grade: 5},
	)
	createResult(t, d, primary.ID, "2020-2021", 2, 200,
		result.CourseEntry{CourseCode: "PCT222", UnitLoad: 2, Total: 55, Grade: 3},
	)

	// same reg no with trailing space; one colliding record plus a unique one
	dup := testutil.CreateStudent(t, d.studentRepo, "PSS/2020/001 ", "Awe Mde", 200)
	createResult(t, d, dup.ID, "2020-2021", 1, 200,
		result.CourseEntry{CourseCode: "PCT212", UnitLoad: 3}, // duplicate code, dropped
		result.CourseEntry{CourseCode: "PCH212", UnitLoad: 2, Total: 65, Grade: 4},
	)

	// unrelated student stays untouched
	other := testutil.CreateStudent(t, d.studentRepo, "PSS/2020/002", "King Solo", 200)
	createResult(t, d, other.ID, "2020-2021", 1, 200, result.CourseEntry{CourseCode: "PCT212", UnitLoad: 3})

	report, err := d.svc.MergeDuplicateStudents()
	if err != nil {
		t.Fatalf("MergeDuplicateStudents() failed: %v", err)
	}
	if report.Updated != 1 {
		t.Errorf("report = %+v, want 1 merged", report)
	}

	// the duplicate identity is gone
	if _, err = d.studentRepo.GetStudentByID(dup.ID); !core.IsNotFound(err) {
		t.Errorf("duplicate student survived the merge: %v", err)
	}

	// the colliding record unioned course entries
	merged, err := d.resultRepo.GetResult(primary.ID, "2020-2021", 1)
	if err != nil {
		t.Fatalf("GetResult() failed: %v", err)
	}
	if len(merged.Courses) != 2 {
		t.Errorf("len(Courses) = %d, want 2", len(merged.Courses))
	}
	if _, ok := merged.FindCourse("PCH212"); !ok {
		t.Error("absorbed course entry missing")
	}

	// aggregates were recomputed for the primary
	refreshed, err := d.studentRepo.GetStudentByID(primary.ID)
	if err != nil {
		t.Fatalf("GetStudentByID() failed: %v", err)
	}
	// (5*3 + 4*2 + 3*2) / 7 = 4.14
	if refreshed.CGPA != 4.14 {
		t.Errorf("CGPA = %v, want 4.14", refreshed.CGPA)
	}

	// idempotent: nothing left to merge
	report, err = d.svc.MergeDuplicateStudents()
	if err != nil {
		t.Fatalf("MergeDuplicateStudents() failed: %v", err)
	}
	if report.Processed != 0 {
		t.Errorf("second run report = %+v, want nothing processed", report)
	}
}

// flakyResultRepo fails UpdateResult for one session, standing in for a
// transient store error mid-merge.
type flakyResultRepo struct {
	result.Repository
	failSession string
}

func (r flakyResultRepo) UpdateResult(sr result.SemesterResult) (result.SemesterResult, error) {
	if sr.Session == r.failSession {
		return result.SemesterResult{}, errors.New("store unavailable")
	}
	return r.Repository.UpdateResult(sr)
}

func Test_service_MergeDuplicateStudents_absorbFailure(t *testing.T) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	logger := testutil.NopLogger{}
	conf := testutil.TestConfig()
	studentRepo := dummydb.NewStudentRepository(db)
	resultRepo := flakyResultRepo{Repository: dummydb.NewResultRepository(db), failSession: "2021-2022"}
	studentSvc := student.NewService(studentRepo, logger)
	sessionSvc := session.NewService(dummydb.NewSessionRepository(db))
	resultSvc := result.NewService(resultRepo, studentSvc, sessionSvc, emailsvc.NewConsoleServiceMock(conf), nil, logger, conf)
	d := testDeps{
		studentRepo: studentRepo,
		resultRepo:  resultRepo,
		svc:         recon.NewService(resultRepo, studentRepo, resultSvc, logger),
	}

	primary := testutil.CreateStudent(t, d.studentRepo, "PSS/2020/001", "Awe Mde", 200)
	createResult(t, d, primary.ID, "2020-2021", 1, 200,
		result.CourseEntry{CourseCode: "PCT212", UnitLoad: 3, Total: 75, Grade: 5},
	)
	createResult(t, d, primary.ID, "2020-2021", 2, 200,
		result.CourseEntry{CourseCode: "PCT222", UnitLoad: 2, Total: 55, Grade: 3},
	)

	// the duplicate's only record lives in the session the store rejects
	dup := testutil.CreateStudent(t, d.studentRepo, "PSS/2020/001 ", "Awe Mde", 200)
	stranded := createResult(t, d, dup.ID, "2021-2022", 1, 200,
		result.CourseEntry{CourseCode: "PCH212", UnitLoad: 2, Total: 65, Grade: 4},
	)

	report, err := d.svc.MergeDuplicateStudents()
	if err != nil {
		t.Fatalf("MergeDuplicateStudents() failed: %v", err)
	}
	if report.Updated != 0 || report.Skipped != 1 {
		t.Errorf("report = %+v, want the duplicate skipped", report)
	}

	// the identity and its un-absorbed record both survive for the next run
	if _, err = d.studentRepo.GetStudentByID(dup.ID); err != nil {
		t.Errorf("GetStudentByID() failed: %v", err)
	}
	if _, err = d.resultRepo.GetResultByID(stranded.ID); err != nil {
		t.Errorf("GetResultByID() failed: %v", err)
	}
}

func Test_service_CleanStudentNames(t *testing.T) {
	d := setup(t)

	junk := testutil.CreateStudent(t, d.studentRepo, "PSS/2020/001", "1. Awe Mde", 200)
	clean := testutil.CreateStudent(t, d.studentRepo, "PSS/2020/002", "King Solo", 200)
	allJunk := testutil.CreateStudent(t, d.studentRepo, "PSS/2020/003", "123", 200)

	report, err := d.svc.CleanStudentNames()
	if err != nil {
		t.Fatalf("CleanStudentNames() failed: %v", err)
	}
	if report.Processed != 3 || report.Updated != 1 || report.Skipped != 2 {
		t.Errorf("report = %+v", report)
	}

	refreshed, _ := d.studentRepo.GetStudentByID(junk.ID)
	if refreshed.FullName != "Awe Mde" {
		t.Errorf("name = %q, want %q", refreshed.FullName, "Awe Mde")
	}
	refreshed, _ = d.studentRepo.GetStudentByID(clean.ID)
	if refreshed.FullName != "King Solo" {
		t.Errorf("clean name mutated to %q", refreshed.FullName)
	}
	refreshed, _ = d.studentRepo.GetStudentByID(allJunk.ID)
	if refreshed.FullName != "123" {
		t.Errorf("all-junk name mutated to %q", refreshed.FullName)
	}
}

func Test_service_BackfillGPA(t *testing.T) {
	d := setup(t)

	st := testutil.CreateStudent(t, d.studentRepo, "PSS/2020/001", "Awe Mde", 200)
	// stored aggregates are stale on purpose
	createResult(t, d, st.ID, "2020-2021", 1, 200,
		result.CourseEntry{CourseCode: "PCT212", UnitLoad: 3, Total: 75, Grade: 5},
	)

	report, err := d.svc.BackfillGPA()
	if err != nil {
		t.Fatalf("BackfillGPA() failed: %v", err)
	}
	if report.Updated != 1 {
		t.Errorf("report = %+v, want 1 update", report)
	}

	sr, err := d.resultRepo.GetResult(st.ID, "2020-2021", 1)
	if err != nil {
		t.Fatalf("GetResult() failed: %v", err)
	}
	if sr.GPA != 5 {
		t.Errorf("GPA = %v, want 5", sr.GPA)
	}
	refreshed, _ := d.studentRepo.GetStudentByID(st.ID)
	if refreshed.CGPA != 5 {
		t.Errorf("CGPA = %v, want 5", refreshed.CGPA)
	}
}
