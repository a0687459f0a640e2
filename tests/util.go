package testutil

import (
	"testing"
	"time"

	"github.com/wilsonXeem/school-results-management-system-server/core"
	"github.com/wilsonXeem/school-results-management-system-server/core/session"
	"github.com/wilsonXeem/school-results-management-system-server/core/staff"
	"github.com/wilsonXeem/school-results-management-system-server/core/student"
)

// NopLogger discards everything; services under test log through it.
type NopLogger struct{}

var _ core.Logger = (*NopLogger)(nil)

func (NopLogger) Debug(msg string, args ...interface{}) {}
func (NopLogger) Info(msg string, args ...interface{})  {}
func (NopLogger) Warn(msg string, args ...interface{})  {}
func (NopLogger) Error(msg string, args ...interface{}) {}
func (NopLogger) Fatal(msg string, args ...interface{}) {}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	regNo, fullName string,
	level int,
) student.Student {
	t.Helper()

	now := time.Now().UTC()
	st, err := repo.CreateStudent(student.Student{
		RegNo:     regNo,
		FullName:  fullName,
		Level:     level,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}

func CreateSession(t *testing.T, svc session.Service, name string, current bool) session.Session {
	t.Helper()

	s, err := svc.Register(session.NewSession{Name: name, Current: current})
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	return s
}

func CreateStaff(
	t *testing.T,
	repo staff.Repository,
	name, email, pwd string,
	isAdmin bool,
) staff.Staff {
	t.Helper()

	now := time.Now().UTC()
	s := staff.Staff{
		Name:      name,
		Email:     email,
		IsAdmin:   isAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := s.SetPassword(pwd); err != nil {
			t.Fatalf("CreateStaff() failed: %v", err)
		}
	}
	s, err := repo.CreateStaff(s)
	if err != nil {
		t.Fatalf("CreateStaff() failed: %v", err)
	}
	return s
}

// TestConfig returns a self-contained configuration; nothing external is
// touched.
func TestConfig() *core.Config {
	return &core.Config{
		AppName:                   "SchoolResults",
		Env:                       "TEST",
		Debug:                     true,
		TestMode:                  true,
		SecretKey:                 "secret",
		FrontendBaseURL:           "http://localhost:3000",
		AdminEmail:                "admin@test.cd",
		JWTExpirationDelta:        10 * time.Minute,
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
	}
}
