package recon

import (
	"github.com/wilsonXeem/school-results-management-system-server/core"
	"github.com/wilsonXeem/school-results-management-system-server/core/result"
	"github.com/wilsonXeem/school-results-management-system-server/core/student"
)

// Batch corrections for historical data drift. Each job is idempotent and
// independent of the others; re-running a job on clean data changes nothing.

type (
	// Report counts what a job touched.
	Report struct {
		Processed int `json:"processed"`
		Updated   int `json:"updated"`
		Skipped   int `json:"skipped"`
	}

	Service interface {
		// InferLevels recomputes each semester record's level from its
		// course codes.
		InferLevels(strategy Strategy) (Report, error)
		// MergeDuplicateStudents collapses students sharing a normalized
		// registration number into one identity.
		MergeDuplicateStudents() (Report, error)
		// CleanStudentNames strips leading non-letter characters from
		// student names.
		CleanStudentNames() (Report, error)
		// BackfillGPA recomputes every stored aggregate for every student.
		BackfillGPA() (Report, error)
	}

	service struct {
		results    result.Repository
		students   student.Repository
		resultsSvc result.Service
		logger     core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(
	results result.Repository,
	students student.Repository,
	resultsSvc result.Service,
	logger core.Logger,
) Service {
	return &service{
		results:    results,
		students:   students,
		resultsSvc: resultsSvc,
		logger:     logger,
	}
}
