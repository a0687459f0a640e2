package recon

import (
	"fmt"
)

// BackfillGPA replays the aggregate recompute for every student, refreshing
// semester GPAs, session GPAs and CGPAs after manual data corrections.
func (svc *service) BackfillGPA() (Report, error) {
	students, err := svc.students.QueryAllStudents()
	if err != nil {
		return Report{}, err
	}

	report := Report{Processed: len(students)}
	for _, st := range students {
		if err := svc.resultsSvc.Recompute(st.ID); err != nil {
			svc.logger.Warn(fmt.Sprintf("backfill: skipping %s: %v", st.RegNo, err))
			report.Skipped++
			continue
		}
		report.Updated++
	}
	return report, nil
}
