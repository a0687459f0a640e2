package recon

import (
	"fmt"
	"regexp"
	"time"

	"github.com/wilsonXeem/school-results-management-system-server/core"
)

// leadingJunkPattern matches non-letter noise prepended to names by bad
// imports, eg. "1. JOHN DOE" or "- JANE ROE".
var leadingJunkPattern = regexp.MustCompile(`^[^A-Za-z]+`)

func (svc *service) CleanStudentNames() (Report, error) {
	students, err := svc.students.QueryAllStudents()
	if err != nil {
		return Report{}, err
	}

	report := Report{Processed: len(students)}
	for _, st := range students {
		cleaned := core.CleanString(leadingJunkPattern.ReplaceAllString(st.FullName, ""))
		if cleaned == "" || cleaned == st.FullName {
			report.Skipped++
			continue
		}
		st.FullName = cleaned
		st.UpdatedAt = time.Now().UTC()
		if _, err = svc.students.UpdateStudent(st); err != nil {
			svc.logger.Warn(fmt.Sprintf("clean names: skipping %s: %v", st.RegNo, err))
			report.Skipped++
			continue
		}
		report.Updated++
	}
	return report, nil
}
