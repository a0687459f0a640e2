package result

import (
	"github.com/volatiletech/null/v8"

	"github.com/wilsonXeem/school-results-management-system-server/core/grading"
)

// The three aggregation levels share one weighted-mean algorithm and one
// inclusion filter (grading.Approved). No incremental running sums are kept:
// every recompute goes back to the stored course entries so that out-of-order
// corrections can never leave a stale aggregate behind. Student history is
// bounded (~12 semesters), so the full scan is cheap.

// SemesterGPA is the weighted GPA over the approved entries of one record.
func SemesterGPA(sr *SemesterResult) float64 {
	return grading.WeightedGPA(sr.points())
}

// SessionGPA is the weighted GPA over the approved entries of both semesters
// of one (student, session) pair. It is only defined once the semester-2
// record exists and has at least one scored course; otherwise it is unset.
func SessionGPA(results []SemesterResult) null.Float64 {
	var sem2 *SemesterResult
	pts := make([]grading.CoursePoint, 0)
	for i := range results {
		if results[i].Semester == 2 {
			sem2 = &results[i]
		}
		pts = append(pts, results[i].points()...)
	}
	if sem2 == nil || !sem2.HasScoredCourse() {
		return null.Float64{}
	}
	return null.Float64From(grading.WeightedGPA(pts))
}

// CGPA is the weighted GPA over the approved entries of every semester
// result ever recorded for a student.
func CGPA(results []SemesterResult) float64 {
	pts := make([]grading.CoursePoint, 0)
	for i := range results {
		pts = append(pts, results[i].points()...)
	}
	return grading.WeightedGPA(pts)
}
