package grading

import "math"

// CoursePoint is the (grade, weight) pair of one graded course.
type CoursePoint struct {
	Grade    int
	UnitLoad float64
}

// WeightedGPA computes the unit-weighted mean grade point over the given
// courses, rounded to 2 decimal places. It is 0 when the total unit load is
// 0. Intermediate sums are not rounded.
func WeightedGPA(points []CoursePoint) float64 {
	var totalPoints, totalUnits float64
	for _, p := range points {
		totalPoints += float64(p.Grade) * p.UnitLoad
		totalUnits += p.UnitLoad
	}
	if totalUnits == 0 {
		return 0
	}
	return math.Round(totalPoints/totalUnits*100) / 100
}
