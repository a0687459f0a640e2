// Package grading holds the grade policy: the mapping from raw scores to
// grade points, the course classification rules deciding which scoring band
// applies and which courses count towards GPA, and the weighted-mean used by
// every aggregation level (semester, session, cumulative).
package grading

import "fmt"

// Band is the scoring band a course is graded on.
type Band int

const (
	// BandStandard is the full 0-5 scale applied to courses taken outside
	// the faculty's own curriculum.
	BandStandard Band = iota
	// BandRestricted is the two-tier scale applied to a fixed allow-list of
	// course codes: full credit or nothing below 60.
	BandRestricted
	// BandInternal is the scale applied to the faculty's own (professional)
	// courses: no partial credit below 50.
	BandInternal
)

func (b Band) String() string {
	switch b {
	case BandStandard:
		return "standard"
	case BandRestricted:
		return "restricted"
	case BandInternal:
		return "internal"
	}
	return fmt.Sprintf("Band(%d)", int(b))
}

// GradePoint maps a 0-100 total score to an integer grade point in [0,5].
//
// Thresholds sit half a point below the integer cutoffs (69.49 admits scores
// that round to 69.5-70). This rounding buffer is intentional; do not
// simplify to integer comparisons.
//
// An unrecognized band is a programming error and panics.
func GradePoint(total float64, band Band) int {
	switch band {
	case BandStandard:
		switch {
		case total >= 69.49:
			return 5
		case total >= 59.49:
			return 4
		case total >= 49.49:
			return 3
		case total >= 44.49:
			return 2
		case total >= 39.49:
			return 1
		}
		return 0
	case BandRestricted:
		switch {
		case total >= 69.49:
			return 5
		case total >= 59.49:
			return 4
		}
		return 0
	case BandInternal:
		switch {
		case total >= 69.49:
			return 5
		case total >= 59.49:
			return 4
		case total >= 49.49:
			return 3
		}
		return 0
	}
	panic(fmt.Sprintf("grading: unknown band %d", int(band)))
}
