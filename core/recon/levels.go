package recon

import (
	"fmt"
	"regexp"
	"time"

	"github.com/wilsonXeem/school-results-management-system-server/core"
)

// Strategy selects how a record's level is derived from its course codes.
type Strategy int

const (
	// MaxDigit takes the highest leading digit across the record's courses.
	// This is the canonical strategy: a student carrying over a lower-level
	// course is still at their highest registered level.
	MaxDigit Strategy = iota
	// ModeDigit takes the most frequent leading digit instead, with the
	// higher digit winning a frequency tie.
	ModeDigit
)

func (s Strategy) String() string {
	switch s {
	case MaxDigit:
		return "max"
	case ModeDigit:
		return "mode"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps a command-line strategy name.
func ParseStrategy(name string) (Strategy, error) {
	switch core.CleanString(name, true) {
	case "", "max":
		return MaxDigit, nil
	case "mode":
		return ModeDigit, nil
	}
	return MaxDigit, fmt.Errorf("unknown level strategy %q", name)
}

// levelDigitPattern captures the first digit following the leading letters of
// a course code, eg. "PCT224" -> 2.
var levelDigitPattern = regexp.MustCompile(`^[a-zA-Z]+([1-6])`)

func levelDigit(code string) (int, bool) {
	m := levelDigitPattern.FindStringSubmatch(core.CleanString(code))
	if m == nil {
		return 0, false
	}
	return int(m[1][0] - '0'), true
}

// inferLevel derives a level from course codes, or 0 when no code carries a
// usable digit.
func inferLevel(codes []string, strategy Strategy) int {
	switch strategy {
	case ModeDigit:
		counts := make(map[int]int)
		for _, code := range codes {
			if d, ok := levelDigit(code); ok {
				counts[d]++
			}
		}
		best, bestCount := 0, 0
		for d, n := range counts {
			if n > bestCount || (n == bestCount && d > best) {
				best, bestCount = d, n
			}
		}
		return best * 100
	default:
		max := 0
		for _, code := range codes {
			if d, ok := levelDigit(code); ok && d > max {
				max = d
			}
		}
		return max * 100
	}
}

func (svc *service) InferLevels(strategy Strategy) (Report, error) {
	results, err := svc.results.QueryAllResults()
	if err != nil {
		return Report{}, err
	}

	report := Report{Processed: len(results)}
	for i := range results {
		sr := results[i]
		codes := make([]string, 0, len(sr.Courses))
		for _, ce := range sr.Courses {
			codes = append(codes, ce.CourseCode)
		}
		level := inferLevel(codes, strategy)
		if level == 0 || level == sr.Level {
			report.Skipped++
			continue
		}
		sr.Level = level
		sr.UpdatedAt = time.Now().UTC()
		if _, err = svc.results.UpdateResult(sr); err != nil {
			svc.logger.Warn(fmt.Sprintf("infer levels: skipping %s: %v", sr.ID, err))
			report.Skipped++
			continue
		}
		report.Updated++
	}
	return report, nil
}
