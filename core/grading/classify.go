package grading

import "strings"

// normalize is the single normalization rule for course codes: every
// comparison in the system is done on the trimmed, lowercased code.
func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// IsProfessional reports whether the course code belongs to the faculty's
// own curriculum.
func IsProfessional(code string) bool {
	_, ok := professionalCourses[normalize(code)]
	return ok
}

// ProfessionalTitle returns the catalog title for a professional course code.
func ProfessionalTitle(code string) (string, bool) {
	title, ok := professionalCourses[normalize(code)]
	return title, ok
}

// BandFor selects the scoring band for a course code: the restricted
// allow-list wins over the professional catalog; everything else is graded
// on the standard band.
func BandFor(code string) Band {
	norm := normalize(code)
	if _, ok := restrictedCourses[norm]; ok {
		return BandRestricted
	}
	if _, ok := professionalCourses[norm]; ok {
		return BandInternal
	}
	return BandStandard
}

// Approved reports whether a course counts towards GPA/CGPA: it must either
// be part of the internal curriculum or have been registered as an approved
// external course. Courses failing both are stored and displayed but carry
// zero weight in every aggregate.
func Approved(code string, external bool) bool {
	return IsProfessional(code) || external
}

// SameCode compares two course codes under the system-wide normalization.
func SameCode(a, b string) bool {
	return normalize(a) == normalize(b)
}
