package grading

import "testing"

func TestGradePoint(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		band  Band
		want  int
	}{
		// standard band
		{name: "standard: 100", total: 100, band: BandStandard, want: 5},
		{name: "standard: cutoff 69.49", total: 69.49, band: BandStandard, want: 5},
		{name: "standard: just below 69.49", total: 69.48, band: BandStandard, want: 4},
		{name: "standard: cutoff 59.49", total: 59.49, band: BandStandard, want: 4},
		{name: "standard: cutoff 49.49", total: 49.49, band: BandStandard, want: 3},
		{name: "standard: cutoff 44.49", total: 44.49, band: BandStandard, want: 2},
		{name: "standard: cutoff 39.49", total: 39.49, band: BandStandard, want: 1},
		{name: "standard: just below 39.49", total: 39.48, band: BandStandard, want: 0},
		{name: "standard: 0", total: 0, band: BandStandard, want: 0},

		// restricted band: no middle tiers
		{name: "restricted: 100", total: 100, band: BandRestricted, want: 5},
		{name: "restricted: cutoff 69.49", total: 69.49, band: BandRestricted, want: 5},
		{name: "restricted: cutoff 59.49", total: 59.49, band: BandRestricted, want: 4},
		{name: "restricted: just below 59.49", total: 59.48, band: BandRestricted, want: 0},
		{name: "restricted: 50", total: 50, band: BandRestricted, want: 0},

		// internal band: no credit below 50
		{name: "internal: 100", total: 100, band: BandInternal, want: 5},
		{name: "internal: cutoff 49.49", total: 49.49, band: BandInternal, want: 3},
		{name: "internal: just below 49.49", total: 49.48, band: BandInternal, want: 0},
		{name: "internal: 45", total: 45, band: BandInternal, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GradePoint(tt.total, tt.band); got != tt.want {
				t.Errorf("GradePoint(%v, %v) = %d, want %d", tt.total, tt.band, got, tt.want)
			}
		})
	}
}

func TestGradePoint_monotonic(t *testing.T) {
	for _, band := range []Band{BandStandard, BandRestricted, BandInternal} {
		prev := 0
		for total := 0.0; total <= 100; total += 0.01 {
			got := GradePoint(total, band)
			if got < prev {
				t.Fatalf("GradePoint(%v, %v) = %d dropped below %d", total, band, got, prev)
			}
			prev = got
		}
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		code string
		want Band
	}{
		{code: "pct224", want: BandRestricted},
		{code: "PCT422", want: BandRestricted}, // allow-list wins over catalog
		{code: "pct212", want: BandInternal},
		{code: " CPH512 ", want: BandInternal},
		{code: "chm101", want: BandStandard},
		{code: "gsp101", want: BandStandard},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := BandFor(tt.code); got != tt.want {
				t.Errorf("BandFor(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestApproved(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		external bool
		want     bool
	}{
		{name: "professional course", code: "pct212", want: true},
		{name: "professional course, uppercase", code: "PCL412", want: true},
		{name: "external course", code: "chm101", external: true, want: true},
		{name: "neither", code: "chm101", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Approved(tt.code, tt.external); got != tt.want {
				t.Errorf("Approved(%q, %v) = %v, want %v", tt.code, tt.external, got, tt.want)
			}
		})
	}
}

func TestSameCode(t *testing.T) {
	if !SameCode("PCT212", " pct212 ") {
		t.Error("SameCode() should ignore case and surrounding whitespace")
	}
	if SameCode("pct212", "pct222") {
		t.Error("SameCode() matched distinct codes")
	}
}

func TestWeightedGPA(t *testing.T) {
	tests := []struct {
		name   string
		points []CoursePoint
		want   float64
	}{
		{name: "no courses", points: nil, want: 0},
		{name: "zero unit load", points: []CoursePoint{{Grade: 5, UnitLoad: 0}}, want: 0},
		{
			name:   "single course",
			points: []CoursePoint{{Grade: 4, UnitLoad: 3}},
			want:   4,
		},
		{
			// (5*3 + 0*2) / 5
			name:   "weighted mean",
			points: []CoursePoint{{Grade: 5, UnitLoad: 3}, {Grade: 0, UnitLoad: 2}},
			want:   3,
		},
		{
			// (5*3 + 4*2 + 3*1) / 6 = 4.3333...
			name:   "rounded to 2 places",
			points: []CoursePoint{{Grade: 5, UnitLoad: 3}, {Grade: 4, UnitLoad: 2}, {Grade: 3, UnitLoad: 1}},
			want:   4.33,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeightedGPA(tt.points); got != tt.want {
				t.Errorf("WeightedGPA() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfessionalTitle(t *testing.T) {
	title, ok := ProfessionalTitle("PCT224")
	if !ok || title != "Pharmaceutical Calculations" {
		t.Errorf("ProfessionalTitle() = %q, %v", title, ok)
	}
	if _, ok = ProfessionalTitle("chm101"); ok {
		t.Error("ProfessionalTitle() found a non-professional code")
	}
}
