package grading

// professionalCourses is the faculty's own curriculum: course code (lowercase)
// to title. Courses in this catalog are graded on the internal band (except
// the restricted allow-list) and always count towards GPA.
var professionalCourses = map[string]string{
	// 200 level
	"pct212": "Physical Pharmaceutics I",
	"pct222": "Introduction to Dispensing",
	"pct224": "Pharmaceutical Calculations",
	"pch212": "Pharmaceutical Inorganic Chemistry",
	"pch222": "Pharmaceutical Organic Chemistry I",
	"pcg212": "Introduction to Pharmacognosy",
	"pcg222": "Crude Drugs of Natural Origin",
	"pcl212": "General Pharmacology I",
	"pcl222": "General Pharmacology II",
	"pmb212": "Pharmaceutical Microbiology I",

	// 300 level
	"pct312": "Physical Pharmaceutics II",
	"pct322": "Dosage Form Design",
	"pch312": "Pharmaceutical Organic Chemistry II",
	"pch322": "Medicinal Chemistry I",
	"pcg312": "Phytochemical Methods",
	"pcg322": "Plant Constituents and Drug Action",
	"pcl312": "Systemic Pharmacology I",
	"pcl322": "Systemic Pharmacology II",
	"pmb312": "Pharmaceutical Microbiology II",
	"cph312": "Introduction to Clinical Pharmacy",

	// 400 level
	"pct412": "Pharmaceutical Technology I",
	"pct422": "Pharmaceutical Technology II",
	"pch412": "Medicinal Chemistry II",
	"pch422": "Pharmaceutical Analysis I",
	"pcg412": "Chemotaxonomy and Biogenesis",
	"pcg422": "Antibiotics and Natural Products",
	"pcl412": "Chemotherapy",
	"pcl422": "Toxicology",
	"pmb412": "Immunology and Vaccine Production",
	"cph412": "Hospital Pharmacy Practice",

	// 500 level
	"pct512": "Biopharmaceutics and Pharmacokinetics",
	"pct522": "Industrial Pharmacy",
	"pch512": "Pharmaceutical Analysis II",
	"pch522": "Drug Design and Development",
	"pcg512": "Applied Pharmacognosy",
	"pcl512": "Clinical Pharmacology",
	"cph512": "Pharmaceutical Care and Therapeutics",
	"cph522": "Pharmacy Law and Ethics",
	"pmb512": "Pharmaceutical Biotechnology",
	"pct532": "Research Project I",

	// 600 level
	"pct612": "Advanced Drug Delivery Systems",
	"pct622": "Research Project II",
	"cph612": "Clinical Pharmacy Clerkship",
	"cph622": "Pharmacoeconomics and Management",
	"pcl612": "Advanced Clinical Pharmacology",
	"pcg612": "Standardization of Herbal Medicines",
}

// restrictedCourses is the fixed allow-list graded on the restricted band.
var restrictedCourses = map[string]struct{}{
	"pct224": {},
	"pct422": {},
}
