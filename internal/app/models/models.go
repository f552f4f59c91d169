package models

// Weekdays holds the seven canonical day names. Slice order is week
// order; the UI draws grid columns in this order.
var Weekdays = []string{
	"Lunes",
	"Martes",
	"Miércoles",
	"Jueves",
	"Viernes",
	"Sábado",
	"Domingo",
}

// CourseStatus defines the delivery modality of a course section
type CourseStatus string

const (
	StatusPresencial     CourseStatus = "Presencial"
	StatusVirtual        CourseStatus = "Virtual"
	StatusSemipresencial CourseStatus = "Semipresencial"
	StatusBimodal        CourseStatus = "Bimodal"
	StatusRegular        CourseStatus = "Regular"
)

// Sentinel values for fields the source pages often leave blank. These
// are part of the observable contract: exported data and the UI both
// show them verbatim.
const (
	NoClassroom   = "Sin aula"
	DefaultCampus = "Cartago"
	DefaultDay    = "Lunes"
	DefaultColor  = "#2563eb"
)

// ParseCourseStatus maps raw status text from the portal to a known
// modality. Unrecognized text falls back to Presencial.
func ParseCourseStatus(raw string) CourseStatus {
	switch CourseStatus(raw) {
	case StatusVirtual, StatusSemipresencial, StatusBimodal, StatusRegular:
		return CourseStatus(raw)
	default:
		return StatusPresencial
	}
}

// IsWeekday reports whether day is one of the seven canonical names.
func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}
