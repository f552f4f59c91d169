package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/esteban/tecplanner/internal/app/models"
)

// Logical fields of one profile table row.
const (
	fieldCode      = "code"
	fieldName      = "name"
	fieldCredits   = "credits"
	fieldGroup     = "group"
	fieldStatus    = "status"
	fieldProfessor = "professor"
	fieldSchedule  = "schedule"
	fieldClassroom = "classroom"
	fieldQuota     = "quota"
	fieldReserved  = "reserved"
	fieldPeriod    = "period"
)

// headerAliases maps normalized header-cell text to the logical field
// it carries. Headers the portal renders vary between terms, so several
// spellings map to the same field.
var headerAliases = map[string]string{
	"codigo":       fieldCode,
	"codigo curso": fieldCode,
	"curso":        fieldName,
	"nombre":       fieldName,
	"nombre curso": fieldName,
	"creditos":     fieldCredits,
	"grupo":        fieldGroup,
	"tipo grupo":   fieldStatus,
	"estado":       fieldStatus,
	"modalidad":    fieldStatus,
	"profesor":     fieldProfessor,
	"profesores":   fieldProfessor,
	"horario":      fieldSchedule,
	"aula":         fieldClassroom,
	"cupo":         fieldQuota,
	"cupos":        fieldQuota,
	"reservado":    fieldReserved,
	"reserva":      fieldReserved,
	"periodo":      fieldPeriod,
	"semestre":     fieldPeriod,
}

// positionalFallback gives each logical field its default column index,
// used when the header row is absent or does not name the field.
var positionalFallback = map[string]int{
	fieldCode:      0,
	fieldName:      1,
	fieldCredits:   2,
	fieldGroup:     3,
	fieldStatus:    4,
	fieldProfessor: 5,
	fieldSchedule:  6,
	fieldClassroom: 7,
	fieldQuota:     8,
	fieldReserved:  9,
	fieldPeriod:    10,
}

// classFallback is the last-resort per-row selector for each field.
var classFallback = map[string]string{
	fieldCode:      "td.codigo",
	fieldName:      "td.curso",
	fieldCredits:   "td.creditos",
	fieldGroup:     "td.grupo",
	fieldStatus:    "td.estado",
	fieldProfessor: "td.profesor",
	fieldSchedule:  "td.horario",
	fieldClassroom: "td.aula",
	fieldQuota:     "td.cupo",
	fieldReserved:  "td.reservado",
	fieldPeriod:    "td.periodo",
}

const minProfileCells = 5

// extractProfileCourses walks the rows of a student-profile schedule
// guide table. Rows sharing (code, group) merge into one course record,
// accumulating professors; sessions are de-duplicated by their
// (day, start, end) triple.
func extractProfileCourses(root *goquery.Selection, rec *recorder) []models.ScrapedCourse {
	columns := profileColumnMap(root)

	var courses []models.ScrapedCourse
	index := map[string]int{}

	root.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return // header or spacer row
		}
		rec.report.TotalRows++
		if cells.Length() < minProfileCells {
			rec.issue(IssueRowSkipped, fmt.Sprintf("row %d skipped: %d cells, expected at least %d",
				rec.report.TotalRows, cells.Length(), minProfileCells))
			return
		}

		read := func(field string) string {
			return profileCell(row, cells, columns, field)
		}

		code := NormalizeWhitespace(read(fieldCode))
		group := NormalizeWhitespace(read(fieldGroup))
		professor := NormalizeWhitespace(read(fieldProfessor))
		key := code + "|" + group

		pos, exists := index[key]
		if !exists {
			courses = append(courses, models.ScrapedCourse{
				OriginalCode: code,
				Name:         NormalizeWhitespace(read(fieldName)),
				Campus:       models.DefaultCampus, // profile pages never carry campus info
				Group:        group,
				Professor:    professor,
				Credits:      ParseInteger(read(fieldCredits), 0),
				Quota:        ParseInteger(read(fieldQuota), 0),
				Reserved:     ParseReserved(read(fieldReserved)),
				Status:       models.ParseCourseStatus(NormalizeWhitespace(read(fieldStatus))),
				Color:        models.DefaultColor,
			})
			pos = len(courses) - 1
			index[key] = pos
		} else if professor != "" {
			mergeProfessor(&courses[pos], professor)
		}
		course := &courses[pos]

		scheduleText := NormalizeWhitespace(read(fieldSchedule))
		sessions := ParseProfileSessions(scheduleText)
		if classroom := NormalizeWhitespace(read(fieldClassroom)); classroom != "" {
			for i := range sessions {
				sessions[i].Classroom = classroom
			}
		}
		for _, session := range sessions {
			if !course.HasSession(session) {
				course.Sessions = append(course.Sessions, session)
			}
		}

		attempt := ScheduleAttempt{Course: code, Group: group, Found: len(sessions) > 0}
		if !attempt.Found {
			if scheduleText == "" {
				attempt.Reason = ReasonScheduleEmpty
			} else {
				attempt.Reason = ReasonFormatNotRecognized
			}
		}
		rec.attempt(attempt)
	})

	return courses
}

// profileColumnMap builds the header-derived column-index map. A
// missing header row, or headers that match no alias, simply leave
// fields unmapped and the positional fallback takes over.
func profileColumnMap(root *goquery.Selection) map[string]int {
	columns := map[string]int{}
	root.Find("tr").First().Find("th").Each(func(i int, th *goquery.Selection) {
		if field, ok := headerAliases[NormalizeComparable(th.Text())]; ok {
			if _, taken := columns[field]; !taken {
				columns[field] = i
			}
		}
	})
	return columns
}

// profileCell resolves one logical field for a row: header-derived
// index first, then the fixed positional fallback, then the CSS-class
// fallback scoped to the row.
func profileCell(row *goquery.Selection, cells *goquery.Selection, columns map[string]int, field string) string {
	if idx, ok := columns[field]; ok && idx < cells.Length() {
		return cells.Eq(idx).Text()
	}
	if idx, ok := positionalFallback[field]; ok && idx < cells.Length() {
		return cells.Eq(idx).Text()
	}
	if selector, ok := classFallback[field]; ok {
		if cell := row.Find(selector); cell.Length() > 0 {
			return cell.First().Text()
		}
	}
	return ""
}

// mergeProfessor comma-appends a professor name unless it is already
// listed on the course.
func mergeProfessor(course *models.ScrapedCourse, professor string) {
	for _, existing := range strings.Split(course.Professor, ",") {
		if NormalizeComparable(existing) == NormalizeComparable(professor) {
			return
		}
	}
	if course.Professor == "" {
		course.Professor = professor
		return
	}
	course.Professor += ", " + professor
}
