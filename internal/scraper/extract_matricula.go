package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/esteban/tecplanner/internal/app/models"
)

// Matricula group-row column layout. This dialect has no header row to
// remap; columns are fixed.
const (
	matriculaCampusCol    = 0
	matriculaGroupCol     = 1
	matriculaProfessorCol = 2
	matriculaQuotaCol     = 3
	matriculaReservedCol  = 4
	matriculaStatusCol    = 5
	matriculaScheduleCol  = 6
)

// detailRowPrefix prefixes a course code to form the id of the detail
// row paired with that course's primary row.
const detailRowPrefix = "trH"

// groupRowSelector locates the per-group rows nested inside a detail
// row.
const groupRowSelector = "table tr.trgrupo"

// extractMatriculaCourses walks the primary rows of a registration
// course table. Each primary row's id is the course code; its detail
// row (id trH<code>) nests one group row per offered section, and each
// group row is emitted as an independent course. Unlike the profile
// extractor there is no merge step: equivalent group rows stay
// separate, matching this format's cardinality.
func extractMatriculaCourses(doc *goquery.Document, root *goquery.Selection, rec *recorder) []models.ScrapedCourse {
	var courses []models.ScrapedCourse

	root.Find("tr").Each(func(_ int, row *goquery.Selection) {
		code, ok := row.Attr("id")
		if !ok || code == "" || strings.HasPrefix(code, detailRowPrefix) {
			return // detail rows and malformed primary rows are not reportable
		}

		title := NormalizeWhitespace(row.Find("td").Eq(1).Text())
		name := NormalizeWhitespace(code + " " + title)
		credits := ParseInteger(row.Find("td").Eq(2).Text(), 0)

		detailSelector := fmt.Sprintf("tr#%s%s", detailRowPrefix, code)
		detail := doc.Find(detailSelector)
		if detail.Length() == 0 {
			rec.issue(IssueElementNotFound, fmt.Sprintf("detail row %q not found for course %s", detailSelector, code))
			return
		}

		groupRows := detail.Find(groupRowSelector)
		if groupRows.Length() == 0 {
			rec.issue(IssueGroupRowsMissing, fmt.Sprintf("no group rows under detail row for course %s", code))
			return
		}

		groupRows.Each(func(_ int, groupRow *goquery.Selection) {
			rec.report.TotalRows++
			cells := groupRow.Find("td")
			cellText := func(i int) string {
				return NormalizeWhitespace(cells.Eq(i).Text())
			}

			scheduleHTML := ""
			if cell := cells.Eq(matriculaScheduleCol); cell.Length() > 0 {
				if inner, err := cell.Html(); err == nil {
					scheduleHTML = inner
				}
			}
			sessions := ParseMatriculaSessions(scheduleHTML)

			professorHTML := ""
			if cell := cells.Eq(matriculaProfessorCol); cell.Length() > 0 {
				if inner, err := cell.Html(); err == nil {
					professorHTML = inner
				}
			}

			group := cellText(matriculaGroupCol)
			courses = append(courses, models.ScrapedCourse{
				OriginalCode: code,
				Name:         name,
				Campus:       cellText(matriculaCampusCol),
				Group:        group,
				Professor:    firstTextLine(professorHTML),
				Credits:      credits,
				Quota:        ParseInteger(cellText(matriculaQuotaCol), 0),
				Reserved:     ParseReserved(cellText(matriculaReservedCol)),
				Status:       models.ParseCourseStatus(cellText(matriculaStatusCol)),
				Sessions:     sessions,
				Color:        models.DefaultColor,
			})

			attempt := ScheduleAttempt{Course: code, Group: group, Found: len(sessions) > 0}
			if !attempt.Found {
				if NormalizeWhitespace(tagRe.ReplaceAllString(scheduleHTML, "")) == "" {
					attempt.Reason = ReasonScheduleEmpty
				} else {
					attempt.Reason = ReasonFormatNotRecognized
				}
			}
			rec.attempt(attempt)
		})
	})

	return courses
}
