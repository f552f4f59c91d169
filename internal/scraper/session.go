package scraper

import (
	"html"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/esteban/tecplanner/internal/app/models"
)

// sessionRe matches one day/time pattern as the portal prints it: a
// day token (letter code or full name) followed by two H:MM times.
// Hours and minutes may be single digits, and the separator between
// the two times varies between "-", ":", "a", "al" and "hasta"
// depending on the page generation.
var sessionRe = regexp.MustCompile(
	`(?i)(lunes|martes|mi[eé]rcoles|jueves|viernes|s[aá]bado|domingo|\b[lkmjvsd]\b)` +
		`\s*[-:]?\s*(\d{1,2}):(\d{1,2})\s*(?:-|:|hasta|al|a)\s*(\d{1,2}):(\d{1,2})`)

var (
	lineBreakRe = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</div>|</li>|</tr>`)
	tagRe       = regexp.MustCompile(`<[^>]*>`)
)

// ParseProfileSessions extracts every session from a free-text schedule
// string in the student-profile dialect. One string may carry several
// concatenated day/time patterns; all non-overlapping matches are
// returned. Unmatched text yields an empty slice, never an error.
func ParseProfileSessions(text string) []models.CourseSession {
	var sessions []models.CourseSession
	for _, match := range sessionRe.FindAllStringSubmatch(text, -1) {
		session, ok := sessionFromMatch(match)
		if !ok {
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions
}

// ParseMatriculaSessions extracts sessions from a schedule cell's inner
// HTML in the matricula dialect. Lines are separated by <br> or
// block-closing tags; a line matching the day/time pattern opens a new
// session and the next non-time line, when present, is its classroom.
// Repeated (day, start, end) triples within one cell collapse to the
// first occurrence, matching the profile extractor's de-duplication.
func ParseMatriculaSessions(innerHTML string) []models.CourseSession {
	var sessions []models.CourseSession
	var pending *models.CourseSession
	for _, line := range splitHTMLLines(innerHTML) {
		if line == "" {
			continue
		}
		if match := sessionRe.FindStringSubmatch(line); match != nil {
			session, ok := sessionFromMatch(match)
			if !ok {
				pending = nil
				continue
			}
			sessions = append(sessions, session)
			pending = &sessions[len(sessions)-1]
			continue
		}
		if pending != nil {
			pending.Classroom = line
			pending = nil
		}
	}
	return dedupeSessions(sessions)
}

// dedupeSessions drops sessions repeating an earlier (day, start, end)
// triple, keeping first occurrences in order.
func dedupeSessions(sessions []models.CourseSession) []models.CourseSession {
	if len(sessions) < 2 {
		return sessions
	}
	out := sessions[:0]
	for _, session := range sessions {
		duplicate := false
		for _, kept := range out {
			if kept.Day == session.Day && kept.StartTime == session.StartTime && kept.EndTime == session.EndTime {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, session)
		}
	}
	return out
}

// splitHTMLLines turns a cell's inner HTML into trimmed plain-text
// lines, treating <br> and block-closing tags as line breaks.
func splitHTMLLines(innerHTML string) []string {
	broken := lineBreakRe.ReplaceAllString(innerHTML, "\n")
	stripped := tagRe.ReplaceAllString(broken, "")
	lines := strings.Split(stripped, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, NormalizeWhitespace(html.UnescapeString(line)))
	}
	return out
}

func sessionFromMatch(match []string) (models.CourseSession, bool) {
	day := NormalizeDay(match[1])
	if day == "" {
		return models.CourseSession{}, false
	}
	start, ok := NormalizeTimeParts(match[2], match[3])
	if !ok {
		return models.CourseSession{}, false
	}
	end, ok := NormalizeTimeParts(match[4], match[5])
	if !ok {
		return models.CourseSession{}, false
	}
	return models.CourseSession{
		ID:        uuid.New().String(),
		Day:       day,
		StartTime: start,
		EndTime:   end,
		Classroom: models.NoClassroom,
	}, true
}
