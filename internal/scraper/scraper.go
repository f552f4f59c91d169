package scraper

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/esteban/tecplanner/internal/app/models"
)

// Options tunes one scraping invocation.
type Options struct {
	// Logger receives lifecycle and issue messages. Defaults to a
	// disabled logger when nil.
	Logger *zerolog.Logger
	// OnLogEntry, when set, receives every log entry the invocation
	// produces. Purely observational.
	OnLogEntry func(LogEntry)
	// FailOnStructureError makes a failed structural detection return
	// an error instead of an issue-bearing empty result.
	FailOnStructureError bool
}

// ParseTecHTML parses registration-portal markup and returns the
// extracted course sections, discarding the attempt report.
func ParseTecHTML(htmlContent string, opts *Options) ([]models.ScrapedCourse, error) {
	courses, _, err := ParseTecHTMLWithReport(htmlContent, opts)
	return courses, err
}

// ParseTecHTMLWithReport runs structural detection and row extraction
// over the supplied markup. The returned report is always populated,
// also on failure, and a snapshot of it is appended to the bounded
// in-memory history. The error is non-nil only when structural
// detection fails and FailOnStructureError is set; every other problem
// is downgraded to a report issue.
func ParseTecHTMLWithReport(htmlContent string, opts *Options) ([]models.ScrapedCourse, *Report, error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	report := &Report{StartedAt: time.Now()}
	rec := &recorder{report: report, logger: logger, onLog: opts.OnLogEntry}
	rec.info("scraping started")

	courses, err := parseDocument(htmlContent, rec)

	report.CoursesParsed = len(courses)
	report.FinishedAt = time.Now()
	rec.info(fmt.Sprintf("scraping finished: %d courses, %d schedules found, %d missing",
		report.CoursesParsed, report.SchedulesFound, report.SchedulesMissing))
	history.add(report)

	var structureErr *StructureError
	if errors.As(err, &structureErr) && opts.FailOnStructureError {
		return nil, report, err
	}
	return courses, report, nil
}

// parseDocument performs detection and extraction. It only returns an
// error for structural failures; everything else is recorded on the
// report and swallowed.
func parseDocument(htmlContent string, rec *recorder) (courses []models.ScrapedCourse, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec.issue(IssueUnexpectedError, fmt.Sprintf("unexpected failure during extraction: %v", r))
			courses, err = nil, nil
		}
	}()

	doc, parseErr := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if parseErr != nil {
		rec.issue(IssueUnexpectedError, fmt.Sprintf("could not parse document: %v", parseErr))
		return nil, nil
	}

	detection, detectErr := DetectStructure(doc)
	if detectErr != nil {
		var structureErr *StructureError
		if errors.As(detectErr, &structureErr) {
			rec.report.SelectorsTried = structureErr.SelectorsTried
			rec.report.Issues = append(rec.report.Issues, Issue{Code: IssueStructureNotFound, Message: detectErr.Error()})
			rec.error(detectErr.Error())
			return nil, detectErr
		}
		rec.issue(IssueUnexpectedError, detectErr.Error())
		return nil, nil
	}

	rec.report.Source = detection.Kind
	rec.report.MatchedSelector = detection.Selector
	rec.info(fmt.Sprintf("detected %s structure via %q", detection.Kind, detection.Selector))

	switch detection.Kind {
	case PageStudentProfile:
		courses = extractProfileCourses(detection.Root, rec)
	case PageMatricula:
		courses = extractMatriculaCourses(doc, detection.Root, rec)
	}
	return courses, nil
}
