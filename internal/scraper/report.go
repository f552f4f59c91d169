package scraper

import (
	"time"

	"github.com/rs/zerolog"
)

// Issue codes recorded in attempt reports.
const (
	IssueStructureNotFound = "structure-not-found"
	IssueElementNotFound   = "element-not-found"
	IssueRowSkipped        = "row-skipped"
	IssueGroupRowsMissing  = "group-rows-missing"
	IssueUnexpectedError   = "unexpected-error"
)

// Schedule-attempt reasons. These strings surface in diagnostics and
// are part of the observable contract.
const (
	ReasonFormatNotRecognized = "format not recognized"
	ReasonScheduleEmpty       = "schedule empty"
)

// LogLevel classifies report log entries.
type LogLevel string

const (
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// LogEntry is one timestamped line of the scraping log.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   LogLevel  `json:"level"`
	Message string    `json:"message"`
}

// Issue is one recoverable problem encountered during a parse attempt.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ScheduleAttempt records whether a schedule could be extracted for one
// course row, and why not when it could not.
type ScheduleAttempt struct {
	Course string `json:"course"`
	Group  string `json:"group"`
	Found  bool   `json:"found"`
	Reason string `json:"reason,omitempty"`
}

// Report is the structured record of one scraping invocation.
type Report struct {
	StartedAt        time.Time         `json:"startedAt"`
	FinishedAt       time.Time         `json:"finishedAt"`
	Source           PageKind          `json:"source,omitempty"`
	MatchedSelector  string            `json:"matchedSelector,omitempty"`
	SelectorsTried   []string          `json:"selectorsTried,omitempty"`
	TotalRows        int               `json:"totalRows"`
	CoursesParsed    int               `json:"coursesParsed"`
	SchedulesFound   int               `json:"schedulesFound"`
	SchedulesMissing int               `json:"schedulesMissing"`
	ScheduleAttempts []ScheduleAttempt `json:"scheduleAttempts"`
	Issues           []Issue           `json:"issues"`
	Logs             []LogEntry        `json:"logs"`
}

// Clone returns a deep copy of the report.
func (r *Report) Clone() *Report {
	out := *r
	out.SelectorsTried = append([]string(nil), r.SelectorsTried...)
	out.ScheduleAttempts = append([]ScheduleAttempt(nil), r.ScheduleAttempts...)
	out.Issues = append([]Issue(nil), r.Issues...)
	out.Logs = append([]LogEntry(nil), r.Logs...)
	return &out
}

// recorder funnels every lifecycle event into the report, the logger
// and the optional host callback. Logging is side-effecting only; it
// never influences extraction outcomes.
type recorder struct {
	report *Report
	logger zerolog.Logger
	onLog  func(LogEntry)
}

func (rec *recorder) log(level LogLevel, message string) {
	entry := LogEntry{Time: time.Now(), Level: level, Message: message}
	rec.report.Logs = append(rec.report.Logs, entry)
	switch level {
	case LogWarn:
		rec.logger.Warn().Msg(message)
	case LogError:
		rec.logger.Error().Msg(message)
	default:
		rec.logger.Info().Msg(message)
	}
	if rec.onLog != nil {
		rec.onLog(entry)
	}
}

func (rec *recorder) info(message string)  { rec.log(LogInfo, message) }
func (rec *recorder) warn(message string)  { rec.log(LogWarn, message) }
func (rec *recorder) error(message string) { rec.log(LogError, message) }

// issue records a recoverable problem and emits it as a warning.
func (rec *recorder) issue(code, message string) {
	rec.report.Issues = append(rec.report.Issues, Issue{Code: code, Message: message})
	rec.warn(message)
}

// attempt records one per-row schedule extraction outcome and keeps the
// found/missing counters in step.
func (rec *recorder) attempt(a ScheduleAttempt) {
	rec.report.ScheduleAttempts = append(rec.report.ScheduleAttempts, a)
	if a.Found {
		rec.report.SchedulesFound++
	} else {
		rec.report.SchedulesMissing++
	}
}
