package models

// CourseSession represents one weekly meeting of a course section.
type CourseSession struct {
	ID        string `json:"id"`
	Day       string `json:"day"`
	StartTime string `json:"startTime"` // 24-hour HH:MM
	EndTime   string `json:"endTime"`   // 24-hour HH:MM, lexically after StartTime
	Classroom string `json:"classroom"`
}

// ScrapedCourse is a freshly parsed section that has not been imported
// into any schedule yet. OriginalCode keeps the source system's course
// code and is used as the grouping key during extraction.
type ScrapedCourse struct {
	OriginalCode string          `json:"originalCode"`
	Name         string          `json:"name"`
	Campus       string          `json:"campus"`
	Group        string          `json:"group"`
	Professor    string          `json:"professor"`
	Credits      int             `json:"credits"`
	Quota        int             `json:"quota"`
	Reserved     bool            `json:"reserved"`
	Status       CourseStatus    `json:"status"`
	Sessions     []CourseSession `json:"sessions"`
	Color        string          `json:"color"`
}

// Course is a persisted section owned by exactly one schedule. ID is
// generated at add/import time and is distinct from OriginalCode.
// IsScheduled distinguishes pending pool entries (false) from active
// courses drawn on the grid and subject to conflict checks (true).
type Course struct {
	ID string `json:"id"`
	ScrapedCourse
	IsScheduled bool `json:"isScheduled"`
}

// Clone returns a deep copy of the course.
func (c Course) Clone() Course {
	out := c
	out.Sessions = make([]CourseSession, len(c.Sessions))
	copy(out.Sessions, c.Sessions)
	return out
}

// HasSession reports whether the course already carries a session with
// the same (day, start, end) triple.
func (c *ScrapedCourse) HasSession(s CourseSession) bool {
	for _, existing := range c.Sessions {
		if existing.Day == s.Day && existing.StartTime == s.StartTime && existing.EndTime == s.EndTime {
			return true
		}
	}
	return false
}
