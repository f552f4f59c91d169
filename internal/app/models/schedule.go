package models

import "time"

// Schedule is a named planning scenario owning an ordered list of
// courses. Courses are never shared between schedules.
type Schedule struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Courses   []Course  `json:"courses"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a deep copy of the schedule, safe to keep as a
// rollback snapshot while the original keeps mutating.
func (s Schedule) Clone() Schedule {
	out := s
	out.Courses = make([]Course, len(s.Courses))
	for i, c := range s.Courses {
		out.Courses[i] = c.Clone()
	}
	return out
}

// CloneSchedules deep-copies a full schedule collection.
func CloneSchedules(in []Schedule) []Schedule {
	out := make([]Schedule, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
