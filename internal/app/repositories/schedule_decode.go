package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/esteban/tecplanner/internal/app/models"
)

// storedCourse accepts both the current course shape and the legacy
// flat shape that predates per-course session lists.
type storedCourse struct {
	ID           string                 `json:"id"`
	OriginalCode string                 `json:"originalCode"`
	Name         string                 `json:"name"`
	Campus       string                 `json:"campus"`
	Group        string                 `json:"group"`
	Professor    string                 `json:"professor"`
	Credits      int                    `json:"credits"`
	Quota        int                    `json:"quota"`
	Reserved     bool                   `json:"reserved"`
	Status       string                 `json:"status"`
	Sessions     []models.CourseSession `json:"sessions"`
	Color        string                 `json:"color"`
	IsScheduled  *bool                  `json:"isScheduled"`

	// Legacy flat session fields
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Classroom string `json:"classroom"`
}

type storedSchedule struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Courses   []storedCourse `json:"courses"`
	CreatedAt time.Time      `json:"createdAt"`
}

// DecodeStoredSchedules decodes a persisted schedule document,
// migrating legacy records on the way in. Records that already carry a
// sessions array pass through, with isScheduled defaulting to true when
// absent (presence used to imply scheduled). Legacy flat records get a
// single session synthesized from their day/time/classroom fields and
// are marked scheduled.
func DecodeStoredSchedules(raw []byte) ([]models.Schedule, error) {
	var stored []storedSchedule
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("error decoding schedule document: %w", err)
	}

	schedules := make([]models.Schedule, len(stored))
	for i, ss := range stored {
		schedule := models.Schedule{
			ID:        ss.ID,
			Name:      ss.Name,
			CreatedAt: ss.CreatedAt,
			Courses:   make([]models.Course, len(ss.Courses)),
		}
		for j, sc := range ss.Courses {
			schedule.Courses[j] = migrateCourse(sc)
		}
		schedules[i] = schedule
	}
	return schedules, nil
}

func migrateCourse(sc storedCourse) models.Course {
	course := models.Course{
		ID: sc.ID,
		ScrapedCourse: models.ScrapedCourse{
			OriginalCode: sc.OriginalCode,
			Name:         sc.Name,
			Campus:       sc.Campus,
			Group:        sc.Group,
			Professor:    sc.Professor,
			Credits:      sc.Credits,
			Quota:        sc.Quota,
			Reserved:     sc.Reserved,
			Status:       models.ParseCourseStatus(sc.Status),
			Color:        sc.Color,
		},
	}
	if course.Color == "" {
		course.Color = models.DefaultColor
	}

	if sc.Sessions != nil {
		course.Sessions = sc.Sessions
		for i := range course.Sessions {
			if course.Sessions[i].ID == "" {
				course.Sessions[i].ID = uuid.New().String()
			}
		}
		// Presence of a record used to imply scheduled
		course.IsScheduled = sc.IsScheduled == nil || *sc.IsScheduled
		return course
	}

	session := models.CourseSession{
		ID:        uuid.New().String(),
		Day:       sc.Day,
		StartTime: sc.StartTime,
		EndTime:   sc.EndTime,
		Classroom: sc.Classroom,
	}
	if session.Day == "" {
		session.Day = models.DefaultDay
	}
	if session.StartTime == "" {
		session.StartTime = "00:00"
	}
	if session.EndTime == "" {
		session.EndTime = "00:00"
	}
	if session.Classroom == "" {
		session.Classroom = models.NoClassroom
	}
	course.Sessions = []models.CourseSession{session}
	course.IsScheduled = true
	return course
}
