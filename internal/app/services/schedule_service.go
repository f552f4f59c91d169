package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/esteban/tecplanner/internal/app/models"
	"github.com/esteban/tecplanner/internal/app/repositories"
	"github.com/esteban/tecplanner/internal/pkg/apperrors"
	"github.com/esteban/tecplanner/internal/pkg/validation"
)

// DefaultScheduleName names the schedule created automatically when
// the store holds none.
const DefaultScheduleName = "Mi Horario"

// RenameConfirmer confirms a schedule rename with an external party.
// The service applies the rename optimistically and rolls back when
// confirmation fails.
type RenameConfirmer interface {
	ConfirmRename(ctx context.Context, scheduleID, newName string) error
}

// RenameConfirmerFunc adapts a function to the RenameConfirmer interface.
type RenameConfirmerFunc func(ctx context.Context, scheduleID, newName string) error

// ConfirmRename implements RenameConfirmer.
func (f RenameConfirmerFunc) ConfirmRename(ctx context.Context, scheduleID, newName string) error {
	return f(ctx, scheduleID, newName)
}

// ScheduleService owns the schedule collection. All mutation goes
// through it; every successful mutation persists the full collection
// through the store. Courses become active only after passing the
// overlap check, so the set of active sessions in a schedule never
// overlaps in time.
type ScheduleService struct {
	mu        sync.Mutex
	schedules []models.Schedule
	currentID string
	renaming  map[string]bool

	store     repositories.ScheduleStore
	confirmer RenameConfirmer
	logger    zerolog.Logger
}

// NewScheduleService creates a new schedule service instance.
func NewScheduleService(store repositories.ScheduleStore, confirmer RenameConfirmer, logger zerolog.Logger) *ScheduleService {
	if confirmer == nil {
		confirmer = RenameConfirmerFunc(func(context.Context, string, string) error { return nil })
	}
	return &ScheduleService{
		renaming:  make(map[string]bool),
		store:     store,
		confirmer: confirmer,
		logger:    logger,
	}
}

// Load reads the persisted collection. When the store holds no
// schedules one is created so the planner always has a current
// schedule; the first schedule becomes current.
func (s *ScheduleService) Load(ctx context.Context) error {
	schedules, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("error loading schedules: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = schedules
	if len(s.schedules) == 0 {
		s.schedules = []models.Schedule{{
			ID:        uuid.New().String(),
			Name:      DefaultScheduleName,
			CreatedAt: time.Now(),
		}}
		if err := s.persistLocked(ctx); err != nil {
			return err
		}
	}
	s.currentID = s.schedules[0].ID
	s.logger.Info().Int("schedules", len(s.schedules)).Msg("Schedule collection loaded")
	return nil
}

// Schedules returns a deep copy of the collection.
func (s *ScheduleService) Schedules() []models.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneSchedules(s.schedules)
}

// CurrentSchedule returns a copy of the current schedule.
func (s *ScheduleService) CurrentSchedule() (models.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sched := s.findLocked(s.currentID)
	if sched == nil {
		return models.Schedule{}, apperrors.ErrScheduleNotFound
	}
	return sched.Clone(), nil
}

// SetCurrentSchedule switches the current-schedule pointer. The
// selection is transient and never persisted on its own.
func (s *ScheduleService) SetCurrentSchedule(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findLocked(id) == nil {
		return apperrors.ErrScheduleNotFound
	}
	s.currentID = id
	return nil
}

// CreateSchedule validates the name and appends a new empty schedule.
func (s *ScheduleService) CreateSchedule(ctx context.Context, name string) (models.Schedule, error) {
	if err := validation.ValidateScheduleName(name); err != nil {
		return models.Schedule{}, err
	}

	sched := models.Schedule{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = append(s.schedules, sched)
	if err := s.persistLocked(ctx); err != nil {
		s.schedules = s.schedules[:len(s.schedules)-1]
		return models.Schedule{}, err
	}
	if s.currentID == "" {
		s.currentID = sched.ID
	}
	return sched.Clone(), nil
}

// DeleteSchedule removes a schedule and all courses it owns. Deleting
// the current schedule reassigns the pointer to the first remaining
// schedule, or clears it when none remain.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.schedules {
		if s.schedules[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperrors.ErrScheduleNotFound
	}

	s.schedules = append(s.schedules[:idx], s.schedules[idx+1:]...)
	if s.currentID == id {
		if len(s.schedules) > 0 {
			s.currentID = s.schedules[0].ID
		} else {
			s.currentID = ""
		}
	}
	return s.persistLocked(ctx)
}

// RenameSchedule applies the new name optimistically, awaits remote
// confirmation, and restores the pre-rename snapshot when confirmation
// fails. Only one rename may be in flight per schedule; a second
// attempt is rejected rather than risk losing the rollback target.
func (s *ScheduleService) RenameSchedule(ctx context.Context, id, name string) error {
	if err := validation.ValidateScheduleName(name); err != nil {
		return err
	}

	s.mu.Lock()
	sched := s.findLocked(id)
	if sched == nil {
		s.mu.Unlock()
		return apperrors.ErrScheduleNotFound
	}
	if s.renaming[id] {
		s.mu.Unlock()
		return apperrors.ErrRenameInProgress
	}
	snapshot := models.CloneSchedules(s.schedules)
	sched.Name = strings.TrimSpace(name)
	s.renaming[id] = true
	s.mu.Unlock()

	err := s.confirmer.ConfirmRename(ctx, id, strings.TrimSpace(name))

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.renaming, id)
	if err != nil {
		s.schedules = snapshot
		s.logger.Warn().Str("scheduleId", id).Err(err).Msg("Rename confirmation failed, state restored")
		return apperrors.NewCustomError(apperrors.ErrRenameFailed, err.Error())
	}
	return s.persistLocked(ctx)
}

// AddCourse adds a single course to a schedule. A course added
// directly in the scheduled state must pass the overlap check first.
func (s *ScheduleService) AddCourse(ctx context.Context, scheduleID string, course models.Course) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched := s.findLocked(scheduleID)
	if sched == nil {
		return models.Course{}, apperrors.ErrScheduleNotFound
	}

	course = materialize(course)
	if course.IsScheduled {
		if err := checkConflicts(course, sched.Courses); err != nil {
			return models.Course{}, err
		}
	}

	sched.Courses = append(sched.Courses, course)
	if err := s.persistLocked(ctx); err != nil {
		sched.Courses = sched.Courses[:len(sched.Courses)-1]
		return models.Course{}, err
	}
	return course.Clone(), nil
}

// AddCourses bulk-imports scraped sections into a schedule. Imported
// courses always start pending; conflict checks run at activation
// time, never at import time.
func (s *ScheduleService) AddCourses(ctx context.Context, scheduleID string, scraped []models.ScrapedCourse) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched := s.findLocked(scheduleID)
	if sched == nil {
		return nil, apperrors.ErrScheduleNotFound
	}

	added := make([]models.Course, 0, len(scraped))
	for _, sc := range scraped {
		course := materialize(models.Course{ScrapedCourse: sc})
		sched.Courses = append(sched.Courses, course)
		added = append(added, course.Clone())
	}
	if err := s.persistLocked(ctx); err != nil {
		sched.Courses = sched.Courses[:len(sched.Courses)-len(added)]
		return nil, err
	}
	return added, nil
}

// UpdateCourse replaces a course wholesale. An update that leaves the
// course scheduled re-runs the overlap check against the other active
// courses; rejection leaves the prior state untouched.
func (s *ScheduleService) UpdateCourse(ctx context.Context, scheduleID string, course models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched := s.findLocked(scheduleID)
	if sched == nil {
		return apperrors.ErrScheduleNotFound
	}

	idx := findCourse(sched.Courses, course.ID)
	if idx < 0 {
		return apperrors.ErrCourseNotFound
	}

	if course.IsScheduled {
		if err := checkConflicts(course, sched.Courses); err != nil {
			return err
		}
	}

	previous := sched.Courses[idx]
	sched.Courses[idx] = course.Clone()
	if err := s.persistLocked(ctx); err != nil {
		sched.Courses[idx] = previous
		return err
	}
	return nil
}

// ToggleCourseStatus flips a course between pending and scheduled.
// pending to scheduled requires the overlap check; the reverse
// transition always succeeds.
func (s *ScheduleService) ToggleCourseStatus(ctx context.Context, scheduleID, courseID string) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, err := s.toggleLocked(scheduleID, courseID)
	if err != nil {
		return models.Course{}, err
	}
	if err := s.persistLocked(ctx); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// ToggleCourses applies the single-item toggle rule to each id in list
// order. A failure on one id does not roll back toggles already
// applied to earlier ids; the batch is explicitly not atomic.
func (s *ScheduleService) ToggleCourses(ctx context.Context, scheduleID string, courseIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, id := range courseIDs {
		if _, err := s.toggleLocked(scheduleID, id); err != nil {
			errs = append(errs, fmt.Errorf("course %s: %w", id, err))
		}
	}
	if err := s.persistLocked(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// RemoveCourse deletes one course from a schedule.
func (s *ScheduleService) RemoveCourse(ctx context.Context, scheduleID, courseID string) error {
	return s.RemoveCourses(ctx, scheduleID, []string{courseID})
}

// RemoveCourses deletes courses by id in list order. Unknown ids are
// reported but do not undo earlier removals.
func (s *ScheduleService) RemoveCourses(ctx context.Context, scheduleID string, courseIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched := s.findLocked(scheduleID)
	if sched == nil {
		return apperrors.ErrScheduleNotFound
	}

	var errs []error
	for _, id := range courseIDs {
		idx := findCourse(sched.Courses, id)
		if idx < 0 {
			errs = append(errs, fmt.Errorf("course %s: %w", id, apperrors.ErrCourseNotFound))
			continue
		}
		sched.Courses = append(sched.Courses[:idx], sched.Courses[idx+1:]...)
	}
	if err := s.persistLocked(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ImportCourses copies courses from a source schedule into a
// destination. Courses whose (name, group) pair already exists in the
// destination are excluded; when that excludes everything the import
// fails. Imported copies always start pending, whatever their state in
// the source.
func (s *ScheduleService) ImportCourses(ctx context.Context, sourceID, destID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	source := s.findLocked(sourceID)
	dest := s.findLocked(destID)
	if source == nil || dest == nil {
		return 0, apperrors.ErrScheduleNotFound
	}

	existing := map[string]bool{}
	for _, c := range dest.Courses {
		existing[c.Name+"|"+c.Group] = true
	}

	imported := 0
	for _, c := range source.Courses {
		if existing[c.Name+"|"+c.Group] {
			continue
		}
		copyCourse := c.Clone()
		copyCourse.ID = uuid.New().String()
		copyCourse.IsScheduled = false
		dest.Courses = append(dest.Courses, copyCourse)
		imported++
	}
	if imported == 0 {
		return 0, apperrors.ErrNothingToImport
	}
	if err := s.persistLocked(ctx); err != nil {
		dest.Courses = dest.Courses[:len(dest.Courses)-imported]
		return 0, err
	}
	return imported, nil
}

// --- internals ---

func (s *ScheduleService) findLocked(id string) *models.Schedule {
	for i := range s.schedules {
		if s.schedules[i].ID == id {
			return &s.schedules[i]
		}
	}
	return nil
}

func (s *ScheduleService) toggleLocked(scheduleID, courseID string) (models.Course, error) {
	sched := s.findLocked(scheduleID)
	if sched == nil {
		return models.Course{}, apperrors.ErrScheduleNotFound
	}
	idx := findCourse(sched.Courses, courseID)
	if idx < 0 {
		return models.Course{}, apperrors.ErrCourseNotFound
	}

	course := &sched.Courses[idx]
	if !course.IsScheduled {
		candidate := course.Clone()
		candidate.IsScheduled = true
		if err := checkConflicts(candidate, sched.Courses); err != nil {
			return models.Course{}, err
		}
	}
	course.IsScheduled = !course.IsScheduled
	return course.Clone(), nil
}

// persistLocked saves a deep copy of the collection. Callers hold the
// service mutex.
func (s *ScheduleService) persistLocked(ctx context.Context) error {
	if err := s.store.Save(ctx, models.CloneSchedules(s.schedules)); err != nil {
		return fmt.Errorf("error persisting schedules: %w", err)
	}
	return nil
}

// materialize gives a course and its sessions fresh identifiers where
// missing.
func materialize(course models.Course) models.Course {
	course = course.Clone()
	if course.ID == "" {
		course.ID = uuid.New().String()
	}
	for i := range course.Sessions {
		if course.Sessions[i].ID == "" {
			course.Sessions[i].ID = uuid.New().String()
		}
	}
	if course.Color == "" {
		course.Color = models.DefaultColor
	}
	if course.Campus == "" {
		course.Campus = models.DefaultCampus
	}
	return course
}

func findCourse(courses []models.Course, id string) int {
	for i := range courses {
		if courses[i].ID == id {
			return i
		}
	}
	return -1
}

// checkConflicts rejects a candidate course whose sessions would
// overlap any session of another active course in the same schedule.
// Two sessions conflict when they share a day and their half-open
// minute intervals overlap; touching boundaries do not conflict. The
// first conflict found, in candidate-session then course order, is the
// one reported.
func checkConflicts(candidate models.Course, courses []models.Course) error {
	for _, session := range candidate.Sessions {
		for _, other := range courses {
			if !other.IsScheduled || other.ID == candidate.ID {
				continue
			}
			for _, existing := range other.Sessions {
				if sessionsOverlap(session, existing) {
					return apperrors.NewScheduleConflictError(fmt.Sprintf(
						"course %q overlaps an active course on %s between %s and %s",
						candidate.Name, session.Day, session.StartTime, session.EndTime))
				}
			}
		}
	}
	return nil
}

func sessionsOverlap(a, b models.CourseSession) bool {
	if a.Day != b.Day {
		return false
	}
	return timeToMinutes(a.StartTime) < timeToMinutes(b.EndTime) &&
		timeToMinutes(a.EndTime) > timeToMinutes(b.StartTime)
}

// timeToMinutes converts HH:MM to minutes since midnight, -1 for
// malformed input.
func timeToMinutes(t string) int {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 {
		return -1
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return -1
	}
	return hour*60 + minute
}
