package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/esteban/tecplanner/internal/app/models"
	"github.com/esteban/tecplanner/internal/pkg/apperrors"
)

// stubStore is an in-memory ScheduleStore for service tests.
type stubStore struct {
	mu      sync.Mutex
	saves   int
	last    []models.Schedule
	loadRes []models.Schedule
	loadErr error
	saveErr error
}

func (s *stubStore) Load(ctx context.Context) ([]models.Schedule, error) {
	return s.loadRes, s.loadErr
}

func (s *stubStore) Save(ctx context.Context, schedules []models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.last = schedules
	return nil
}

func setupTestScheduleService(t *testing.T, confirmer RenameConfirmer) (*ScheduleService, *stubStore) {
	t.Helper()
	store := &stubStore{}
	svc := NewScheduleService(store, confirmer, zerolog.Nop())
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return svc, store
}

func session(day, start, end string) models.CourseSession {
	return models.CourseSession{ID: "s-" + day + start, Day: day, StartTime: start, EndTime: end, Classroom: models.NoClassroom}
}

func course(name, group string, scheduled bool, sessions ...models.CourseSession) models.Course {
	return models.Course{
		ScrapedCourse: models.ScrapedCourse{
			Name:     name,
			Group:    group,
			Sessions: sessions,
		},
		IsScheduled: scheduled,
	}
}

func TestLoad_CreatesDefaultSchedule(t *testing.T) {
	svc, store := setupTestScheduleService(t, nil)

	schedules := svc.Schedules()
	if len(schedules) != 1 {
		t.Fatalf("expected 1 schedule, got %d", len(schedules))
	}
	if schedules[0].Name != DefaultScheduleName {
		t.Errorf("default name = %q, want %q", schedules[0].Name, DefaultScheduleName)
	}
	current, err := svc.CurrentSchedule()
	if err != nil {
		t.Fatalf("CurrentSchedule failed: %v", err)
	}
	if current.ID != schedules[0].ID {
		t.Error("first schedule should become current")
	}
	if store.saves != 1 {
		t.Errorf("expected the auto-created schedule to be persisted, saves = %d", store.saves)
	}
}

func TestCreateSchedule_NameValidation(t *testing.T) {
	svc, _ := setupTestScheduleService(t, nil)

	cases := []struct {
		name    string
		message string
	}{
		{"", "schedule name cannot be empty"},
		{"  ", "schedule name cannot be empty"},
		{"ab", "schedule name must be at least 3 characters"},
		{strings.Repeat("a", 60), "schedule name must be at most 50 characters"},
		{"hola!", "schedule name may only contain letters, digits, spaces, hyphens and underscores"},
	}
	for _, tc := range cases {
		_, err := svc.CreateSchedule(context.Background(), tc.name)
		if err == nil {
			t.Errorf("CreateSchedule(%q) should fail", tc.name)
			continue
		}
		if !errors.Is(err, apperrors.ErrInvalidScheduleName) {
			t.Errorf("CreateSchedule(%q) error = %v, want ErrInvalidScheduleName", tc.name, err)
		}
		if got := err.Error(); got != tc.message {
			t.Errorf("CreateSchedule(%q) message = %q, want %q", tc.name, got, tc.message)
		}
	}
}

func TestCreateSchedule_RollsBackOnPersistFailure(t *testing.T) {
	svc, store := setupTestScheduleService(t, nil)
	store.saveErr = errors.New("db down")

	if _, err := svc.CreateSchedule(context.Background(), "Plan B"); err == nil {
		t.Fatal("expected persist failure to surface")
	}
	if got := len(svc.Schedules()); got != 1 {
		t.Errorf("collection should be rolled back, have %d schedules", got)
	}
}

func TestAddCourse_RejectsOverlapWithActiveCourse(t *testing.T) {
	svc, _ := setupTestScheduleService(t, nil)
	schedID := svc.Schedules()[0].ID

	if _, err := svc.AddCourse(context.Background(), schedID,
		course("Cálculo", "01", true, session("Lunes", "07:00", "09:50"))); err != nil {
		t.Fatalf("first course should be accepted: %v", err)
	}

	_, err := svc.AddCourse(context.Background(), schedID,
		course("Física", "01", true, session("Lunes", "09:00", "11:50")))
	if !errors.Is(err, apperrors.ErrScheduleConflict) {
		t.Fatalf("expected ErrScheduleConflict, got %v", err)
	}
	want := `course "Física" overlaps an active course on Lunes between 09:00 and 11:50`
	if err.Error() != want {
		t.Errorf("conflict message = %q, want %q", err.Error(), want)
	}
}

func TestAddCourse_BoundaryTouchDoesNotConflict(t *testing.T) {
	svc, _ := setupTestScheduleService(t, nil)
	schedID := svc.Schedules()[0].ID

	if _, err := svc.AddCourse(context.Background(), schedID,
		course("Cálculo", "01", true, session("Lunes", "07:00", "09:50"))); err != nil {
		t.Fatalf("first course: %v", err)
	}
	if _, err := svc.AddCourse(context.Background(), schedID,
		course("Física", "01", true, session("Lunes", "09:50", "11:40"))); err != nil {
		t.Errorf("back-to-back sessions must not conflict: %v", err)
	}
	if _, err := svc.AddCourse(context.Background(), schedID,
		course("Química", "01", true, session("Martes", "07:00", "09:50"))); err != nil {
		t.Errorf("same times on another day must not conflict: %v", err)
	}
}

func TestAddCourse_PendingSkipsConflictCheck(t *testing.T) {
	svc, _ := setupTestScheduleService(t, nil)
	schedID := svc.Schedules()[0].ID

	if _, err := svc.AddCourse(context.Background(), schedID,
		course("Cálculo", "01", true, session("Lunes", "07:00", "09:50"))); err != nil {
		t.Fatalf("first course: %v", err)
	}
	added, err := svc.AddCourse(context.Background(), schedID,
		course("Física", "01", false, session("Lunes", "07:00", "09:50")))
	if err != nil {
		t.Fatalf("pending course must be accepted regardless of overlap: %v", err)
	}
	if added.ID == "" || added.Color != models.DefaultColor || added.Campus != models.DefaultCampus {
		t.Errorf("course not materialized: id %q color %q campus %q", added.ID, added.Color, added.Campus)
	}
}

func TestToggleCourseStatus_ActivationRunsConflictCheck(t *testing.T) {
	svc, _ := setupTestScheduleService(t, nil)
	schedID := svc.Schedules()[0].ID

	active, err := svc.AddCourse(context.Background(), schedID,
		course("Cálculo", "01", true, session("Lunes", "07:00", "09:50")))
	if err != nil {
		t.Fatal(err)
	}
	pending, err := svc.AddCourse(context.Background(), schedID,
		course("Física", "01", false, session("Lunes", "08:00", "10:50")))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.ToggleCourseStatus(context.Background(), schedID, pending.ID); !errors.Is(err, apperrors.ErrScheduleConflict) {
		t.Fatalf("activation over an active overlap should conflict, got %v", err)
	}

	// Deactivation always succeeds; then the pending course can activate.
	toggled, err := svc.ToggleCourseStatus(context.Background(), schedID, active.ID)
	if err != nil {
		t.Fatalf("deactivation failed: %v", err)
	}
	if toggled.IsScheduled {
		t.Error("course should now be pending")
	}
	if _, err := svc.ToggleCourseStatus(context.Background(), schedID, pending.ID); err != nil {
		t.Errorf("activation should succeed once the overlap is inactive: %v", err)
	}
}

func TestUpdateCourse_ExcludesSelfFromConflictCheck(t *testing.T) {
	svc, _ := setupTestScheduleService(t, nil)
	schedID := svc.Schedules()[0].ID

	added, err := svc.AddCourse(context.Background(), schedID,
		course("Cálculo", "01", true, session("Lunes", "07:00", "09:50")))
	if err != nil {
		t.Fatal(err)
	}

	// Shifting the course into its own old window must not self-conflict.
	updated := added.Clone()
	updated.Sessions[0].StartTime = "08:00"
	updated.Sessions[0].EndTime = "10:50"
	if err := svc.UpdateCourse(context.Background(), schedID, updated); err != nil {
		t.Errorf("update overlapping only itself should pass: %v", err)
	}
}

func TestToggleCourses_NotAtomic(t *testing.T) {
	svc, _ := setupTestScheduleService(t, nil)
	schedID := svc.Schedules()[0].ID

	a, _ := svc.AddCourse(context.Background(), schedID,
		course("Cálculo", "01", false, session("Lunes", "07:00", "09:50")))
	b, _ := svc.AddCourse(context.Background(), schedID,
		course("Física", "01", false, session("Lunes", "08:00", "10:50")))

	err := svc.ToggleCourses(context.Background(), schedID, []string{a.ID, b.ID})
	if err == nil {
		t.Fatal("second activation should fail against the first")
	}
	if !errors.Is(err, apperrors.ErrScheduleConflict) {
		t.Errorf("joined error should carry the conflict: %v", err)
	}

	// The first toggle stays applied.
	current, _ := svc.CurrentSchedule()
	for _, c := range current.Courses {
		if c.ID == a.ID && !c.IsScheduled {
			t.Error("earlier toggle should not be rolled back")
		}
		if c.ID == b.ID && c.IsScheduled {
			t.Error("failed toggle should leave the course pending")
		}
	}
}

func TestRemoveCourses_ReportsUnknownIDs(t *testing.T) {
	svc, _ := setupTestScheduleService(t, nil)
	schedID := svc.Schedules()[0].ID

	a, _ := svc.AddCourse(context.Background(), schedID, course("Cálculo", "01", false))

	err := svc.RemoveCourses(context.Background(), schedID, []string{a.ID, "missing"})
	if !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound in joined error, got %v", err)
	}
	current, _ := svc.CurrentSchedule()
	if len(current.Courses) != 0 {
		t.Error("known id should still be removed")
	}
}

func TestImportCourses_DeduplicatesByNameAndGroup(t *testing.T) {
	svc, _ := setupTestScheduleService(t, nil)
	sourceID := svc.Schedules()[0].ID
	dest, err := svc.CreateSchedule(context.Background(), "Plan B")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AddCourse(context.Background(), sourceID,
		course("Cálculo", "01", true, session("Lunes", "07:00", "09:50"))); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddCourse(context.Background(), sourceID, course("Física", "02", false)); err != nil {
		t.Fatal(err)
	}
	// Destination already holds Cálculo group 01.
	if _, err := svc.AddCourse(context.Background(), dest.ID, course("Cálculo", "01", false)); err != nil {
		t.Fatal(err)
	}

	imported, err := svc.ImportCourses(context.Background(), sourceID, dest.ID)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if imported != 1 {
		t.Errorf("imported = %d, want 1", imported)
	}

	for _, sched := range svc.Schedules() {
		if sched.ID != dest.ID {
			continue
		}
		if len(sched.Courses) != 2 {
			t.Fatalf("destination courses = %d, want 2", len(sched.Courses))
		}
		for _, c := range sched.Courses {
			if c.IsScheduled {
				t.Errorf("imported course %q should start pending", c.Name)
			}
		}
	}

	// Everything is a duplicate now.
	if _, err := svc.ImportCourses(context.Background(), sourceID, dest.ID); !errors.Is(err, apperrors.ErrNothingToImport) {
		t.Errorf("expected ErrNothingToImport, got %v", err)
	}
}

func TestRenameSchedule_RollsBackOnConfirmationFailure(t *testing.T) {
	confirmer := RenameConfirmerFunc(func(ctx context.Context, id, name string) error {
		return errors.New("remote said no")
	})
	svc, _ := setupTestScheduleService(t, confirmer)
	schedID := svc.Schedules()[0].ID

	err := svc.RenameSchedule(context.Background(), schedID, "Nuevo Nombre")
	if !errors.Is(err, apperrors.ErrRenameFailed) {
		t.Fatalf("expected ErrRenameFailed, got %v", err)
	}
	if got := svc.Schedules()[0].Name; got != DefaultScheduleName {
		t.Errorf("name after rollback = %q, want %q", got, DefaultScheduleName)
	}
}

func TestRenameSchedule_RollbackRestoresWholeCollection(t *testing.T) {
	release := make(chan struct{})
	confirmer := RenameConfirmerFunc(func(ctx context.Context, id, name string) error {
		<-release
		return errors.New("remote said no")
	})
	svc, _ := setupTestScheduleService(t, confirmer)
	schedID := svc.Schedules()[0].ID

	done := make(chan error, 1)
	go func() { done <- svc.RenameSchedule(context.Background(), schedID, "Nuevo Nombre") }()

	// While the rename is in flight the optimistic name is visible and a
	// second rename of the same schedule is rejected.
	for svc.Schedules()[0].Name != "Nuevo Nombre" {
		time.Sleep(time.Millisecond)
	}
	if err := svc.RenameSchedule(context.Background(), schedID, "Otro Nombre"); !errors.Is(err, apperrors.ErrRenameInProgress) {
		t.Errorf("expected ErrRenameInProgress, got %v", err)
	}

	// A concurrent mutation lands between snapshot and rollback; the
	// rollback restores the snapshot, losing it. That is the documented
	// trade-off of full-collection snapshots.
	if _, err := svc.CreateSchedule(context.Background(), "Plan B"); err != nil {
		t.Fatal(err)
	}

	close(release)
	if err := <-done; !errors.Is(err, apperrors.ErrRenameFailed) {
		t.Fatalf("expected ErrRenameFailed, got %v", err)
	}

	schedules := svc.Schedules()
	if len(schedules) != 1 {
		t.Fatalf("rollback should restore the snapshot collection, have %d schedules", len(schedules))
	}
	if schedules[0].Name != DefaultScheduleName {
		t.Errorf("name after rollback = %q, want %q", schedules[0].Name, DefaultScheduleName)
	}
}

func TestDeleteSchedule_ReassignsCurrentPointer(t *testing.T) {
	svc, _ := setupTestScheduleService(t, nil)
	first := svc.Schedules()[0]
	second, err := svc.CreateSchedule(context.Background(), "Plan B")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteSchedule(context.Background(), first.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	current, err := svc.CurrentSchedule()
	if err != nil {
		t.Fatalf("current after delete: %v", err)
	}
	if current.ID != second.ID {
		t.Errorf("current = %s, want reassignment to %s", current.ID, second.ID)
	}

	if err := svc.DeleteSchedule(context.Background(), second.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.CurrentSchedule(); !errors.Is(err, apperrors.ErrScheduleNotFound) {
		t.Errorf("no current schedule should remain, got %v", err)
	}
}

func TestAddCourses_AlwaysPending(t *testing.T) {
	svc, _ := setupTestScheduleService(t, nil)
	schedID := svc.Schedules()[0].ID

	scraped := []models.ScrapedCourse{
		{Name: "Cálculo", Group: "01", Sessions: []models.CourseSession{session("Lunes", "07:00", "09:50")}},
		{Name: "Física", Group: "01", Sessions: []models.CourseSession{session("Lunes", "07:00", "09:50")}},
	}
	added, err := svc.AddCourses(context.Background(), schedID, scraped)
	if err != nil {
		t.Fatalf("bulk add must not run conflict checks: %v", err)
	}
	if len(added) != 2 {
		t.Fatalf("added = %d, want 2", len(added))
	}
	for _, c := range added {
		if c.IsScheduled {
			t.Errorf("bulk-added course %q should be pending", c.Name)
		}
		if c.ID == "" {
			t.Error("bulk-added course missing id")
		}
	}
}
