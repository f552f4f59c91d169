package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/esteban/tecplanner/internal/pkg/apperrors"
)

// Schedule name rules
var (
	// ScheduleNamePattern allows letters, digits, spaces, hyphens and
	// underscores only
	ScheduleNamePattern = `^[A-Za-z0-9 _-]+$`

	ScheduleNameMinLength = 3
	ScheduleNameMaxLength = 50
)

var scheduleNameRe = regexp.MustCompile(ScheduleNamePattern)

// ValidateScheduleName checks a schedule name against the naming rules
// and returns a specific human-readable reason per violated rule. The
// check runs before any mutation is attempted.
func ValidateScheduleName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return apperrors.NewValidationError(apperrors.ErrInvalidScheduleName, "schedule name cannot be empty")
	}
	if len(trimmed) < ScheduleNameMinLength {
		return apperrors.NewValidationError(apperrors.ErrInvalidScheduleName,
			fmt.Sprintf("schedule name must be at least %d characters", ScheduleNameMinLength))
	}
	if len(trimmed) > ScheduleNameMaxLength {
		return apperrors.NewValidationError(apperrors.ErrInvalidScheduleName,
			fmt.Sprintf("schedule name must be at most %d characters", ScheduleNameMaxLength))
	}
	if !scheduleNameRe.MatchString(trimmed) {
		return apperrors.NewValidationError(apperrors.ErrInvalidScheduleName,
			"schedule name may only contain letters, digits, spaces, hyphens and underscores")
	}
	return nil
}
