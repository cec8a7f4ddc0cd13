package policy

import (
	"fmt"
	"strings"

	"voyage-backend/internal/models"
)

// Monday = 0, matching TemporalConstraint.DaysOfWeek.
var dayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// CheckTemporalAccess evaluates every active day/time-window constraint the
// user has on a resource type, in the configured timezone. No constraints
// means unrestricted access. Constraints are conjunctive: all must pass, and
// the first failure supplies the denial reason. The returned error covers
// infrastructure failures only, never a denial.
func (a *Authorizer) CheckTemporalAccess(user *models.User, resourceType string) (bool, string, error) {
	var constraints []models.TemporalConstraint
	err := a.db.
		Where("user_id = ? AND resource_type = ? AND is_active = ?", user.ID, resourceType, true).
		Find(&constraints).Error
	if err != nil {
		return false, "", err
	}
	if len(constraints) == 0 {
		return true, "", nil
	}

	now := a.now().In(a.loc)
	day := (int(now.Weekday()) + 6) % 7 // time.Weekday has Sunday = 0
	minute := now.Hour()*60 + now.Minute()

	for _, tc := range constraints {
		days := tc.Days()
		if !containsDay(days, day) {
			return false, "access allowed only on: " + joinDayNames(days), nil
		}

		start, okStart := models.ParseClock(tc.StartTime)
		end, okEnd := models.ParseClock(tc.EndTime)
		if !okStart || !okEnd {
			// Malformed window locks the resource rather than silently
			// opening it.
			return false, "invalid access window configured, contact your administrator", nil
		}
		if minute < start || minute >= end {
			return false, fmt.Sprintf("access allowed only between %s and %s", tc.StartTime, tc.EndTime), nil
		}
	}
	return true, "", nil
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

func joinDayNames(days []int) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, dayNames[d])
	}
	return strings.Join(names, ", ")
}
