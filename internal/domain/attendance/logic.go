package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"hradmin/internal/domain/apperr"
)

// WorkingHours is check-out minus check-in in hours, nil when either
// timestamp is missing.
func WorkingHours(checkIn, checkOut *time.Time) *float64 {
	if checkIn == nil || checkOut == nil {
		return nil
	}
	hours := checkOut.Sub(*checkIn).Hours()
	return &hours
}

// ParseWorkdayStart parses an "HH:MM" clock value into minutes since
// midnight.
func ParseWorkdayStart(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("workday start %q: want HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("workday start %q: bad hour", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("workday start %q: bad minute", value)
	}
	return hour*60 + minute, nil
}

// DeriveStatus marks a check-in late when its clock time is after the
// workday start (minutes since midnight).
func DeriveStatus(checkIn time.Time, workdayStartMinutes int) string {
	minutes := checkIn.Hour()*60 + checkIn.Minute()
	if minutes > workdayStartMinutes {
		return StatusLate
	}
	return StatusPresent
}

// unaccounted is the headcount with neither an attendance row nor
// approved leave on the day. The marked and on-leave sets are disjoint
// (the summary query excludes on-leave employees who also have a row),
// so the difference only goes negative on stale reads; clamp to zero.
func unaccounted(total, marked, onLeave int) int {
	rest := total - marked - onLeave
	if rest < 0 {
		return 0
	}
	return rest
}

// ValidateDay rejects records dated before the employee was hired. A
// nil hireDate means the employee has no recorded hire date and any
// day is acceptable.
func ValidateDay(day time.Time, hireDate *time.Time) error {
	if hireDate == nil {
		return nil
	}
	if day.Truncate(24 * time.Hour).Before(hireDate.Truncate(24 * time.Hour)) {
		return apperr.Validation("attendance date (%s) must be on or after hire date (%s)",
			day.Format("2006-01-02"), hireDate.Format("2006-01-02"))
	}
	return nil
}

func validateManual(status string, checkIn, checkOut *time.Time) error {
	if !validStatus(status) {
		return apperr.Validation("unknown attendance status %q", status)
	}
	if checkIn != nil && checkOut != nil && checkOut.Before(*checkIn) {
		return apperr.Validation("check-out must not precede check-in")
	}
	return nil
}
