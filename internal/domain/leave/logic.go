package leave

import (
	"time"

	"hradmin/internal/domain/apperr"
)

// Days counts calendar days in the request, both ends inclusive.
func Days(start, end time.Time) int {
	start = start.Truncate(24 * time.Hour)
	end = end.Truncate(24 * time.Hour)
	return int(end.Sub(start).Hours()/24) + 1
}

// Overlaps reports whether [aStart,aEnd] and [bStart,bEnd] share a
// day. This is the reference form of the comparison the store's
// hasOverlap query runs in SQL; a change here must be mirrored there.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// CanTransition validates a status change. Pending requests may be
// approved, rejected or cancelled; approved ones may only be cancelled.
func CanTransition(from, to string) error {
	allowed := map[string][]string{
		StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
		StatusApproved: {StatusCancelled},
	}
	for _, next := range allowed[from] {
		if next == to {
			return nil
		}
	}
	return apperr.Validation("cannot move a %s leave request to %s", from, to)
}

// ValidateNew checks the date range and the hire-date floor.
func ValidateNew(leaveType string, start, end time.Time, hireDate *time.Time) error {
	if !validType(leaveType) {
		return apperr.Validation("unknown leave type %q", leaveType)
	}
	if end.Before(start) {
		return apperr.Validation("end date must not precede start date")
	}
	if hireDate != nil && start.Before(*hireDate) {
		return apperr.Validation("leave cannot start before the hire date %s", hireDate.Format("2006-01-02"))
	}
	return nil
}
