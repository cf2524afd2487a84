package salary

import (
	"time"

	"hradmin/internal/domain/apperr"
)

// Covers reports whether the interval [from, to] contains asOf. A nil
// to means the interval is open-ended. Both bounds are inclusive: a
// closed row ends on effective_to itself, and its successor starts the
// following day (see CloseBoundary). This is the reference form of the
// comparison the store's Current query runs in SQL; a change here must
// be mirrored there.
func Covers(from time.Time, to *time.Time, asOf time.Time) bool {
	day := asOf.Truncate(24 * time.Hour)
	if from.After(day) {
		return false
	}
	return to == nil || !to.Before(day)
}

// CloseBoundary returns the effective_to for a row superseded by one
// starting at from: the day before, so consecutive rows never overlap
// under Covers' inclusive comparisons.
func CloseBoundary(from time.Time) time.Time {
	return from.AddDate(0, 0, -1)
}

// ValidateNew checks the invariants every new salary row must satisfy.
// hireDate is nil when the employee has no recorded hire date.
func ValidateNew(baseSalary float64, from time.Time, to, hireDate *time.Time) error {
	if baseSalary <= 0 {
		return apperr.Validation("base salary must be greater than zero")
	}
	if to != nil && to.Before(from) {
		return apperr.Validation("effective_to must be on or after effective_from")
	}
	if hireDate != nil && from.Before(*hireDate) {
		return apperr.Validation("effective_from (%s) must be on or after hire date (%s)",
			from.Format("2006-01-02"), hireDate.Format("2006-01-02"))
	}
	return nil
}
