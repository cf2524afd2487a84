package leave

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDays(t *testing.T) {
	cases := []struct {
		start, end time.Time
		want       int
	}{
		{date(2026, 3, 2), date(2026, 3, 2), 1},
		{date(2026, 3, 2), date(2026, 3, 6), 5},
		{date(2026, 2, 27), date(2026, 3, 2), 4},
		{date(2025, 12, 30), date(2026, 1, 2), 4},
	}
	for _, tc := range cases {
		if got := Days(tc.start, tc.end); got != tc.want {
			t.Errorf("Days(%s, %s) = %d, want %d",
				tc.start.Format("2006-01-02"), tc.end.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"identical", date(2026, 3, 2), date(2026, 3, 6), date(2026, 3, 2), date(2026, 3, 6), true},
		{"shared edge day", date(2026, 3, 2), date(2026, 3, 6), date(2026, 3, 6), date(2026, 3, 10), true},
		{"contained", date(2026, 3, 1), date(2026, 3, 31), date(2026, 3, 10), date(2026, 3, 12), true},
		{"adjacent", date(2026, 3, 2), date(2026, 3, 6), date(2026, 3, 7), date(2026, 3, 10), false},
		{"disjoint", date(2026, 3, 2), date(2026, 3, 6), date(2026, 4, 1), date(2026, 4, 3), false},
	}
	for _, tc := range cases {
		if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
			t.Errorf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{StatusPending, StatusApproved},
		{StatusPending, StatusRejected},
		{StatusPending, StatusCancelled},
		{StatusApproved, StatusCancelled},
	}
	for _, pair := range allowed {
		if err := CanTransition(pair[0], pair[1]); err != nil {
			t.Errorf("CanTransition(%s, %s): %v", pair[0], pair[1], err)
		}
	}

	forbidden := [][2]string{
		{StatusApproved, StatusRejected},
		{StatusApproved, StatusPending},
		{StatusRejected, StatusApproved},
		{StatusRejected, StatusCancelled},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusApproved},
	}
	for _, pair := range forbidden {
		if err := CanTransition(pair[0], pair[1]); err == nil {
			t.Errorf("CanTransition(%s, %s): want error", pair[0], pair[1])
		}
	}
}

func TestValidateNew(t *testing.T) {
	hire := date(2025, 6, 1)

	if err := ValidateNew(TypeAnnual, date(2026, 3, 6), date(2026, 3, 2), &hire); err == nil {
		t.Fatal("want error when end precedes start")
	}
	if err := ValidateNew(TypeAnnual, date(2025, 5, 1), date(2025, 5, 3), &hire); err == nil {
		t.Fatal("want error when leave starts before hire date")
	}
	if err := ValidateNew("sabbatical", date(2026, 3, 2), date(2026, 3, 6), &hire); err == nil {
		t.Fatal("want error for unknown leave type")
	}
	if err := ValidateNew(TypeSick, date(2026, 3, 2), date(2026, 3, 6), &hire); err != nil {
		t.Fatalf("ValidateNew: %v", err)
	}
	if err := ValidateNew(TypeUnpaid, date(2026, 3, 2), date(2026, 3, 6), nil); err != nil {
		t.Fatalf("ValidateNew without hire date: %v", err)
	}
}
