package attendance

import (
	"testing"
	"time"
)

func TestWorkingHours(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out := time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC)

	if got := WorkingHours(&in, &out); got == nil || *got != 8.5 {
		t.Fatalf("WorkingHours = %v, want 8.5", got)
	}
	if got := WorkingHours(&in, nil); got != nil {
		t.Fatalf("WorkingHours without check-out = %v, want nil", got)
	}
	if got := WorkingHours(nil, &out); got != nil {
		t.Fatalf("WorkingHours without check-in = %v, want nil", got)
	}
}

func TestParseWorkdayStart(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"09:00", 540, false},
		{"08:30", 510, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"nine", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseWorkdayStart(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseWorkdayStart(%q): want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseWorkdayStart(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseWorkdayStart(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestDeriveStatus(t *testing.T) {
	workdayStart := 9 * 60

	cases := []struct {
		name string
		at   time.Time
		want string
	}{
		{"early", time.Date(2026, 3, 2, 8, 45, 0, 0, time.UTC), StatusPresent},
		{"on time", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), StatusPresent},
		{"one minute late", time.Date(2026, 3, 2, 9, 1, 0, 0, time.UTC), StatusLate},
		{"very late", time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC), StatusLate},
	}
	for _, tc := range cases {
		if got := DeriveStatus(tc.at, workdayStart); got != tc.want {
			t.Errorf("%s: DeriveStatus = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestValidateManual(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out := in.Add(-time.Hour)

	if err := validateManual("holiday", nil, nil); err == nil {
		t.Fatal("want error for unknown status")
	}
	if err := validateManual(StatusPresent, &in, &out); err == nil {
		t.Fatal("want error when check-out precedes check-in")
	}
	if err := validateManual(StatusHalfDay, &in, nil); err != nil {
		t.Fatalf("validateManual: %v", err)
	}
}

func TestValidateDay(t *testing.T) {
	hired := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if err := ValidateDay(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), &hired); err == nil {
		t.Fatal("day before hire date accepted")
	}
	if err := ValidateDay(hired, &hired); err != nil {
		t.Fatalf("hire date itself rejected: %v", err)
	}
	if err := ValidateDay(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), &hired); err != nil {
		t.Fatalf("day after hire date rejected: %v", err)
	}
	if err := ValidateDay(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), nil); err != nil {
		t.Fatalf("nil hire date rejected: %v", err)
	}
	// Intra-day timestamps compare at day granularity.
	if err := ValidateDay(time.Date(2026, 3, 1, 8, 45, 0, 0, time.UTC), &hired); err != nil {
		t.Fatalf("morning of hire date rejected: %v", err)
	}
}

func TestUnaccounted(t *testing.T) {
	cases := []struct {
		total, marked, onLeave, want int
	}{
		{10, 6, 2, 2},
		{10, 10, 0, 0},
		{10, 0, 0, 10},
		// Disjoint sets: an employee on leave with an attendance row
		// counts as marked only, never twice.
		{10, 7, 3, 0},
		{5, 4, 2, 0},
	}
	for _, tc := range cases {
		if got := unaccounted(tc.total, tc.marked, tc.onLeave); got != tc.want {
			t.Errorf("unaccounted(%d, %d, %d) = %d, want %d", tc.total, tc.marked, tc.onLeave, got, tc.want)
		}
	}
}
