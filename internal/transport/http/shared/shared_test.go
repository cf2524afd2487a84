package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-03-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, err := ParseDate("2025-03-15T08:30:00Z"); err != nil {
		t.Fatalf("RFC3339 rejected: %v", err)
	}

	got, err = ParseDate("")
	if err != nil || !got.IsZero() {
		t.Fatalf("empty input: got %v, err %v", got, err)
	}

	if _, err := ParseDate("15/03/2025"); err == nil {
		t.Fatal("accepted non-ISO date")
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "/x", 50, 0},
		{"explicit", "/x?limit=10&skip=20", 10, 20},
		{"clamped to max", "/x?limit=5000", 200, 0},
		{"negative ignored", "/x?limit=-1&skip=-5", 50, 0},
		{"garbage ignored", "/x?limit=ten&skip=two", 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			p := ParsePagination(r, 50, 200)
			if p.Limit != tt.wantLimit || p.Offset != tt.wantOffset {
				t.Fatalf("got %+v, want limit=%d offset=%d", p, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	if id, ok := ParseID("42"); !ok || id != 42 {
		t.Fatalf("ParseID(42) = %d, %v", id, ok)
	}
	for _, raw := range []string{"", "0", "-3", "abc", "1.5"} {
		if _, ok := ParseID(raw); ok {
			t.Errorf("ParseID(%q) accepted", raw)
		}
	}
}
