package model

import (
	"testing"
	"time"
)

func TestDay_TruncatesToUTCMidnight(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"afternoon UTC",
			time.Date(2026, 9, 1, 15, 42, 7, 123, time.UTC),
			time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"already midnight",
			time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"non-UTC zone uses the UTC calendar date",
			// 23:30 on Aug 31 in UTC-5 is 04:30 on Sep 1 UTC.
			time.Date(2026, 8, 31, 23, 30, 0, 0, time.FixedZone("EST", -5*3600)),
			time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Day(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("Day(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDay_IsIdempotent(t *testing.T) {
	in := time.Date(2026, 9, 1, 15, 42, 0, 0, time.UTC)
	if !Day(Day(in)).Equal(Day(in)) {
		t.Error("Day(Day(t)) must equal Day(t)")
	}
}

func TestDateLayout_RoundTrip(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	text := day.Format(DateLayout)
	if text != "2026-09-01" {
		t.Fatalf("formatted date = %q, want 2026-09-01", text)
	}

	parsed, err := time.ParseInLocation(DateLayout, text, time.UTC)
	if err != nil {
		t.Fatalf("ParseInLocation() error = %v", err)
	}
	if !parsed.Equal(day) {
		t.Errorf("round trip changed the date: %v != %v", parsed, day)
	}
}
