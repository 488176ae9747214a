package feed

import (
	"testing"
	"time"
)

func TestFormatRelativeBoundaries(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	tests := []struct {
		name     string
		ageMs    int64
		expected string
	}{
		{"zero age", 0, "Now"},
		{"just under a minute", 59999, "Now"},
		{"exactly a minute", 60000, "1m"},
		{"ninety seconds floors", 90000, "1m"},
		{"just under an hour", 3599999, "59m"},
		{"exactly an hour", 3600000, "1h"},
		{"just under a day", 86399999, "23h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatRelative(now, now.UnixMilli()-tt.ageMs)
			if got != tt.expected {
				t.Errorf("FormatRelative(age=%dms) = %q, want %q", tt.ageMs, got, tt.expected)
			}
		})
	}
}

func TestFormatRelativeDate(t *testing.T) {
	now := time.UnixMilli(1700000000000) // 2023-11-14T22:13:20Z
	got := FormatRelative(now, now.Add(-24*time.Hour).UnixMilli())
	if got != "2023-11-13" {
		t.Errorf("expected ISO date for day-old entry, got %q", got)
	}
	// No time-of-day component.
	if len(got) != len("2006-01-02") {
		t.Errorf("date label has unexpected length: %q", got)
	}
}

func TestFormatDurationWords(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{30 * time.Second, "0 minutes"},
		{time.Minute, "1 minute"},
		{5 * time.Minute, "5 minutes"},
		{time.Hour, "1 hour"},
		{3 * time.Hour, "3 hours"},
		{24 * time.Hour, "1 day"},
		{49 * time.Hour, "2 days"},
	}

	for _, tt := range tests {
		if got := FormatDurationWords(tt.d); got != tt.expected {
			t.Errorf("FormatDurationWords(%v) = %q, want %q", tt.d, got, tt.expected)
		}
	}
}
