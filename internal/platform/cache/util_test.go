package cache

import (
	"testing"
	"time"
)

func TestTimeUntilNext8AM(t *testing.T) {
	t.Parallel()

	duration := TimeUntilNext8AM()

	// Duration should always be positive and at most 24 hours
	if duration <= 0 {
		t.Errorf("expected positive duration, got %v", duration)
	}
	if duration > 24*time.Hour {
		t.Errorf("expected duration less than 24 hours, got %v", duration)
	}
}

func TestUntilNext8AM(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{name: "early morning JST", now: time.Date(2025, 1, 15, 6, 30, 0, 0, jst), want: 90 * time.Minute},
		{name: "exactly 8 AM rolls to tomorrow", now: time.Date(2025, 1, 15, 8, 0, 0, 0, jst), want: 24 * time.Hour},
		{name: "evening JST", now: time.Date(2025, 1, 15, 20, 0, 0, 0, jst), want: 12 * time.Hour},
		// UTC 22:00 は翌日のJST 7:00
		{name: "UTC input", now: time.Date(2025, 1, 14, 22, 0, 0, 0, time.UTC), want: time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := untilNext8AM(tt.now); got != tt.want {
				t.Errorf("untilNext8AM(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}
