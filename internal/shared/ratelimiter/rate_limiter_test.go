package ratelimiter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_WaitIfNeeded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		limit         int
		calls         int
		expectedSleep int
	}{
		{"under limit does not sleep", 3, 3, 0},
		{"one over limit sleeps once", 3, 4, 1},
		{"sleeps once per exhausted window", 2, 5, 2},
		{"zero limit disables throttling", 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rl := NewRateLimiter(tt.limit, time.Hour)
			var slept []time.Duration
			rl.sleep = func(d time.Duration) { slept = append(slept, d) }

			for i := 0; i < tt.calls; i++ {
				rl.WaitIfNeeded()
			}

			assert.Len(t, slept, tt.expectedSleep)
			for _, d := range slept {
				assert.Greater(t, d, time.Duration(0))
				assert.LessOrEqual(t, d, time.Hour)
			}
		})
	}
}

func TestRateLimiter_ResetsAfterInterval(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 10*time.Millisecond)
	sleeps := 0
	rl.sleep = func(time.Duration) { sleeps++ }

	rl.WaitIfNeeded()
	time.Sleep(15 * time.Millisecond)
	rl.WaitIfNeeded()

	assert.Equal(t, 0, sleeps, "a new window starts once the interval has elapsed")
}

func TestRateLimiter_Concurrent(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(5, time.Hour)
	var mu sync.Mutex
	sleeps := 0
	rl.sleep = func(time.Duration) {
		mu.Lock()
		sleeps++
		mu.Unlock()
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rl.WaitIfNeeded()
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, sleeps, "20 calls with a limit of 5 exhaust the window three times")
}

func TestNoop(t *testing.T) {
	t.Parallel()

	var rl RateLimiterInterface = Noop{}
	assert.NotPanics(t, rl.WaitIfNeeded)
}
