package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/BradenHooton/complaintbox/internal/auth"
	"github.com/stretchr/testify/assert"
)

func TestTimingDelay_WaitFrom_PadsToBaseDelay(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelay: 100 * time.Millisecond,
		Jitter:    50 * time.Millisecond,
	})
	start := time.Now()

	timing.WaitFrom(context.Background(), start)

	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 300*time.Millisecond)
}

func TestTimingDelay_WaitFrom_AccountsForElapsedTime(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{BaseDelay: 50 * time.Millisecond})

	// work already took longer than the target
	start := time.Now().Add(-200 * time.Millisecond)
	before := time.Now()

	timing.WaitFrom(context.Background(), start)

	assert.Less(t, time.Since(before), 10*time.Millisecond)
}

func TestTimingDelay_WaitFrom_StopsOnCancel(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{BaseDelay: 5 * time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()

	timing.WaitFrom(ctx, start)

	assert.Less(t, time.Since(start), time.Second)
}

func TestTimingDelay_Target_WithinJitter(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{BaseDelay: 10 * time.Millisecond, Jitter: 5 * time.Millisecond})

	for i := 0; i < 50; i++ {
		d := timing.Target()
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.Less(t, d, 15*time.Millisecond)
	}
}

func TestTimingDelay_NilIsNoop(t *testing.T) {
	var timing *auth.TimingDelay
	start := time.Now()
	timing.WaitFrom(context.Background(), start)
	assert.Less(t, time.Since(start), 10*time.Millisecond)
}
