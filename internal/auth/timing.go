package auth

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"time"
)

// TimingConfig holds configuration for timing attack prevention
type TimingConfig struct {
	BaseDelay time.Duration
	Jitter    time.Duration // upper bound of the random extra delay
}

// TimingDelay pads failed authentications so that an unknown identifier and
// a wrong password take about the same time to answer.
type TimingDelay struct {
	config TimingConfig
}

func NewTimingDelay(config TimingConfig) *TimingDelay {
	return &TimingDelay{config: config}
}

// cryptoRandDuration returns a random duration in [0, max)
func cryptoRandDuration(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}

	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0
	}
	return time.Duration(binary.BigEndian.Uint64(b[:]) % uint64(max))
}

// Target returns the padded duration for one failure
func (td *TimingDelay) Target() time.Duration {
	return td.config.BaseDelay + cryptoRandDuration(td.config.Jitter)
}

// WaitFrom sleeps until at least Target() has elapsed since start. It returns
// early when ctx is cancelled.
func (td *TimingDelay) WaitFrom(ctx context.Context, start time.Time) {
	if td == nil {
		return
	}

	remaining := td.Target() - time.Since(start)
	if remaining <= 0 {
		return
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
