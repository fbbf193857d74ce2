package messaging

import (
	"context"
	"errors"
	"log"
	"time"
)

// DefaultRotationInterval is how often a running session's message changes
const DefaultRotationInterval = 30 * time.Second

// RotatorConfig holds configuration for a message rotator
type RotatorConfig struct {
	Service  Service
	Interval time.Duration
}

// Rotator periodically swaps the motivational line shown for a running session
type Rotator struct {
	service  Service
	interval time.Duration
}

// NewRotator creates a rotator
func NewRotator(cfg *RotatorConfig) (*Rotator, error) {
	if cfg == nil || cfg.Service == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultRotationInterval
	}

	return &Rotator{
		service:  cfg.Service,
		interval: interval,
	}, nil
}

// Run calls onRotate with a fresh message every interval until ctx is done.
// elapsed and strict describe the session being displayed.
func (r *Rotator) Run(ctx context.Context, strict bool, elapsed func() time.Duration, onRotate func(message string)) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			out, err := r.service.GetMotivationalMessage(ctx, &GetMotivationalMessageInput{
				Elapsed: elapsed(),
				Strict:  strict,
			})
			if err != nil {
				log.Printf("Rotator: failed to get message: %v", err)
				continue
			}

			if ctx.Err() != nil {
				return
			}
			onRotate(out.Message)
		}
	}
}
