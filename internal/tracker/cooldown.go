package tracker

import (
	"time"

	"golang.org/x/time/rate"
)

// Cooldown admits at most one pulse per window. It is driven by the
// timestamps passed in, never by the wall clock.
type Cooldown struct {
	window  time.Duration
	limiter *rate.Limiter
}

// NewCooldown creates a gate that starts open. A window <= 0 never blocks.
func NewCooldown(window time.Duration) *Cooldown {
	limit := rate.Inf
	if window > 0 {
		limit = rate.Every(window)
	}
	return &Cooldown{
		window:  window,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Allow reports whether a pulse at now is admitted and, if so, starts a new window.
func (c *Cooldown) Allow(now time.Time) bool {
	return c.limiter.AllowN(now, 1)
}

// Window returns the configured cooldown length.
func (c *Cooldown) Window() time.Duration {
	return c.window
}
