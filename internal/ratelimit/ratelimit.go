// Package ratelimit provides fixed-window request counters keyed by client.
package ratelimit

import (
	"context"
	"time"
)

// Limiter counts hits for key in a fixed window and reports whether the
// current hit is within limit.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Rule is a named limit applied to one route group.
type Rule struct {
	Name    string
	Limit   int
	Window  time.Duration
	Message string
}
