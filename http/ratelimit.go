package http

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per host.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	config   RateLimiterConfig
}

// RateLimiterConfig defines requests per second per host. A rate of 0 means
// unlimited.
type RateLimiterConfig struct {
	// YouTubeRPS applies to www.youtube.com (timedtext).
	YouTubeRPS float64
	// GoogleAPIsRPS applies to *.googleapis.com (Data API, Gemini).
	GoogleAPIsRPS float64
	// DefaultRPS applies to every other host.
	DefaultRPS float64
	// CustomRates maps exact host names to RPS values.
	CustomRates map[string]float64
}

// DefaultRateLimiterConfig returns conservative defaults for YouTube hosts.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		YouTubeRPS:    2.5,
		GoogleAPIsRPS: 5.0,
		DefaultRPS:    0,
		CustomRates:   make(map[string]float64),
	}
}

// NewRateLimiter creates a new rate limiter with the given configuration.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.CustomRates == nil {
		cfg.CustomRates = make(map[string]float64)
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		config:   cfg,
	}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context, host string) error {
	if rl == nil {
		return nil
	}
	limiter := rl.limiterFor(host)
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

func (rl *RateLimiter) limiterFor(host string) *rate.Limiter {
	rps := rl.rps(host)
	if rps <= 0 {
		return nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limiters[host]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rate.Limit(rps), 1)
	rl.limiters[host] = limiter
	return limiter
}

// rps returns the configured rate for host.
func (rl *RateLimiter) rps(host string) float64 {
	if rps, ok := rl.config.CustomRates[host]; ok {
		return rps
	}

	switch {
	case host == "www.youtube.com" || host == "youtube.com":
		return rl.config.YouTubeRPS
	case host == "googleapis.com" || strings.HasSuffix(host, ".googleapis.com"):
		return rl.config.GoogleAPIsRPS
	default:
		return rl.config.DefaultRPS
	}
}
