package config

import (
	"strconv"
	"sync"
	"time"
)

// RateLimitConfig caps the unauthenticated endpoints per client IP. A
// negative max turns that limiter off.
type RateLimitConfig struct {
	ApplyMax int
	LoginMax int
	Window   time.Duration
}

var (
	rateLimitConfig *RateLimitConfig
	rateLimitOnce   sync.Once
)

func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{ApplyMax: 10, LoginMax: 20, Window: time.Minute}
}

func LoadRateLimitConfig() *RateLimitConfig {
	rateLimitOnce.Do(func() {
		cfg := DefaultRateLimitConfig()
		cfg.ApplyMax = parseInt(getEnv("RATE_LIMIT_APPLY", ""), cfg.ApplyMax)
		cfg.LoginMax = parseInt(getEnv("RATE_LIMIT_LOGIN", ""), cfg.LoginMax)
		cfg.Window = parseDuration(getEnv("RATE_LIMIT_WINDOW", ""), cfg.Window)
		rateLimitConfig = cfg
	})
	return rateLimitConfig
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 {
		return fallback
	}
	return n
}
