package config

import (
	"log"
	"sync"
	"time"
)

type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	// CookieSecure sets the Secure flag on the refresh cookie (production only).
	CookieSecure bool
}

var (
	authConfig *AuthConfig
	authOnce   sync.Once
)

func LoadAuthConfig() *AuthConfig {
	authOnce.Do(func() {
		access := getEnv("JWT_SECRET", "")
		refresh := getEnv("JWT_REFRESH_SECRET", "")
		if access == "" || refresh == "" {
			log.Printf("Warning: JWT_SECRET or JWT_REFRESH_SECRET not set, using development secrets")
			if access == "" {
				access = "dev-access-secret"
			}
			if refresh == "" {
				refresh = "dev-refresh-secret"
			}
		}
		authConfig = &AuthConfig{
			AccessSecret:  access,
			RefreshSecret: refresh,
			AccessTTL:     parseDuration(getEnv("JWT_ACCESS_TTL", "15m"), 15*time.Minute),
			RefreshTTL:    parseDuration(getEnv("JWT_REFRESH_TTL", "168h"), 7*24*time.Hour),
			CookieSecure:  LoadAppConfig().IsProduction(),
		}
	})
	return authConfig
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
