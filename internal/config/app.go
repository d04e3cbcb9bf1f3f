package config

import (
	"log"
	"os"
	"sync"
)

type AppConfig struct {
	Name          string
	Env           string
	Port          string
	BaseURL       string
	FrontendURL   string
	AdminEmail    string
	AdminPassword string
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "development"
			log.Printf("Warning: APP_ENV not set, defaulting to %s", env)
		}
		appConfig = &AppConfig{
			Name:          getEnv("APP_NAME", "ATOBS API"),
			Env:           env,
			Port:          getEnv("APP_PORT", ":3001"),
			BaseURL:       os.Getenv("APP_URL"),
			FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:5173"),
			AdminEmail:    os.Getenv("ADMIN_EMAIL"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		}
	})
	return appConfig
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
