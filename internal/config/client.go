package config

import (
	"os"
	"sync"
)

// ClientConfig is read by the atsctl operator CLI.
type ClientConfig struct {
	BaseURL string
	Token   string
}

var (
	clientConfig *ClientConfig
	clientOnce   sync.Once
)

func LoadClientConfig() *ClientConfig {
	clientOnce.Do(func() {
		clientConfig = &ClientConfig{
			BaseURL: getEnv("ATOBS_API_URL", "http://localhost:3001/api"),
			Token:   os.Getenv("ATOBS_TOKEN"),
		}
	})
	return clientConfig
}
