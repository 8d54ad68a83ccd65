package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrMissingToken = errors.New("LEAK_API_TOKEN is required")

const DefaultUpstreamURL = "https://leakosintapi.com/"

type Config struct {
	Upstream UpstreamConfig
	Server   ServerConfig
	CORS     CORSConfig
	Log      LogConfig
}

type UpstreamConfig struct {
	Token   string
	BaseURL string
	Timeout time.Duration
}

type ServerConfig struct {
	Addr        string
	MetricsAddr string
}

// CORSConfig holds the origins allowed to call the API. An empty list
// means every origin is allowed.
type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Upstream: UpstreamConfig{
			Token:   os.Getenv("LEAK_API_TOKEN"),
			BaseURL: getEnvOrDefault("LEAK_API_URL", DefaultUpstreamURL),
			Timeout: time.Duration(getEnvIntOrDefault("LEAK_API_TIMEOUT_SEC", 30)) * time.Second,
		},
		Server: ServerConfig{
			Addr:        getEnvOrDefault("ADDR", ":8080"),
			MetricsAddr: getEnvOrDefault("METRICS_ADDR", ":9090"),
		},
		CORS: CORSConfig{
			AllowedOrigins: ParseOrigins(os.Getenv("ALLOWED_ORIGINS")),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Upstream.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// ParseOrigins splits a comma-separated origin list, dropping empty items.
func ParseOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
