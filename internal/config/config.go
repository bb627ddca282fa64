package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	AllowedOrigins  []string
	ProcessingDelay time.Duration
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8082"),
		AllowedOrigins:  splitEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
		ProcessingDelay: getDurationMs("PROCESSING_DELAY_MS", 1500),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitEnv(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getDurationMs(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return time.Duration(fallback) * time.Millisecond
}
