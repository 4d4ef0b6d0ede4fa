package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"projecthub/lifecycle"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	DatabaseURL        string
	Store              string
	HTTPAddr           string
	JWTSecret          string
	LogLevel           logrus.Level
	SupersedePolicy    lifecycle.SupersedePolicy
	ApplyRatePerMinute int
	ApplyBurst         int
	NotifierQueueSize  int
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		Store:              strings.ToLower(getEnv("STORE", StorePostgres)),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		SupersedePolicy:    lifecycle.SupersedePolicy(getEnv("SUPERSEDE_POLICY", string(lifecycle.LeavePending))),
		ApplyRatePerMinute: getInt("APPLY_RATE_PER_MINUTE", 30),
		ApplyBurst:         getInt("APPLY_BURST", 5),
		NotifierQueueSize:  getInt("NOTIFIER_QUEUE_SIZE", 256),
	}

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	switch cfg.Store {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL not set")
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("invalid STORE %q: want %s or %s", cfg.Store, StorePostgres, StoreMemory)
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET not set")
	}
	if !cfg.SupersedePolicy.Valid() {
		return nil, fmt.Errorf("invalid SUPERSEDE_POLICY %q", cfg.SupersedePolicy)
	}
	if cfg.NotifierQueueSize <= 0 {
		return nil, fmt.Errorf("NOTIFIER_QUEUE_SIZE must be positive, got %d", cfg.NotifierQueueSize)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
