package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// UseMemoryStore swaps the Redis-backed store for an in-process one.
	// Single-instance development only: snapshots never leave the process.
	UseMemoryStore bool

	// Board grid window shared by the whole table; per-staff working hours
	// narrow availability inside it.
	BoardDayStart    string
	BoardDayEnd      string
	BoardSlotMinutes int

	// RosterJSON optionally replaces the built-in roster. It holds a JSON
	// array of staff members in the persisted roster document shape.
	RosterJSON string

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RedisAddr:          getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),
		UseMemoryStore:     getEnvAsBool("USE_MEMORY_STORE", false),
		BoardDayStart:      getEnv("BOARD_DAY_START", "09:00"),
		BoardDayEnd:        getEnv("BOARD_DAY_END", "20:30"),
		BoardSlotMinutes:   getEnvAsInt("BOARD_SLOT_MINUTES", 30),
		RosterJSON:         getEnv("ROSTER_JSON", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
