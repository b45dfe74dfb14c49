package store

import (
	"os"
	"strconv"
	"time"
)

// RedisSessionConfigFromEnv loads session store configuration from
// environment variables.
func RedisSessionConfigFromEnv() *RedisConfig {
	return &RedisConfig{
		Addr:     getEnv("REDIS_SESSION_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_SESSION_PASSWORD", ""),
		DB:       getEnvInt("REDIS_SESSION_DB", 0),
		Prefix:   getEnv("REDIS_SESSION_PREFIX", "intakekit:session:"),
		TTL:      getEnvDuration("REDIS_SESSION_TTL", 24*time.Hour),
	}
}

// RedisCacheConfigFromEnv loads selection cache configuration from
// environment variables.
func RedisCacheConfigFromEnv() *RedisConfig {
	return &RedisConfig{
		Addr:     getEnv("REDIS_CACHE_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_CACHE_PASSWORD", ""),
		DB:       getEnvInt("REDIS_CACHE_DB", 1),
		Prefix:   getEnv("REDIS_CACHE_PREFIX", "intakekit:cache:"),
		TTL:      getEnvDuration("REDIS_CACHE_TTL", time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
