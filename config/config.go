package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL        string
	JWTSecret          string
	JWTExpiration      time.Duration
	ServerPort         string
	InviteExpiration   time.Duration
	RetentionDays      int
	WeekStart          time.Weekday
	DefaultSiteRadiusM float64
}

func Load() *Config {
	// Optional .env for local development; real env always wins.
	_ = godotenv.Load()

	return &Config{
		DatabaseURL:        getEnv("DATABASE_URL", "timecard.db"),
		JWTSecret:          getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		JWTExpiration:      24 * time.Hour,
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		InviteExpiration:   7 * 24 * time.Hour, // 7 days
		RetentionDays:      getEnvInt("RETENTION_DAYS", 90),
		WeekStart:          getEnvWeekday("WEEK_START", time.Monday),
		DefaultSiteRadiusM: 100,
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
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvWeekday(key string, defaultValue time.Weekday) time.Weekday {
	switch strings.ToLower(os.Getenv(key)) {
	case "sunday":
		return time.Sunday
	case "monday":
		return time.Monday
	case "saturday":
		return time.Saturday
	default:
		return defaultValue
	}
}
