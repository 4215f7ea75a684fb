package config

import (
	"ScheduleSync/database/postgres"
	"ScheduleSync/pkg/redis"
	"ScheduleSync/pkg/smtp"
	"os"
	"strconv"
	"time"
)

type AppConfig struct {
	Port     string
	Env      string
	URL      string
	Location *time.Location

	Database postgres.Config
	Redis    redis.Config
	SMTP     smtp.Config

	JWTSecret       string
	OpenAIKey       string
	OpenAIChatModel string

	PendingActionTTL           time.Duration
	PendingSweepInterval       time.Duration
	PendingSweepInitialDelay   time.Duration
	RateLimitRequestsPerSecond float64
	RateLimitBurst             int
}

// LoadAppConfig reads the process environment once; .env is loaded by the caller.
func LoadAppConfig() AppConfig {
	loc, err := time.LoadLocation(getEnv("APP_TIMEZONE", "UTC"))
	if err != nil {
		loc = time.UTC
	}

	return AppConfig{
		Port:     getEnv("APP_PORT", "3000"),
		Env:      getEnv("APP_ENV", "development"),
		URL:      getEnv("APP_URL", "http://localhost:3000"),
		Location: loc,
		Database: postgres.Config{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     os.Getenv("DB_PASSWORD"),
			Name:         getEnv("DB_NAME", "schedulesync"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		},
		Redis: redis.Config{
			Address:  os.Getenv("REDIS_ADDRESS"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvInt("RULE_CACHE_TTL_SECONDS", 60)) * time.Second,
		},
		SMTP: smtp.Config{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     os.Getenv("SMTP_PORT"),
			Mail:     os.Getenv("SMTP_MAIL"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
		JWTSecret:                  os.Getenv("JWT_ACCESS_TOKEN_SECRET"),
		OpenAIKey:                  os.Getenv("OPENAI_API_KEY"),
		OpenAIChatModel:            os.Getenv("OPENAI_CHAT_MODEL"),
		PendingActionTTL:           time.Duration(getEnvInt("PENDING_ACTION_TTL_MINUTES", 5)) * time.Minute,
		PendingSweepInterval:       time.Duration(getEnvInt("PENDING_SWEEP_INTERVAL_MINUTES", 5)) * time.Minute,
		PendingSweepInitialDelay:   time.Duration(getEnvInt("PENDING_SWEEP_INITIAL_DELAY_SECONDS", 30)) * time.Second,
		RateLimitRequestsPerSecond: getEnvFloat("RATE_LIMIT_PER_SECOND", 50),
		RateLimitBurst:             getEnvInt("RATE_LIMIT_BURST", 100),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getEnvFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
