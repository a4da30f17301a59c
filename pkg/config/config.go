package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DatabaseURL     string
	AppEnv          string
	BaseURL         string
	JWTSecret       string
	CodeLength      int
	MaxCodeAttempts int
	ClickWorkers    int
	ClickQueueSize  int
	RequestTimeout  time.Duration
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", "file:db.sqlite"),
		AppEnv:          getEnv("APP_ENV", "local"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		CodeLength:      getEnvInt("CODE_LENGTH", 8),
		MaxCodeAttempts: getEnvInt("MAX_CODE_ATTEMPTS", 5),
		ClickWorkers:    getEnvInt("CLICK_WORKERS", 4),
		ClickQueueSize:  getEnvInt("CLICK_QUEUE_SIZE", 1024),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
	}
}

// ShortURL returns the public resolve URL for code.
func (c *Config) ShortURL(code string) string {
	return c.BaseURL + "/u/" + code
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
