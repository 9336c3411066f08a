package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// InsecureJWTSecret is the fallback signing key used when JWT_SECRET is not
// configured. Anyone who knows it can forge session tokens.
const InsecureJWTSecret = "default_jwt_secret"

type LogConfig struct {
	Level     string
	Format    string
	Component string
	Source    bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RealtimeConfig is what the credential broker hands out to clients so they
// can open their own realtime subscription against the change feed.
type RealtimeConfig struct {
	URL     string
	AnonKey string
}

type Config struct {
	Port            string
	Env             string
	PostgresConnStr string
	JWTSecret       string
	JWTExpiry       time.Duration
	Redis           RedisConfig
	Realtime        RealtimeConfig
	Log             LogConfig
}

// Load reads configuration from the environment, loading a .env file first
// when one is present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "7001"),
		Env:             getEnv("ENV", "development"),
		PostgresConnStr: getEnv("POSTGRES_CONN_STR", ""),
		JWTSecret:       getEnv("JWT_SECRET", InsecureJWTSecret),
		JWTExpiry:       getDurationEnv("JWT_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	if db, err := strconv.Atoi(getEnv("REDIS_DB", "0")); err == nil {
		cfg.Redis.DB = db
	}

	cfg.Realtime.URL = getEnv("REALTIME_URL", "")
	cfg.Realtime.AnonKey = getEnv("REALTIME_ANON_KEY", "")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "text")
	cfg.Log.Component = getEnv("LOG_COMPONENT", "api")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	return cfg
}

// IsDevelopment reports whether the process runs in a development
// configuration; error responses then carry extra detail.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
		log.Printf("Invalid duration in %s, using default %s", key, defaultValue)
	}
	return defaultValue
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
