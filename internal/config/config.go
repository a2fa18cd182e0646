package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Store
	StoreDriver   string
	DatabaseURL   string
	SQLitePath    string
	MigrationsDir string

	// Redis (optional; enables cache, queue and cross-process pub/sub)
	RedisURL          string
	AnalyticsCacheTTL time.Duration
	WorkerCount       int

	// Auth (optional; an empty secret leaves write routes open)
	JWTSecret         string
	JWTTTL            time.Duration
	AdminPasswordHash string

	// SMTP
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPass      string
	SMTPFrom      string
	ReminderEmail string

	// Frontend
	FrontendURL string
	CORSOrigins string

	Location *time.Location
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	frontendURL := getEnvOrDefault("FRONTEND_URL", "http://localhost:3000")
	cfg := &Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		Env:               getEnvOrDefault("ENV", "development"),
		StoreDriver:       strings.ToLower(getEnvOrDefault("STORE_DRIVER", StorePostgres)),
		SQLitePath:        getEnvOrDefault("SQLITE_PATH", "./data/codejourney.db"),
		MigrationsDir:     getEnvOrDefault("MIGRATIONS_DIR", "migrations"),
		RedisURL:          getEnvOrDefault("REDIS_URL", ""),
		AnalyticsCacheTTL: time.Duration(getEnvAsIntOrDefault("ANALYTICS_CACHE_TTL", 300)) * time.Second,
		WorkerCount:       getEnvAsIntOrDefault("WORKER_COUNT", 2),
		JWTSecret:         getEnvOrDefault("JWT_SECRET", ""),
		JWTTTL:            time.Duration(getEnvAsIntOrDefault("JWT_TTL_HOURS", 24)) * time.Hour,
		AdminPasswordHash: getEnvOrDefault("ADMIN_PASSWORD_HASH", ""),
		SMTPHost:          getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:          getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser:          getEnvOrDefault("SMTP_USER", ""),
		SMTPPass:          getEnvOrDefault("SMTP_PASS", ""),
		SMTPFrom:          getEnvOrDefault("SMTP_FROM", "noreply@codejourney.dev"),
		ReminderEmail:     getEnvOrDefault("REMINDER_EMAIL", ""),
		FrontendURL:       frontendURL,
		CORSOrigins:       getEnvOrDefault("CORS_ORIGINS", frontendURL),
		Location:          loadLocation(getEnvOrDefault("TIMEZONE", "UTC")),
	}

	switch cfg.StoreDriver {
	case StorePostgres:
		cfg.DatabaseURL = mustGetEnv("DATABASE_URL")
	case StoreSQLite:
	default:
		panic(fmt.Sprintf("unsupported STORE_DRIVER %q (want %s or %s)", cfg.StoreDriver, StorePostgres, StoreSQLite))
	}

	return cfg
}

// ClientConfig is what trackctl needs to reach a server.
type ClientConfig struct {
	APIURL    string
	Theme     string
	ThemeFile string
	Token     string
	Timeout   time.Duration
}

func LoadClient() *ClientConfig {
	godotenv.Load()

	return &ClientConfig{
		APIURL:    strings.TrimRight(getEnvOrDefault("TRACKER_API_URL", "http://localhost:8080/api"), "/"),
		Theme:     getEnvOrDefault("TRACKER_THEME", "refined"),
		ThemeFile: getEnvOrDefault("TRACKER_THEME_FILE", ""),
		Token:     getEnvOrDefault("TRACKER_TOKEN", ""),
		Timeout:   time.Duration(getEnvAsIntOrDefault("TRACKER_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("invalid TIMEZONE %q: %v", name, err))
	}
	return loc
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
