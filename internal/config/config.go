package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "dev-secret-change-me"

type Config struct {
	Env      string
	Port     int
	LogLevel string

	StoreDriver string
	DBURL       string
	DBMaxConns  int
	SQLitePath  string

	JWTSecret   string
	JWTTTLHours int
	BcryptCost  int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	CORSOrigins     []string
	OTelEndpoint    string
	OTelSampleRatio float64
	MaxBodyBytes    int64

	SeedEmail    string
	SeedPassword string
	SeedName     string
}

func Load() Config {
	// a missing .env file is fine, real deployments pass plain env vars
	_ = godotenv.Load()

	return Config{
		Env:      getEnv("APP_ENV", "dev"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", ""),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "postgres")),
		DBURL:       buildDBURL(),
		DBMaxConns:  getEnvInt("DB_MAX_CONNS", 10),
		SQLitePath:  getEnv("SQLITE_PATH", "invoices.db"),

		JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
		JWTTTLHours: getEnvInt("JWT_TTL_HOURS", 24),
		BcryptCost:  getEnvInt("BCRYPT_COST", 10),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      time.Duration(getEnvInt("CACHE_TTL_SECONDS", 30)) * time.Second,

		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		OTelEndpoint:    getEnv("OTEL_ENDPOINT", ""),
		OTelSampleRatio: getEnvFloat("OTEL_SAMPLE_RATIO", 1),
		MaxBodyBytes:    int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		SeedEmail:    getEnv("SEED_EMAIL", ""),
		SeedPassword: getEnv("SEED_PASSWORD", ""),
		SeedName:     getEnv("SEED_NAME", "Demo User"),
	}
}

// Validate rejects configurations that must never reach a running server.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.JWTTTLHours <= 0 {
		return errors.New("JWT_TTL_HOURS must be positive")
	}

	if c.OTelSampleRatio < 0 || c.OTelSampleRatio > 1 {
		return errors.New("OTEL_SAMPLE_RATIO must be within [0, 1]")
	}

	if c.Env == "prod" && (c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret) {
		return errors.New("JWT_SECRET must be set in prod")
	}

	return nil
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

func buildDBURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "invoicehub")
	pass := getEnv("DB_PASSWORD", "invoicehub")
	name := getEnv("DB_NAME", "invoicehub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fallback
		}
		return f
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
