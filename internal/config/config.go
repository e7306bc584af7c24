package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the runtime settings for the server, worker and seed
// binaries. Everything comes from the environment; mains load a .env first.
type Config struct {
	Port        string
	Environment string
	CORSOrigins string

	DatabaseURL string
	TablePrefix string

	// Local HS256 token issuance. Ignored for verification when JWKSURL is
	// set, in which case an external identity provider issues tokens.
	TokenSecret string
	TokenTTL    time.Duration
	JWKSURL     string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ExtractionWorkers int
	ReconcileInterval time.Duration

	// Seed admin bootstrap.
	AdminEmail      string
	AdminPassword   string
	AdminDepartment string
}

// Load reads configuration from the environment.
func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		TablePrefix: getTablePrefix(env),

		TokenSecret: getEnv("TOKEN_SECRET", ""),
		TokenTTL:    getDuration("TOKEN_TTL", 30*time.Minute),
		JWKSURL:     getEnv("AUTH_JWKS_URL", ""),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "docvault"),
		MinioUseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		ExtractionWorkers: getInt("EXTRACTION_WORKERS", 4),
		ReconcileInterval: getDuration("RECONCILE_INTERVAL", 0),

		AdminEmail:      getEnv("ADMIN_EMAIL", ""),
		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		AdminDepartment: getEnv("ADMIN_DEPARTMENT_ID", ""),
	}
}

// getTablePrefix returns the table prefix based on environment.
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
