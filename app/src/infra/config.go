package infra

import (
	"context"
	"os"
	"strconv"
	"strings"

	"latency-dashboard/app/src/infra/utils"
)

type Config struct {
	AppPort     string
	MetricsPort string

	DatabaseDSN          string
	DatabaseHost         string
	DatabasePort         string
	DatabaseUser         string
	DatabasePassword     string
	DatabaseName         string
	DatabaseMaxOpenConns int
	DatabaseMaxIdleConns int
	DatabaseConnLifeMS   int
	DatabaseQueryTimeout int

	StaticDir     string
	MigrationsDir string

	ProbeEnabled    bool
	ProbeIntervalMS int
	ProbeBrokers    []string
	WorkerCount     int
	RecordBuffer    int
}

func LoadConfig() Config {
	return Config{
		AppPort:     getEnv("APP_PORT", "3000"),
		MetricsPort: getEnv("METRICS_PORT", "2112"),

		DatabaseDSN:          os.Getenv("DB_DSN"),
		DatabaseHost:         getEnv("DB_HOST", "localhost"),
		DatabasePort:         getEnv("DB_PORT", "5432"),
		DatabaseUser:         firstEnv("DB_USER", "POSTGRES_USER"),
		DatabasePassword:     firstEnv("DB_PASSWORD", "POSTGRES_PASSWORD"),
		DatabaseName:         firstEnv("DB_NAME", "POSTGRES_DB"),
		DatabaseMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DatabaseMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DatabaseConnLifeMS:   getEnvInt("DB_CONN_MAX_LIFETIME_MS", 300000),
		DatabaseQueryTimeout: getEnvInt("DB_QUERY_TIMEOUT_MS", 5000),

		StaticDir:     getEnv("STATIC_DIR", "app/public"),
		MigrationsDir: os.Getenv("MIGRATIONS_DIR"),

		ProbeEnabled:    getEnvBool("PROBE_ENABLED", false),
		ProbeIntervalMS: getEnvInt("PROBE_INTERVAL_MS", 1000),
		ProbeBrokers:    getEnvList("PROBE_BROKERS"),
		WorkerCount:     getEnvInt("WORKER_COUNT", 4),
		RecordBuffer:    getEnvInt("RECORD_BUFFER", 100),
	}
}

func LogConfig(ctx context.Context, logger *Logger, cfg Config) {
	logger.Printf(ctx, "APP_PORT=%s", cfg.AppPort)
	logger.Printf(ctx, "METRICS_PORT=%s", utils.EmptyFallback(cfg.MetricsPort, "(disabled)"))
	if cfg.DatabaseDSN != "" {
		logger.Printf(ctx, "DB_DSN set (length %d)", len(cfg.DatabaseDSN))
	} else {
		logger.Println(ctx, "DB_DSN not provided")
	}
	logger.Printf(ctx, "DB_HOST=%s", utils.EmptyFallback(cfg.DatabaseHost, "(not set)"))
	logger.Printf(ctx, "DB_PORT=%s", utils.EmptyFallback(cfg.DatabasePort, "(not set)"))
	logger.Printf(ctx, "DB_USER=%s", utils.EmptyFallback(cfg.DatabaseUser, "(not set)"))
	if cfg.DatabasePassword != "" {
		logger.Println(ctx, "DB_PASSWORD set (redacted)")
	} else {
		logger.Println(ctx, "DB_PASSWORD not provided")
	}
	logger.Printf(ctx, "DB_NAME=%s", utils.EmptyFallback(cfg.DatabaseName, "(not set)"))
	logger.Printf(ctx, "DB_MAX_OPEN_CONNS=%d", cfg.DatabaseMaxOpenConns)
	logger.Printf(ctx, "DB_MAX_IDLE_CONNS=%d", cfg.DatabaseMaxIdleConns)
	logger.Printf(ctx, "DB_CONN_MAX_LIFETIME_MS=%d", cfg.DatabaseConnLifeMS)
	logger.Printf(ctx, "DB_QUERY_TIMEOUT_MS=%d", cfg.DatabaseQueryTimeout)
	logger.Printf(ctx, "STATIC_DIR=%s", cfg.StaticDir)
	logger.Printf(ctx, "PROBE_ENABLED=%t", cfg.ProbeEnabled)
	logger.Printf(ctx, "PROBE_INTERVAL_MS=%d", cfg.ProbeIntervalMS)
	logger.Printf(ctx, "WORKER_COUNT=%d", cfg.WorkerCount)
	logger.Printf(ctx, "RECORD_BUFFER=%d", cfg.RecordBuffer)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// firstEnv returns the first non-empty value among the provided keys. The
// DB_* names take precedence over the POSTGRES_* aliases kept for
// compatibility with existing deployments.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
