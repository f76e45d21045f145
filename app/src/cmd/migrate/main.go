package main

import (
	_ "latency-dashboard/app/src/infra/utils/autoload"

	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"latency-dashboard/app/src/database"
	"latency-dashboard/app/src/infra"

	_ "github.com/lib/pq"
)

func main() {
	migrationsDir := flag.String("dir", "", "directory with SQL migration files (defaults to MIGRATIONS_DIR)")
	flag.Parse()

	cfg, logger := initEnvironment()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checkDatabaseConnection(ctx, cfg, logger)

	dir := *migrationsDir
	if dir == "" {
		dir = database.ResolveMigrationsDir(cfg)
	}
	runMigrations(ctx, cfg, logger, dir)
}

// ----------------------------
// Вспомогательные функции
// ----------------------------

// initEnvironment загружает конфигурацию и логгер.
func initEnvironment() (infra.Config, *infra.Logger) {
	cfg := infra.LoadConfig()
	logger := infra.NewLogger(os.Stdout, "migrate")
	return cfg, logger
}

// checkDatabaseConnection выполняет проверку соединения с БД.
func checkDatabaseConnection(ctx context.Context, cfg infra.Config, logger *infra.Logger) {
	if !database.ShouldCheckDatabase(cfg) {
		return
	}
	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := database.WaitForDatabase(waitCtx, cfg, logger); err != nil {
		logger.Fatalf(ctx, "database connectivity check failed: %v", err)
	}
}

// runMigrations строит DSN, открывает соединение и применяет миграции.
func runMigrations(ctx context.Context, cfg infra.Config, logger *infra.Logger, migrationsDir string) {
	dsn, err := database.BuildDatabaseDSN(cfg)
	if err != nil {
		logger.Fatalf(ctx, "failed to build database DSN: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatalf(ctx, "failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.ApplyMigrations(ctx, db, migrationsDir, logger); err != nil {
		logger.Fatalf(ctx, "failed to apply migrations: %v", err)
	}

	logger.Println(ctx, "migrations complete")
}
