package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"latency-dashboard/app/src/infra"

	"github.com/stretchr/testify/assert"
)

func TestResolveMigrationsDir(t *testing.T) {
	assert.Equal(t, defaultMigrationsDir, ResolveMigrationsDir(infra.Config{}))
	assert.Equal(t, "/custom", ResolveMigrationsDir(infra.Config{MigrationsDir: "/custom"}))
	assert.Equal(t, defaultMigrationsDir, ResolveMigrationsDir(infra.Config{MigrationsDir: "   "}))
}

func TestApplyMigrationsRequiresDirectory(t *testing.T) {
	err := ApplyMigrations(context.Background(), nil, "", nil)
	assert.Error(t, err)
}

func TestApplyMigrationsMissingDirectory(t *testing.T) {
	err := ApplyMigrations(context.Background(), nil, filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}

func TestApplyMigrationsNoFilesIsNoop(t *testing.T) {
	t.Log("Шаг 1: каталог без .sql файлов не трогает базу")
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore"), 0o600))

	err := ApplyMigrations(context.Background(), nil, dir, nil)
	assert.NoError(t, err)
}

func TestApplyMigrationsSkipsEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "0001_empty.sql"), []byte("   \n"), 0o600))

	err := ApplyMigrations(context.Background(), nil, dir, nil)
	assert.NoError(t, err)
}

func TestBundledMigrationCreatesOrderLatency(t *testing.T) {
	t.Log("Шаг 1: проверяем, что штатная миграция описывает таблицу order_latency")
	contents, err := os.ReadFile(filepath.Join("..", "..", "resources", "db", "migrations", "0001_create_order_latency.sql"))
	assert.NoError(t, err)
	assert.Contains(t, string(contents), "CREATE TABLE IF NOT EXISTS order_latency")
	assert.Contains(t, string(contents), "idx_order_latency_timestamp")
}
