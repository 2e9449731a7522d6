package pkg

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/SAP-F-2025/exam-service/internal/config"
	"github.com/SAP-F-2025/exam-service/internal/models"
)

func TestOpenDatabase_SQLiteMemory(t *testing.T) {
	db, err := OpenDatabase(config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		URL:         ":memory:",
		AutoMigrate: true,
	}, slog.Default())
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Errorf("MaxOpenConnections = %d, want 1 for in-memory sqlite", got)
	}

	for _, table := range []interface{}{&models.Exam{}, &models.Question{}, &models.Result{}, &models.Answer{}, &models.Course{}, &models.Enrollment{}} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("table for %T not migrated", table)
		}
	}
}

func TestOpenDatabase_UnsupportedDriver(t *testing.T) {
	if _, err := OpenDatabase(config.DatabaseConfig{Driver: "oracle"}, nil); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(&config.Config{RedisURL: "redis://" + mr.Addr() + "/0"})
	if err != nil {
		t.Fatalf("NewRedisClient() error = %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Errorf("miniredis value = %q, want v", got)
	}

	if _, err := NewRedisClient(&config.Config{RedisURL: "://bad"}); err == nil {
		t.Error("expected error for malformed url")
	}
}
