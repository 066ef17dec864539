// Package testutil provides the shared database fixture for package tests.
// Tests run against an in-memory sqlite database (pure Go driver) with
// foreign key enforcement on, so referential-integrity and cascade behavior
// is exercised for real rather than mocked.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clinrx/clinrx-api/pkg/database"
	"github.com/clinrx/clinrx-api/pkg/metrics"
)

// NewDB opens an isolated in-memory database, migrated to the current
// schema. A single connection keeps the in-memory database and its pragmas
// stable across the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enabling foreign keys: %v", err)
	}

	if err := database.Migrate(db, zap.NewNop()); err != nil {
		t.Fatalf("migrating schema: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewCollector returns a metrics collector bound to a fresh registry so
// parallel tests never collide on metric registration.
func NewCollector() *metrics.Collector {
	return metrics.NewCollector("clinrx_test", prometheus.NewRegistry())
}
