package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/greengenius/greengenius/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// UseTestDatabase points db.DB at a fresh in-memory SQLite database for the
// duration of t.
func UseTestDatabase(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString())

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	// a single connection keeps the shared in-memory database free of
	// table locks between goroutines
	if sqlDB, err := conn.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	previous := db.DB
	db.DB = conn

	if err := db.MigrateDatabase(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
		db.DB = previous
	})

	return conn
}
