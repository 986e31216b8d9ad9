package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/taskman/internal/models"
)

// MemoryDSN opens a private in-memory database, handy for tests
const MemoryDSN = ":memory:"

// Open sets up the database connection and runs migrations
func Open(dbPath string) (*gorm.DB, error) {
	if dbPath != MemoryDSN {
		// Ensure the directory exists
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dbPath == MemoryDSN {
		// Every new connection to :memory: is a fresh database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// runMigrations creates/updates the database schema
func runMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.KVEntry{},
		&models.Session{},
	)
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
