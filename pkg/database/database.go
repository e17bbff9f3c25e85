package database

import (
	"context"
	"fmt"

	"github.com/jinzhu/gorm"
	"github.com/qysp/pterobot/pkg/models"

	// To create a SQLite3 database with GORM
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// AuditLog stores the power signals sent by the bot.
type AuditLog struct {
	db *gorm.DB
}

// Connect opens the sqlite database at path and migrates the models.
func Connect(path string) (*AuditLog, error) {
	db, err := gorm.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&models.PowerEvent{}).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &AuditLog{db: db}, nil
}

// Record stores a power event.
func (a *AuditLog) Record(ctx context.Context, event *models.PowerEvent) error {
	if err := a.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to record power event: %w", err)
	}
	return nil
}

// Close closes the database.
func (a *AuditLog) Close() error {
	return a.db.Close()
}
