package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncState remembers the last revision committed for a content root.
type SyncState struct {
	ID        uint      `gorm:"primaryKey"`
	Root      string    `gorm:"size:512;uniqueIndex"`
	Revision  string    `gorm:"size:64;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the table name.
func (SyncState) TableName() string {
	return "sync_states"
}

// LastRevision returns the last synchronized revision of root, or "" if none.
func LastRevision(ctx context.Context, db *gorm.DB, root string) (string, error) {
	var state SyncState
	err := db.WithContext(ctx).Where("root = ?", root).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read sync state: %w", err)
	}
	return state.Revision, nil
}

// SaveRevision records revision as synchronized for root.
func SaveRevision(ctx context.Context, db *gorm.DB, root, revision string) error {
	state := SyncState{Root: root, Revision: revision, UpdatedAt: time.Now()}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "root"}},
		DoUpdates: clause.AssignmentColumns([]string{"revision", "updated_at"}),
	}).Create(&state).Error
	if err != nil {
		return fmt.Errorf("failed to save sync state: %w", err)
	}
	return nil
}

// Migrate creates or updates the tables of models, plus the sync state table.
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(append([]any{&SyncState{}}, models...)...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
