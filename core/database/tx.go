package database

import (
	"context"
	"errors"
	"fmt"

	"content-manager/core/content"

	"gorm.io/gorm"
)

// ErrTxDone is returned when a transaction is finished twice.
var ErrTxDone = errors.New("transaction already finished")

// Tx is a gorm transaction shared by every handler of a run.
type Tx struct {
	db   *gorm.DB
	done bool
}

// Begin opens a transaction bound to ctx.
func Begin(ctx context.Context, db *gorm.DB) (*Tx, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	return &Tx{db: tx}, nil
}

// Beginner adapts Begin to the content pipeline.
func Beginner(db *gorm.DB) content.BeginFunc {
	return func(ctx context.Context) (content.Transaction, error) {
		return Begin(ctx, db)
	}
}

// DB returns the transactional handle.
func (t *Tx) DB() *gorm.DB {
	return t.db
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	return t.db.Commit().Error
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	return t.db.Rollback().Error
}
