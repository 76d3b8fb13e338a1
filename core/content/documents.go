package content

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// SourcePathColumn is the column every document table is keyed by.
const SourcePathColumn = "source_path"

// Documents is the persistence helper shared by handlers. It stores models of
// type M keyed by their source path, inside the run's transaction.
type Documents[M any] struct {
	db *gorm.DB
}

// NewDocuments binds the helper to a (transactional) handle.
func NewDocuments[M any](db *gorm.DB) Documents[M] {
	return Documents[M]{db: db}
}

// Get returns the document stored for path.
func (d Documents[M]) Get(ctx context.Context, path string) (*M, error) {
	var model M
	err := d.db.WithContext(ctx).Where(SourcePathColumn+" = ?", path).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
	}
	if err != nil {
		return nil, DBError(err)
	}
	return &model, nil
}

// Exists reports whether a document is stored for path.
func (d Documents[M]) Exists(ctx context.Context, path string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(new(M)).Where(SourcePathColumn+" = ?", path).Count(&count).Error
	if err != nil {
		return false, DBError(err)
	}
	return count > 0, nil
}

// Create inserts model. It fails with ErrDocumentExists when path is taken.
func (d Documents[M]) Create(ctx context.Context, path string, model *M) error {
	exists, err := d.Exists(ctx, path)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDocumentExists, path)
	}
	if err := d.db.WithContext(ctx).Create(model).Error; err != nil {
		return DBError(err)
	}
	return nil
}

// Save writes every field of an already stored model.
func (d Documents[M]) Save(ctx context.Context, model *M) error {
	if err := d.db.WithContext(ctx).Save(model).Error; err != nil {
		return DBError(err)
	}
	return nil
}

// Move changes the source path of a stored document.
func (d Documents[M]) Move(ctx context.Context, from, to string) error {
	res := d.db.WithContext(ctx).Model(new(M)).Where(SourcePathColumn+" = ?", from).Update(SourcePathColumn, to)
	if res.Error != nil {
		return DBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, from)
	}
	return nil
}

// Remove deletes the document stored for path.
func (d Documents[M]) Remove(ctx context.Context, path string) error {
	res := d.db.WithContext(ctx).Where(SourcePathColumn+" = ?", path).Delete(new(M))
	if res.Error != nil {
		return DBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
	}
	return nil
}
