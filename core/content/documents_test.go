package content

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type note struct {
	ID         uint   `gorm:"primaryKey"`
	SourcePath string `gorm:"uniqueIndex;size:512"`
	Text       string
}

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&note{}))
	return db
}

func TestDocuments(t *testing.T) {
	ctx := context.Background()
	docs := NewDocuments[note](setupSQLite(t))

	t.Run("Create then get", func(t *testing.T) {
		require.NoError(t, docs.Create(ctx, "a.md", &note{SourcePath: "a.md", Text: "A"}))

		got, err := docs.Get(ctx, "a.md")
		require.NoError(t, err)
		assert.Equal(t, "A", got.Text)
	})

	t.Run("Create existing path", func(t *testing.T) {
		err := docs.Create(ctx, "a.md", &note{SourcePath: "a.md"})
		assert.ErrorIs(t, err, ErrDocumentExists)
	})

	t.Run("Get missing path", func(t *testing.T) {
		_, err := docs.Get(ctx, "missing.md")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("Save", func(t *testing.T) {
		got, err := docs.Get(ctx, "a.md")
		require.NoError(t, err)
		got.Text = "B"
		require.NoError(t, docs.Save(ctx, got))

		got, err = docs.Get(ctx, "a.md")
		require.NoError(t, err)
		assert.Equal(t, "B", got.Text)
	})

	t.Run("Move", func(t *testing.T) {
		require.NoError(t, docs.Move(ctx, "a.md", "b.md"))

		exists, err := docs.Exists(ctx, "a.md")
		require.NoError(t, err)
		assert.False(t, exists)

		got, err := docs.Get(ctx, "b.md")
		require.NoError(t, err)
		assert.Equal(t, "B", got.Text)

		assert.ErrorIs(t, docs.Move(ctx, "a.md", "c.md"), ErrDocumentNotFound)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, docs.Remove(ctx, "b.md"))
		assert.ErrorIs(t, docs.Remove(ctx, "b.md"), ErrDocumentNotFound)
	})
}
