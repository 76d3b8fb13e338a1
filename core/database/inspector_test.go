package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	// Setup In-Memory DB
	cfg := Config{
		Driver: "sqlite",
		Name:   ":memory:",
	}
	db, err := Connect(cfg)
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_items (id INTEGER PRIMARY KEY, name TEXT, description TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "test_items")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["name"])
	assert.Equal(t, "text", colMap["description"])

	// PRAGMA table_info returns an empty result for a non-existent table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

type inspectedDocument struct {
	ID    uint
	Title string
	Slug  string
}

func TestCheckSchema(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	t.Run("Missing table", func(t *testing.T) {
		issues, err := CheckSchema(db, &inspectedDocument{})
		require.NoError(t, err)
		assert.Equal(t, []SchemaIssue{{Table: "inspected_documents", Issue: "table missing"}}, issues)
	})

	t.Run("Missing column", func(t *testing.T) {
		require.NoError(t, db.Exec("CREATE TABLE inspected_documents (id INTEGER PRIMARY KEY, title TEXT)").Error)

		issues, err := CheckSchema(db, &inspectedDocument{})
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Equal(t, "inspected_documents.slug: column missing", issues[0].String())
	})

	t.Run("Migrated", func(t *testing.T) {
		require.NoError(t, Migrate(db, &inspectedDocument{}))

		issues, err := CheckSchema(db, &SyncState{}, &inspectedDocument{})
		require.NoError(t, err)
		assert.Empty(t, issues)
	})
}
