package page

import (
	"context"
	"testing"

	"content-manager/core/content"
	"content-manager/core/database"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParser(t *testing.T) {
	t.Run("Fields", func(t *testing.T) {
		p, err := NewParser([]byte("+++\ntitle = \"About\"\ndescription = \"Us\"\norder = 3\ndraft = true\n+++\nHello *there*.\n"))
		require.NoError(t, err)

		title, err := p.Title()
		require.NoError(t, err)
		assert.Equal(t, "About", title)

		desc, err := p.Description()
		require.NoError(t, err)
		assert.Equal(t, "Us", desc)

		order, err := p.Order()
		require.NoError(t, err)
		assert.Equal(t, 3, order)

		draft, err := p.Draft()
		require.NoError(t, err)
		assert.True(t, draft)

		body, err := p.Body()
		require.NoError(t, err)
		assert.Contains(t, body, "<em>there</em>")
	})

	t.Run("Missing frontmatter", func(t *testing.T) {
		_, err := NewParser([]byte("# About\n"))
		assert.ErrorIs(t, err, content.ErrSourceMalformed)
	})

	t.Run("Invalid TOML", func(t *testing.T) {
		_, err := NewParser([]byte("+++\ntitle = \n+++\n"))
		assert.ErrorIs(t, err, content.ErrSourceMalformed)
	})

	t.Run("Invalid fields", func(t *testing.T) {
		p, err := NewParser([]byte("+++\norder = -1\ndraft = \"maybe\"\n+++\n# Heading title\n"))
		require.NoError(t, err)

		title, err := p.Title()
		require.NoError(t, err)
		assert.Equal(t, "Heading title", title)

		_, err = p.Order()
		assert.ErrorIs(t, err, content.ErrSourceParsing)
		_, err = p.Draft()
		assert.ErrorIs(t, err, content.ErrSourceParsing)
	})
}

func TestProcessor_URI(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"pages/about.md", "/about", false},
		{"pages/index.md", "/", false},
		{"pages/docs/index.md", "/docs", false},
		{"pages/docs/getting-started.md", "/docs/getting-started", false},
		{"about.md", "", true},
		{"pages/About Us.md", "", true},
		{"pages/about.txt", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			uri, err := NewProcessor(tt.path, nil).URI(context.Background())
			if tt.wantErr {
				assert.ErrorIs(t, err, content.ErrPathScanning)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, uri)
		})
	}
}

func TestHandler(t *testing.T) {
	ctx := context.Background()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Page{}))

	fs := afero.NewMemMapFs()
	s := &content.Session{DB: db, Reader: content.NewFSReader(fs), Logger: zap.NewNop()}

	require.NoError(t, afero.WriteFile(fs, "pages/about.md", []byte("+++\ntitle = \"About\"\ndraft = true\n+++\nBody\n"), 0o644))
	h := NewHandler("pages/about.md", s)
	assert.Equal(t, Kind, h.Kind())

	record, err := h.Insert(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/about (draft)", record.(*Page).String())

	require.NoError(t, afero.WriteFile(fs, "pages/about.md", []byte("+++\ntitle = \"About\"\norder = \"x\"\n+++\n"), 0o644))
	_, err = h.Update(ctx)
	var invalid *content.InvalidFileError
	require.ErrorAs(t, err, &invalid)
	assert.Len(t, invalid.Errors, 1)

	require.NoError(t, h.Delete(ctx))
	_, err = h.Update(ctx)
	assert.ErrorIs(t, err, content.ErrDocumentNotFound)
}
