package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		delim     string
		wantFront string
		wantBody  string
		wantOK    bool
	}{
		{"YAML", "---\ntitle: A\n---\n# Body", YAMLDelimiter, "title: A", "# Body", true},
		{"TOML", "+++\ntitle = 'A'\n+++\nBody", TOMLDelimiter, "title = 'A'", "Body", true},
		{"Empty frontmatter", "---\n---\nBody", YAMLDelimiter, "", "Body", true},
		{"No frontmatter", "# Body", YAMLDelimiter, "", "# Body", false},
		{"Unclosed", "---\ntitle: A\n# Body", YAMLDelimiter, "", "---\ntitle: A\n# Body", false},
		{"Other delimiter", "+++\na = 1\n+++\n", YAMLDelimiter, "", "+++\na = 1\n+++\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			front, body, ok := SplitFrontmatter([]byte(tt.content), tt.delim)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantFront, string(front))
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestDocument(t *testing.T) {
	doc := Parse([]byte("# Hello *World*\n\nFirst paragraph\ncontinues here.\n\n- item\n\nSecond.\n"))

	assert.Equal(t, "Hello World", doc.Title())
	assert.Equal(t, "First paragraph continues here.", doc.Lead())

	html, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Hello <em>World</em></h1>")
	assert.Contains(t, html, "<li>item</li>")
}

func TestDocument_Empty(t *testing.T) {
	doc := Parse(nil)
	assert.Empty(t, doc.Title())
	assert.Empty(t, doc.Lead())
}
