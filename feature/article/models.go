package article

import (
	"strings"
	"time"
)

// Article is a blog post stored from a Markdown source.
type Article struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SourcePath  string    `gorm:"uniqueIndex;size:512;not null" json:"source_path"`
	URI         string    `gorm:"uniqueIndex;size:512;not null" json:"uri"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Lead        string    `gorm:"type:text" json:"lead"`
	Body        string    `gorm:"type:text" json:"body"`
	Language    string    `gorm:"size:8" json:"language"`
	Tags        string    `gorm:"size:512" json:"tags"`
	PublishedAt time.Time `json:"published_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName overrides the table name used by Article.
func (Article) TableName() string {
	return "articles"
}

// TagList splits the stored tags.
func (a *Article) TagList() []string {
	if a.Tags == "" {
		return nil
	}
	return strings.Split(a.Tags, ",")
}

func (a *Article) String() string {
	return a.URI
}

// Attributes are the values derived from an article source file.
type Attributes struct {
	URI         string
	Title       string
	Lead        string
	Body        string
	Language    string
	Tags        []string
	PublishedAt time.Time
}

// apply copies the attributes onto a.
func (attrs Attributes) apply(a *Article) {
	a.URI = attrs.URI
	a.Title = attrs.Title
	a.Lead = attrs.Lead
	a.Body = attrs.Body
	a.Language = attrs.Language
	a.Tags = strings.Join(attrs.Tags, ",")
	a.PublishedAt = attrs.PublishedAt
}
