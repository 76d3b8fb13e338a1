package page

import "time"

// Page is a standalone page stored from a Markdown source.
type Page struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SourcePath  string    `gorm:"uniqueIndex;size:512;not null" json:"source_path"`
	URI         string    `gorm:"uniqueIndex;size:512;not null" json:"uri"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"size:512" json:"description"`
	Body        string    `gorm:"type:text" json:"body"`
	Position    int       `gorm:"not null;default:0" json:"position"`
	Draft       bool      `gorm:"not null;default:false" json:"draft"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName overrides the table name used by Page.
func (Page) TableName() string {
	return "pages"
}

func (p *Page) String() string {
	if p.Draft {
		return p.URI + " (draft)"
	}
	return p.URI
}

// Attributes are the values derived from a page source file.
type Attributes struct {
	URI         string
	Title       string
	Description string
	Body        string
	Position    int
	Draft       bool
}

func (attrs Attributes) apply(p *Page) {
	p.URI = attrs.URI
	p.Title = attrs.Title
	p.Description = attrs.Description
	p.Body = attrs.Body
	p.Position = attrs.Position
	p.Draft = attrs.Draft
}
