package asset

import (
	"fmt"
	"time"
)

// Asset is a binary file mirrored to object storage.
type Asset struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SourcePath  string    `gorm:"uniqueIndex;size:512;not null" json:"source_path"`
	ObjectName  string    `gorm:"uniqueIndex;size:768;not null" json:"object_name"`
	ContentType string    `gorm:"size:128" json:"content_type"`
	Size        int64     `json:"size"`
	Checksum    string    `gorm:"size:64" json:"checksum"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName overrides the table name used by Asset.
func (Asset) TableName() string {
	return "assets"
}

func (a *Asset) String() string {
	return fmt.Sprintf("%s (%s, %d bytes)", a.ObjectName, a.ContentType, a.Size)
}

// Attributes are the values derived from an asset file.
type Attributes struct {
	ObjectName  string
	ContentType string
	Size        int64
	Checksum    string
	Data        []byte
}
