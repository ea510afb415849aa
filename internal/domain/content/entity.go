// internal/domain/content/entity.go
package content

import "time"

// Kind groups site content entries
type Kind string

const (
	KindNews    Kind = "news"
	KindMain    Kind = "main"
	KindAbout   Kind = "about"
	KindLicence Kind = "licence"
)

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	switch k {
	case KindNews, KindMain, KindAbout, KindLicence:
		return true
	}
	return false
}

// Entry is a read-only piece of site content such as a news post or the
// licence text. Image is a path or URL managed outside the API.
type Entry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      Kind      `gorm:"not null;size:20;index" json:"-"`
	Title     string    `gorm:"not null;size:255" json:"title"`
	Text      string    `gorm:"type:text" json:"text"`
	Image     string    `gorm:"size:500" json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name for Entry
func (Entry) TableName() string {
	return "content_entries"
}
