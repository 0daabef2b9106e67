// Package models defines client-side data models used by the Ayra client:
// remote DTOs (items, categories, sessions) and the legacy local item format
// the import runner consumes.
package models

import "time"

// ItemType classifies an item kind.
type ItemType string

const (
	ItemTypeNote  ItemType = "note"
	ItemTypePDF   ItemType = "pdf"
	ItemTypeLink  ItemType = "link"
	ItemTypeVideo ItemType = "video"
	ItemTypeImage ItemType = "image"
	ItemTypeFile  ItemType = "file"
)

// FileBearing reports whether items of this type carry a binary payload that
// must be uploaded to file storage.
func (t ItemType) FileBearing() bool {
	switch t {
	case ItemTypePDF, ItemTypeImage, ItemTypeFile:
		return true
	}
	return false
}

// Item is an item as the remote store returns it.
type Item struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Type       ItemType  `json:"type"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	URL        string    `json:"url,omitempty"`
	FileKey    string    `json:"file_key,omitempty"`
	CategoryID string    `json:"category_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewItem is the payload for creating an item remotely.
type NewItem struct {
	Title      string   `json:"title"`
	Type       ItemType `json:"type"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	URL        string   `json:"url,omitempty"`
	FileKey    string   `json:"file_key,omitempty"`
	CategoryID string   `json:"category_id,omitempty"`
}

// Category is a named partition grouping items, analogous to a folder.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User identifies the authenticated account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session holds the tokens issued by the identity provider.
type Session struct {
	User         User      `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token lifetime has lapsed.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
