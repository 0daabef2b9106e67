// Package models defines the server-side persistence models.
package models

import "time"

// User is an account row. Verifier is the SHA-256 of the argon2id-derived
// key; the password itself is never stored.
type User struct {
	ID       string
	Email    string
	Salt     []byte
	Verifier []byte
}

// RefreshToken is a server-stored, rotating long-lived credential.
type RefreshToken struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// Category is a named partition of a user's items.
type Category struct {
	ID     string
	UserID string
	Name   string
}

// Item is a stored knowledge item. FileKey references object storage when
// the item carries a binary payload; URL is set for link items.
type Item struct {
	ID         string
	UserID     string
	Title      string
	Type       string
	Content    string
	Tags       []string
	URL        string
	FileKey    string
	CategoryID string
	CreatedAt  time.Time
}
