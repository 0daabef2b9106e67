package models

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// LegacyItem is the pre-import, loosely-typed item shape kept by older
// clients in local storage. Every field is optional; Normalize applies the
// defaulting rules instead of letting callers duck-type their way through.
type LegacyItem struct {
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Content     string   `json:"content"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Tags        []string `json:"tags"`
	DataURL     string   `json:"dataUrl"`
	FileName    string   `json:"fileName"`
	URL         string   `json:"url"`
	CreatedAt   string   `json:"createdAt"`
}

// Normalized is a LegacyItem after defaulting: a concrete item payload plus
// the optional file payload and original timestamp the import runner needs.
type Normalized struct {
	Title     string
	Type      ItemType
	Content   string
	Tags      []string
	URL       string
	CreatedAt time.Time // zero when the legacy item carried no timestamp
}

var ErrBadDataURL = errors.New("malformed data url")

// Normalize applies the legacy defaulting rules:
// title falls back to "Untitled", type to "note" (lower-cased), content to
// description to empty, tags to keywords to tags to empty.
func (li LegacyItem) Normalize() Normalized {
	n := Normalized{
		Title:   li.Title,
		Type:    ItemType(strings.ToLower(strings.TrimSpace(li.Type))),
		Content: li.Content,
		URL:     li.URL,
	}
	if n.Title == "" {
		n.Title = "Untitled"
	}
	if n.Type == "" {
		n.Type = ItemTypeNote
	}
	if n.Content == "" {
		n.Content = li.Description
	}
	switch {
	case len(li.Keywords) > 0:
		n.Tags = li.Keywords
	case len(li.Tags) > 0:
		n.Tags = li.Tags
	default:
		n.Tags = []string{}
	}
	if li.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, li.CreatedAt); err == nil {
			n.CreatedAt = ts
		}
	}
	return n
}

// HasFilePayload reports whether this legacy item represents an embedded
// file: a file-bearing type carrying a data-URI payload.
func (li LegacyItem) HasFilePayload() bool {
	n := li.Normalize()
	return n.Type.FileBearing() && li.DataURL != ""
}

// DecodeDataURL decodes the embedded data-URI payload into raw bytes.
// Only base64-encoded data URIs are supported, which is what the legacy
// clients produced.
func (li LegacyItem) DecodeDataURL() ([]byte, error) {
	u := li.DataURL
	if !strings.HasPrefix(u, "data:") {
		return nil, fmt.Errorf("%w: missing data: prefix", ErrBadDataURL)
	}
	comma := strings.IndexByte(u, ',')
	if comma < 0 {
		return nil, fmt.Errorf("%w: missing payload separator", ErrBadDataURL)
	}
	meta, payload := u[len("data:"):comma], u[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: only base64 payloads supported", ErrBadDataURL)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDataURL, err)
	}
	return raw, nil
}

// ParseLegacyItems decodes the serialized legacy collection. A nil slice with
// a nil error means the collection was missing; a decode failure is reported
// so the caller can treat the collection as malformed.
func ParseLegacyItems(data []byte) ([]LegacyItem, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var items []LegacyItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode legacy items: %w", err)
	}
	return items, nil
}
