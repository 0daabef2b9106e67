// Package storage is the client's durable key-value store - the equivalent
// of the browser localStorage the web client kept its legacy items, import
// marker, and private-space checksum in. Values are opaque bytes; structured
// values are JSON-serialized by the owning component.
package storage

import "context"

// Repository is the key-value contract the coordinators depend on.
// Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Well-known keys. The names match what the legacy web client used so a
// migrated profile is readable in place.
const (
	KeyLegacyItems     = "ayra.items"
	KeyMigrationDone   = "ayra.migration_done"
	KeyPrivacyChecksum = "ayra.private_password"
	KeySessionBlob     = "ayra.session"
	KeySessionNonce    = "ayra.session_nonce"
)
