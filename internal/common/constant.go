// Package common contains shared constants and sentinel errors used across
// Ayra components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token
// on authenticated requests.
const AuthorizationHeaderName = "Authorization"

// DefaultCategories is the fixed set of category names every account is
// expected to have; the import runner creates them before assigning items.
var DefaultCategories = []string{"Personal", "Work", "School"}
