package config

import "time"

// Config holds runtime settings for the Ayra client CLI.
//
// Units: UnlockWindow and MigrationDelay are time.Durations.
type Config struct {
	// ServerEndpointAddr is the base URL of the Ayra API server.
	ServerEndpointAddr string
	// DatabaseDSN points at the local sqlite metadata store.
	DatabaseDSN string
	// SessionKeyFile holds the key that seals the persisted session blob.
	SessionKeyFile string
	// SignUpRedirect is the confirmation redirect address sent on sign-up.
	SignUpRedirect string
	// UnlockWindow is how long the private space stays unlocked.
	UnlockWindow time.Duration
	// MigrationDelay is the pause between a fresh sign-in and the start of
	// the legacy item import.
	MigrationDelay time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabaseDSN = "ayra.db"
	c.SessionKeyFile = "ayra.key"
	c.SignUpRedirect = ""
	c.UnlockWindow = 5 * time.Minute
	c.MigrationDelay = 2 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
