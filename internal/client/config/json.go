package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ayrahq/ayra/internal/flagx"
	"github.com/ayrahq/ayra/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "5m"
// or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	DatabaseDSN        string         `json:"database_dsn"`
	SessionKeyFile     string         `json:"session_key_file"`
	SignUpRedirect     string         `json:"sign_up_redirect"`
	UnlockWindow       timex.Duration `json:"unlock_window"`
	MigrationDelay     timex.Duration `json:"migration_delay"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c/-config flag. Missing file path means no JSON is loaded. Read or
// unmarshal errors panic; config is resolved once at startup.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SessionKeyFile != "" {
		cfg.SessionKeyFile = jc.SessionKeyFile
	}
	if jc.SignUpRedirect != "" {
		cfg.SignUpRedirect = jc.SignUpRedirect
	}
	if jc.UnlockWindow.Duration != 0 {
		cfg.UnlockWindow = time.Duration(jc.UnlockWindow.Duration)
	}
	if jc.MigrationDelay.Duration != 0 {
		cfg.MigrationDelay = time.Duration(jc.MigrationDelay.Duration)
	}
}
