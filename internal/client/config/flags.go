package config

import (
	"flag"
	"os"
	"time"

	"github.com/ayrahq/ayra/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the Ayra API server
//	-d string   sqlite DSN of the local metadata store
//	-k string   path to the session key file
//	-u int      private-space unlock window in seconds
//	-m int      delay before the post-sign-in import in seconds
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-u", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the Ayra API server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "sqlite DSN of the local metadata store")
	fs.StringVar(&cfg.SessionKeyFile, "k", cfg.SessionKeyFile, "path to the session key file")
	unlockWindow := fs.Int("u", int(cfg.UnlockWindow.Seconds()), "private-space unlock window (in seconds)")
	migrationDelay := fs.Int("m", int(cfg.MigrationDelay.Seconds()), "delay before the post-sign-in import (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.UnlockWindow = time.Duration(*unlockWindow) * time.Second
	cfg.MigrationDelay = time.Duration(*migrationDelay) * time.Second
}
