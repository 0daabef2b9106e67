package main

import (
	"context"
	"log"
	"os"

	"github.com/ayrahq/ayra/internal/client/cli"
	"github.com/ayrahq/ayra/internal/client/config"
	"github.com/ayrahq/ayra/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.NewJSON(os.Stderr)

	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
