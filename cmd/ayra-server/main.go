package main

import (
	"context"
	"log"
	"os"

	"github.com/ayrahq/ayra/internal/logging"
	"github.com/ayrahq/ayra/internal/server"
	"github.com/ayrahq/ayra/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.NewJSON(os.Stdout)

	app, err := server.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
