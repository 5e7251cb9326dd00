// Command migrate applies the schema outside of server startup.
// Production deployments run this before rolling new binaries; the
// server itself only auto-migrates in non-production environments.
package main

import (
	"flag"
	"fmt"
	"log"

	"tapforward/internal/config"
	"tapforward/internal/database"
	"tapforward/internal/middleware"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	middleware.InitMiddleware(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Println("schema migration applied")

	return nil
}
