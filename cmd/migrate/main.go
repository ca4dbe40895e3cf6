// Command migrate applies the database schema. Non-production environments
// migrate automatically on connect; production deployments run this instead.
package main

import (
	"log"

	"lumagram/internal/config"
	"lumagram/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Schema migration applied")
}
