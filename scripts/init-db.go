package main

import (
	"log"

	"order_ledger/internal/config"
	"order_ledger/internal/database"
	"order_ledger/internal/migrations"
)

// Standalone schema + seed runner for fresh installs.
func main() {
	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	log.Println("Database initialized.")
}
