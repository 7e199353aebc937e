// Command migrate applies the schema to the configured database. Connect
// already auto-migrates outside production; this command exists for
// production deploys where auto-migration is turned off.
package main

import (
	"log"

	"blogonspot/internal/config"
	"blogonspot/internal/database"
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

	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migration completed")
}
