package main

import (
	"log"
	"os"

	"bioez-be/internal/model"
	"bioez-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running AutoMigrate for persisted workspace state...")
	if err := db.AutoMigrate(&model.PersistedState{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	var count int64
	if err := db.Model(&model.PersistedState{}).Count(&count).Error; err != nil {
		log.Fatalf("Error: Failed to count %s: %v", model.PersistedState{}.TableName(), err)
	}
	log.Printf("Migration complete. %s holds %d entries.", model.PersistedState{}.TableName(), count)
}
