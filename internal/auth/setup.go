package auth

import (
	"log"

	"github.com/PromptFeedback/PF-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "app_auth"); err != nil {
		log.Fatal("Failed to ensure schema app_auth: ", err)
	}

	if err := db.DB.AutoMigrate(&Credential{}, &Session{}, &CleanupRun{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
