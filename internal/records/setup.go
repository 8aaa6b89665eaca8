package records

import (
	"log"

	"github.com/PromptFeedback/PF-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "app_records"); err != nil {
		log.Fatal("Failed to ensure schema app_records: ", err)
	}

	if err := db.DB.AutoMigrate(&Record{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
