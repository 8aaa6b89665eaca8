package records_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PromptFeedback/PF-Backend/internal/records"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return gdb, mock
}

func recordColumns() []string {
	return []string{"id", "timestamp", "first_name", "last_name", "prompt",
		"notes", "facilitator_feedback", "password", "workshop_name"}
}

// TestList_NewestFirstWithJoin verifies the ordering contract and that an
// orphaned password (credential deleted) yields a null workshop name instead
// of hiding the record.
func TestList_NewestFirstWithJoin(t *testing.T) {
	now := time.Now()

	gdb, mock := newMockDB(t)
	store := records.NewStore(gdb)

	workshop := "Alpha"
	rows := sqlmock.NewRows(recordColumns()).
		AddRow("r3", now, "Cara", "Chen", "prompt three", "", "", "482913", workshop).
		AddRow("r2", now.Add(-1*time.Hour), "Ben", "Baker", "prompt two", "", "", "482913", workshop).
		AddRow("r1", now.Add(-2*time.Hour), "Ada", "Amos", "prompt one", "", "", "999999", nil)
	mock.ExpectQuery(`SELECT r\.\*, c\.workshop_name AS workshop_name FROM app_records\.records AS r LEFT JOIN app_auth\.credentials c ON c\.password = r\.password ORDER BY r\.timestamp DESC`).
		WillReturnRows(rows)

	got, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got[0].ID != "r3" || got[1].ID != "r2" || got[2].ID != "r1" {
		t.Errorf("expected newest-first order r3,r2,r1, got %s,%s,%s",
			got[0].ID, got[1].ID, got[2].ID)
	}
	if got[0].WorkshopName == nil || *got[0].WorkshopName != "Alpha" {
		t.Errorf("expected joined workshop name Alpha, got %v", got[0].WorkshopName)
	}
	if got[2].WorkshopName != nil {
		t.Errorf("orphaned password must yield a null workshop name, got %v", *got[2].WorkshopName)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestUpdate_TouchesOnlyEditableFields verifies that an admin edit rewrites
// name/prompt/notes/feedback and nothing else — identity and timestamp stay
// out of the statement entirely.
func TestUpdate_TouchesOnlyEditableFields(t *testing.T) {
	gdb, mock := newMockDB(t)
	store := records.NewStore(gdb)

	// gorm orders map-based updates alphabetically by column.
	mock.ExpectExec(`UPDATE "app_records"\."records" SET "facilitator_feedback"=\$1,"first_name"=\$2,"last_name"=\$3,"notes"=\$4,"prompt"=\$5 WHERE id = \$6`).
		WithArgs("ff", "Ada", "Amos", "n", "p", "r1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Update("r1", records.EditableFields{
		FirstName:           "Ada",
		LastName:            "Amos",
		Prompt:              "p",
		Notes:               "n",
		FacilitatorFeedback: "ff",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestDelete_Idempotent verifies deleting an unknown id is not an error.
func TestDelete_Idempotent(t *testing.T) {
	gdb, mock := newMockDB(t)
	store := records.NewStore(gdb)

	mock.ExpectExec(`DELETE FROM "app_records"\."records" WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.Delete("missing"); err != nil {
		t.Errorf("expected deleting an unknown id to succeed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
