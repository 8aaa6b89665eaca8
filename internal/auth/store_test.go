package auth_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PromptFeedback/PF-Backend/internal/auth"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB opens a gorm handle over a sqlmock connection, so store queries
// can be tested without a live Postgres.
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
		TranslateError:         true,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return gdb, mock
}

func credentialRows(password, workshop string, expiresAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"password", "workshop_name", "expires_at", "created_at"}).
		AddRow(password, workshop, expiresAt, expiresAt.Add(-1*time.Hour))
}

// TestIsValid_AcrossExpiryBoundary pins the validity predicate: a credential
// is valid strictly before its expiry, and invalid at the boundary instant.
func TestIsValid_AcrossExpiryBoundary(t *testing.T) {
	now := time.Now()
	expiry := now.Add(1 * time.Hour)

	gdb, mock := newMockDB(t)
	store := auth.NewCredentialStore(gdb, 6)

	selectCredential := `SELECT \* FROM "app_auth"\."credentials" WHERE password = \$1`

	// Before expiry: valid.
	mock.ExpectQuery(selectCredential).
		WithArgs("482913", 1).
		WillReturnRows(credentialRows("482913", "Alpha", expiry))
	valid, err := store.IsValid("482913", now)
	if err != nil {
		t.Fatalf("IsValid: %v", err)
	}
	if !valid {
		t.Error("expected credential to be valid before expiry")
	}

	// Exactly at expiry: invalid.
	mock.ExpectQuery(selectCredential).
		WithArgs("482913", 1).
		WillReturnRows(credentialRows("482913", "Alpha", expiry))
	valid, err = store.IsValid("482913", expiry)
	if err != nil {
		t.Fatalf("IsValid at boundary: %v", err)
	}
	if valid {
		t.Error("expected credential to be invalid at the expiry instant")
	}

	// Unknown password: invalid, not an error.
	mock.ExpectQuery(selectCredential).
		WithArgs("000000", 1).
		WillReturnRows(sqlmock.NewRows([]string{"password", "workshop_name", "expires_at", "created_at"}))
	valid, err = store.IsValid("000000", now)
	if err != nil {
		t.Fatalf("IsValid for missing credential: %v", err)
	}
	if valid {
		t.Error("expected missing credential to be invalid")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestDelete_Idempotent verifies deleting an absent password is not an error.
func TestDelete_Idempotent(t *testing.T) {
	gdb, mock := newMockDB(t)
	store := auth.NewCredentialStore(gdb, 6)

	mock.ExpectExec(`DELETE FROM "app_auth"\."credentials" WHERE password = \$1`).
		WithArgs("482913").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.Delete("482913"); err != nil {
		t.Errorf("expected deleting an absent password to succeed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestDeleteExpired_NothingToDelete verifies an empty purge returns an empty
// set and writes no audit row.
func TestDeleteExpired_NothingToDelete(t *testing.T) {
	gdb, mock := newMockDB(t)
	store := auth.NewCredentialStore(gdb, 6)

	mock.ExpectQuery(`DELETE FROM "app_auth"\."credentials" WHERE expires_at <= \$1 RETURNING`).
		WillReturnRows(sqlmock.NewRows([]string{"password", "workshop_name", "expires_at", "created_at"}))

	deleted, err := store.DeleteExpired(time.Now())
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if len(deleted) != 0 {
		t.Errorf("expected empty deleted set, got %v", deleted)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestDeleteExpired_ReturnsDeletedSet verifies the purge returns exactly the
// removed credentials and records an audit row listing their passwords.
func TestDeleteExpired_ReturnsDeletedSet(t *testing.T) {
	now := time.Now()

	gdb, mock := newMockDB(t)
	store := auth.NewCredentialStore(gdb, 6)

	rows := sqlmock.NewRows([]string{"password", "workshop_name", "expires_at", "created_at"}).
		AddRow("111111", "Alpha", now.Add(-2*time.Hour), now.Add(-3*time.Hour)).
		AddRow("222222", "Beta", now.Add(-1*time.Hour), now.Add(-3*time.Hour))
	mock.ExpectQuery(`DELETE FROM "app_auth"\."credentials" WHERE expires_at <= \$1 RETURNING`).
		WillReturnRows(rows)
	mock.ExpectExec(`INSERT INTO "app_auth"\."cleanup_runs"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := store.DeleteExpired(now)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if len(deleted) != 2 {
		t.Fatalf("expected 2 deleted credentials, got %d", len(deleted))
	}
	if deleted[0].Password != "111111" || deleted[1].Password != "222222" {
		t.Errorf("unexpected deleted set: %v", deleted)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestList_OrdersByExpiryDescending verifies the list contract.
func TestList_OrdersByExpiryDescending(t *testing.T) {
	now := time.Now()

	gdb, mock := newMockDB(t)
	store := auth.NewCredentialStore(gdb, 6)

	rows := sqlmock.NewRows([]string{"password", "workshop_name", "expires_at", "created_at"}).
		AddRow("333333", "Gamma", now.Add(48*time.Hour), now).
		AddRow("111111", "Alpha", now.Add(24*time.Hour), now)
	mock.ExpectQuery(`SELECT \* FROM "app_auth"\."credentials" ORDER BY expires_at DESC`).
		WillReturnRows(rows)

	creds, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(creds) != 2 || creds[0].Password != "333333" {
		t.Errorf("unexpected list: %v", creds)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
