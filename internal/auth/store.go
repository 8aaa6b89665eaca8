package auth

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CredentialStore owns the workshop passwords table. All validity decisions go
// through here so that gates re-check the database rather than trusting
// whatever a session remembered at login time.
type CredentialStore struct {
	db             *gorm.DB
	passwordLength int
}

func NewCredentialStore(db *gorm.DB, passwordLength int) *CredentialStore {
	return &CredentialStore{db: db, passwordLength: passwordLength}
}

// Create generates a fresh password and stores it with the given workshop name
// and expiry. Retries a handful of times on the (unlikely) collision with an
// existing code before giving up.
func (s *CredentialStore) Create(workshopName string, expiresAt time.Time) (Credential, error) {
	workshopName = norm.NFC.String(strings.TrimSpace(workshopName))

	for attempt := 0; attempt < 5; attempt++ {
		password, err := GeneratePassword(s.passwordLength)
		if err != nil {
			return Credential{}, err
		}

		cred := Credential{
			Password:     password,
			WorkshopName: workshopName,
			ExpiresAt:    expiresAt,
			CreatedAt:    time.Now(),
		}
		err = s.db.Create(&cred).Error
		if err == nil {
			return cred, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return Credential{}, err
	}
	return Credential{}, errors.New("could not generate a unique password")
}

// Get returns the credential for a password, valid or not.
// gorm.ErrRecordNotFound when absent.
func (s *CredentialStore) Get(password string) (Credential, error) {
	var cred Credential
	err := s.db.First(&cred, "password = ?", password).Error
	return cred, err
}

// IsValid reports whether a credential with that password exists and has not
// reached its expiry. The boundary instant counts as expired.
func (s *CredentialStore) IsValid(password string, now time.Time) (bool, error) {
	cred, err := s.Get(password)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return now.Before(cred.ExpiresAt), nil
}

// List returns all credentials, soonest-to-expire last.
func (s *CredentialStore) List() ([]Credential, error) {
	var creds []Credential
	err := s.db.Order("expires_at DESC").Find(&creds).Error
	return creds, err
}

// Delete removes a credential. Absence is not an error; records tagged with
// the password are left untouched.
func (s *CredentialStore) Delete(password string) error {
	return s.db.Delete(&Credential{}, "password = ?", password).Error
}

// DeleteExpired removes every credential with expiry at or before now and
// returns the deleted set. A cleanup audit row is written whenever anything
// was actually removed.
func (s *CredentialStore) DeleteExpired(now time.Time) ([]Credential, error) {
	var deleted []Credential
	err := s.db.Clauses(clause.Returning{}).
		Where("expires_at <= ?", now).
		Delete(&deleted).Error
	if err != nil {
		return nil, err
	}

	if len(deleted) > 0 {
		run := CleanupRun{
			ID:           uuid.NewString(),
			RanAt:        now,
			DeletedCount: len(deleted),
		}
		for _, cred := range deleted {
			run.DeletedPasswords = append(run.DeletedPasswords, cred.Password)
		}
		if err := s.db.Create(&run).Error; err != nil {
			// The purge itself succeeded; losing the audit row is worth a log
			// line, not a failed request.
			log.Printf("[auth] failed to record cleanup run: %v", err)
		}
	}
	return deleted, nil
}

// CleanupHistory returns past purge runs, newest first.
func (s *CredentialStore) CleanupHistory() ([]CleanupRun, error) {
	var runs []CleanupRun
	err := s.db.Order("ran_at DESC").Find(&runs).Error
	return runs, err
}
