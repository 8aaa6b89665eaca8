package auth

import (
	"errors"
	"time"

	"github.com/PromptFeedback/PF-Backend/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredential      = errors.New("invalid or expired workshop password")
	ErrInvalidAdminCredential = errors.New("invalid admin password")
	ErrNoSession              = errors.New("no active session")
)

// SessionManager owns the sessions table. Sessions live in the database keyed
// by the cookie token, so the store stays the single synchronization point and
// restarts don't log the room out.
type SessionManager struct {
	db    *gorm.DB
	creds *CredentialStore
	ttl   time.Duration
}

func NewSessionManager(db *gorm.DB, creds *CredentialStore, ttl time.Duration) *SessionManager {
	return &SessionManager{db: db, creds: creds, ttl: ttl}
}

// Get returns the live session for a token. Expired rows are treated the same
// as missing ones.
func (m *SessionManager) Get(token string, now time.Time) (Session, error) {
	var session Session
	err := m.db.First(&session, "session_id = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}
	if !now.Before(session.ExpiresAt) {
		return Session{}, ErrNoSession
	}
	return session, nil
}

// LoginParticipant validates the workshop password and binds it to the session
// for token (creating the session if the browser has none yet). An admin flag
// already on the session is preserved — the two roles are independent.
func (m *SessionManager) LoginParticipant(token, password string, now time.Time) (Session, error) {
	cred, err := m.creds.Get(password)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Session{}, ErrInvalidCredential
	}
	if err != nil {
		return Session{}, err
	}
	if !now.Before(cred.ExpiresAt) {
		return Session{}, ErrInvalidCredential
	}

	return m.upsert(token, now, func(s *Session) {
		s.Participant = true
		s.BoundPassword = cred.Password
		s.WorkshopName = cred.WorkshopName
	})
}

// LoginAdmin marks the session admin-authenticated. The caller has already
// verified the admin secret; participant state on the session is preserved.
func (m *SessionManager) LoginAdmin(token string, now time.Time) (Session, error) {
	return m.upsert(token, now, func(s *Session) {
		s.IsAdmin = true
	})
}

// Destroy deletes the session row entirely. Used by logout and by the strict
// gate when a bound credential turns out to be revoked.
func (m *SessionManager) Destroy(token string) error {
	return m.db.Delete(&Session{}, "session_id = ?", token).Error
}

// upsert loads the existing live session (or starts a fresh one), applies the
// mutation and saves. The expiry window is fixed at creation; re-login through
// an existing session keeps its original deadline.
func (m *SessionManager) upsert(token string, now time.Time, mutate func(*Session)) (Session, error) {
	session, err := m.Get(token, now)
	switch {
	case err == nil:
		// Existing live session; rebind in place.
	case errors.Is(err, ErrNoSession):
		session = Session{
			SessionID: uuid.NewString(),
			ExpiresAt: now.Add(m.ttl),
		}
	default:
		return Session{}, err
	}

	mutate(&session)
	if err := m.db.Save(&session).Error; err != nil {
		return Session{}, err
	}
	return session, nil
}

// FindSessionByID implements the middleware SessionFetcher contract.
func (m *SessionManager) FindSessionByID(id string) (utils.SessionData, error) {
	session, err := m.Get(id, time.Now())
	if err != nil {
		return utils.SessionData{}, err
	}
	return utils.SessionData{
		SessionID:     session.SessionID,
		Participant:   session.Participant,
		BoundPassword: session.BoundPassword,
		WorkshopName:  session.WorkshopName,
		IsAdmin:       session.IsAdmin,
		ExpiresAt:     session.ExpiresAt,
	}, nil
}
