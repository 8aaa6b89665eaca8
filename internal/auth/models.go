package auth

import (
	"time"

	"github.com/lib/pq"
)

// Credential is a time-limited shared workshop password. The password value is
// the primary key; it is generated server-side and revealed in cleartext only
// once, in the response to the create call.
type Credential struct {
	Password     string    `gorm:"primaryKey" json:"password"`
	WorkshopName string    `gorm:"not null" json:"workshopName"`
	ExpiresAt    time.Time `gorm:"not null" json:"expiryDate"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is one browser's authentication state, keyed by the cookie token.
// Participant and admin authentication are independent flags; a browser can
// hold either or both.
type Session struct {
	SessionID     string    `gorm:"primaryKey" json:"-"`
	Participant   bool      `json:"-"`
	BoundPassword string    `json:"-"`
	WorkshopName  string    `json:"-"`
	IsAdmin       bool      `json:"-"`
	ExpiresAt     time.Time `gorm:"not null" json:"-"`
}

// CleanupRun is an audit row written every time expired passwords are purged,
// so the deleted set survives beyond the purge response.
type CleanupRun struct {
	ID               string         `gorm:"primaryKey" json:"id"`
	RanAt            time.Time      `gorm:"not null" json:"ranAt"`
	DeletedCount     int            `json:"deletedCount"`
	DeletedPasswords pq.StringArray `gorm:"type:text[]" json:"deletedPasswords"`
}

func (Credential) TableName() string { return "app_auth.credentials" }
func (Session) TableName() string    { return "app_auth.sessions" }
func (CleanupRun) TableName() string { return "app_auth.cleanup_runs" }
