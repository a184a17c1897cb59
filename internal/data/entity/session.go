package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is the opaque authentication boundary: the web layer exchanges a
// bearer token for a user identity. Issuing and revoking sessions happens
// outside this service.
type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Token     uuid.UUID  `db:"token"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}
