package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a single row of the refresh token ledger.
// Rows are never deleted: redeemed tokens are marked used, revoked
// tokens are marked invalidated, so the ledger doubles as an audit trail.
type RefreshToken struct {
	// Opaque random string the client presents; the lookup key
	Token string

	// jti of the access token this refresh token was issued alongside
	JWTID string

	UserID      uuid.UUID
	CreatedAt   time.Time
	ExpiresAt   time.Time
	Used        bool
	Invalidated bool
}
