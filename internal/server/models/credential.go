package models

import "time"

// Credential binds an email to a secret hash and the current
// refresh-session state. It is the only entity this service persists.
//
// RefreshToken and RefreshTokenExpiry are either both set or both empty:
// an empty RefreshToken means no refresh session exists. An expiry in the
// past means the session is treated as absent for authorization purposes,
// but the row itself is never deleted.
type Credential struct {
	ID                 string
	UserID             string
	Email              string
	PasswordHash       string
	RefreshToken       string
	RefreshTokenExpiry time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasActiveSession reports whether an unexpired refresh session exists
// at the given instant.
func (c *Credential) HasActiveSession(now time.Time) bool {
	return c.RefreshToken != "" && now.Before(c.RefreshTokenExpiry)
}
