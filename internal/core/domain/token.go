package domain

import "time"

// DefaultTokenName is the name recorded for tokens issued by login and registration.
const DefaultTokenName = "api-token"

// AccessToken is the server-side record of an issued bearer token.
// ID doubles as the JWT "jti" claim; deleting the record revokes the token.
type AccessToken struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at instant now.
func (t *AccessToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// Principal is the authenticated identity attached to a request:
// the resolved user and the id of the token that authenticated it.
type Principal struct {
	User    *User
	TokenID string
}
