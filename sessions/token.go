package sessions

import (
	"time"

	"github.com/jrsteele09/go-auth-frontend/identity"
)

// Token is the durable session record carried in the session cookie.
// It is a value: change it with Merge, never by writing fields of a stored copy.
type Token struct {
	ID           string             // unique per issuance
	User         *identity.Identity // nil until a login populates it
	AccessToken  string             // bearer credential for the backend API
	RefreshToken string
	IssuedAt     time.Time
	ExpiresAt    time.Time // fixed window from IssuedAt
}

func (t Token) HasUser() bool {
	return t.User != nil
}

// Update lists replacement values for Merge. Nil fields keep the old value.
type Update struct {
	ID           *string
	User         *identity.Identity
	AccessToken  *string
	RefreshToken *string
	IssuedAt     *time.Time
	ExpiresAt    *time.Time
}

// Merge returns a new Token built from old with every non-nil field of upd applied.
// old is not modified and the result shares no pointers with old or upd.
func Merge(old Token, upd Update) Token {
	merged := old
	merged.User = old.User.Clone()

	if upd.ID != nil {
		merged.ID = *upd.ID
	}
	if upd.User != nil {
		merged.User = upd.User.Clone()
	}
	if upd.AccessToken != nil {
		merged.AccessToken = *upd.AccessToken
	}
	if upd.RefreshToken != nil {
		merged.RefreshToken = *upd.RefreshToken
	}
	if upd.IssuedAt != nil {
		merged.IssuedAt = *upd.IssuedAt
	}
	if upd.ExpiresAt != nil {
		merged.ExpiresAt = *upd.ExpiresAt
	}
	return merged
}
