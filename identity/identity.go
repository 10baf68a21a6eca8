package identity

import "time"

// Provider names as they appear on the wire and in sign-in URLs.
const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
	ProviderFacebook    = "facebook"
)

// Identity is one authenticated principal, whichever way they signed in.
// Optional fields are always serialised ("" or null), never omitted.
type Identity struct {
	ID            string     `json:"id"`    // email for password logins, provider subject otherwise
	Email         string     `json:"email"` // never empty once constructed
	Name          string     `json:"name"`
	Image         string     `json:"image"`
	EmailVerified *time.Time `json:"emailVerified"`
	AccessToken   string     `json:"accessToken"`
	RefreshToken  string     `json:"refreshToken"`
}

// Clone returns a deep copy.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	if i.EmailVerified != nil {
		t := *i.EmailVerified
		c.EmailVerified = &t
	}
	return &c
}

// Account holds what the OAuth code exchange with a provider produced.
type Account struct {
	Provider     string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}
