package sessions

import "time"

// ViewUser is the public part of the session's Identity.
type ViewUser struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Image         string     `json:"image"`
	EmailVerified *time.Time `json:"emailVerified"`
}

// View is the per-request session handed to handlers. It is never stored.
type View struct {
	User         ViewUser  `json:"user"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	Expires      time.Time `json:"expires"`
}

// Derive projects tok into a View. The user object is always present; it is
// zero-valued when tok carries no user.
func Derive(tok Token) View {
	v := View{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expires:      tok.ExpiresAt,
	}
	if u := tok.User; u != nil {
		v.User = ViewUser{
			ID:            u.ID,
			Email:         u.Email,
			Name:          u.Name,
			Image:         u.Image,
			EmailVerified: u.Clone().EmailVerified,
		}
	}
	return v
}
