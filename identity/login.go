package identity

// LoginEvent is one of PasswordLogin, GoogleLogin or FacebookLogin.
type LoginEvent interface {
	Provider() string
	isLoginEvent()
}

// PasswordLogin is a credentials form submission.
type PasswordLogin struct {
	Email    string
	Password string
}

func (PasswordLogin) Provider() string { return ProviderCredentials }
func (PasswordLogin) isLoginEvent()    {}

// GoogleProfile mirrors the OpenID Connect claims Google returns.
type GoogleProfile struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type GoogleLogin struct {
	Profile GoogleProfile
	Account *Account
}

func (GoogleLogin) Provider() string { return ProviderGoogle }
func (GoogleLogin) isLoginEvent()    {}

// FacebookProfile mirrors the Graph API /me response for fields=id,name,email,picture.
type FacebookProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

type FacebookLogin struct {
	Profile FacebookProfile
	Account *Account
}

func (FacebookLogin) Provider() string { return ProviderFacebook }
func (FacebookLogin) isLoginEvent()    {}

// AccountOf returns the OAuth account attached to event, or nil for password logins.
func AccountOf(event LoginEvent) *Account {
	switch e := event.(type) {
	case GoogleLogin:
		return e.Account
	case FacebookLogin:
		return e.Account
	default:
		return nil
	}
}
