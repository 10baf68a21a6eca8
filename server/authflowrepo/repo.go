package authflowrepo

import "time"

// AuthFlowState is what a provider sign-in needs to remember between the
// redirect to the provider and its callback.
type AuthFlowState struct {
	Provider     string
	CodeVerifier string
	Nonce        string
	CallbackURL  string
	CreatedAt    time.Time
}

type Repo interface {
	Upsert(state string, authState *AuthFlowState) error
	Get(state string) (*AuthFlowState, error)
	Delete(state string) error
}
