package authflowrepo

import (
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface.
// States older than the TTL are treated as gone.
type InMemoryRepo struct {
	mu     sync.RWMutex
	ttl    time.Duration
	states map[string]*AuthFlowState
}

func NewInMemoryRepo(ttl time.Duration) *InMemoryRepo {
	return &InMemoryRepo{
		ttl:    ttl,
		states: make(map[string]*AuthFlowState),
	}
}

// Upsert stores or updates an auth flow state and drops any expired ones
func (r *InMemoryRepo) Upsert(state string, authState *AuthFlowState) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if authState == nil {
		return errors.New("authState cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictExpired()
	copied := *authState
	r.states[state] = &copied
	return nil
}

// Get retrieves an auth flow state by state parameter
func (r *InMemoryRepo) Get(state string) (*AuthFlowState, error) {
	if state == "" {
		return nil, fmt.Errorf("[authflowrepo Get] empty state: %w", apperrors.ErrInvalidState)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	authState, exists := r.states[state]
	if !exists {
		return nil, fmt.Errorf("[authflowrepo Get] state not found: %w", apperrors.ErrInvalidState)
	}
	if r.expired(authState) {
		return nil, fmt.Errorf("[authflowrepo Get] %w", apperrors.ErrStateExpired)
	}

	copied := *authState
	return &copied, nil
}

// Delete removes an auth flow state
func (r *InMemoryRepo) Delete(state string) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.states, state)
	return nil
}

func (r *InMemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}

func (r *InMemoryRepo) expired(s *AuthFlowState) bool {
	return r.ttl > 0 && NowTimeFunc().Sub(s.CreatedAt) > r.ttl
}

// evictExpired must be called with the write lock held.
func (r *InMemoryRepo) evictExpired() {
	for k, s := range r.states {
		if r.expired(s) {
			delete(r.states, k)
		}
	}
}
