package sessions

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-auth-frontend/identity"
	apperrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"golang.org/x/crypto/hkdf"
)

const keyInfo = "go-auth-frontend session signing key"

type tokenClaims struct {
	User         *identity.Identity `json:"user,omitempty"`
	AccessToken  string             `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
	jwt.RegisteredClaims
}

// Codec signs Tokens into cookie values and verifies them back. The HMAC key
// is derived from the configured secret with HKDF-SHA256.
type Codec struct {
	key []byte
}

func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("[sessions NewCodec] secret is required")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("[sessions NewCodec] derive key: %w", err)
	}
	return &Codec{key: key}, nil
}

func (c *Codec) Encode(tok Token) (string, error) {
	claims := tokenClaims{
		User:         tok.User,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tok.ID,
			ExpiresAt: jwt.NewNumericDate(tok.ExpiresAt),
		},
	}
	if tok.User != nil {
		claims.Subject = tok.User.ID
	}
	if !tok.IssuedAt.IsZero() {
		claims.IssuedAt = jwt.NewNumericDate(tok.IssuedAt)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("[sessions Encode] sign: %w", err)
	}
	return signed, nil
}

// Decode verifies raw and returns its Token. Bad signatures and malformed values
// return ErrInvalidToken; lapsed ones return ErrTokenExpired.
func (c *Codec) Decode(raw string) (Token, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(NowTimeFunc),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Token{}, fmt.Errorf("[sessions Decode] %w", apperrors.ErrTokenExpired)
		}
		return Token{}, fmt.Errorf("[sessions Decode] %w: %v", apperrors.ErrInvalidToken, err)
	}

	tok := Token{
		ID:           claims.ID,
		User:         claims.User,
		AccessToken:  claims.AccessToken,
		RefreshToken: claims.RefreshToken,
		ExpiresAt:    claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		tok.IssuedAt = claims.IssuedAt.Time
	}
	return tok, nil
}
