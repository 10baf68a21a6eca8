// Package oidctest runs a fake OAuth 2.0 / OpenID Connect provider for tests.
package oidctest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const keyID = "test-key"

// Grant is what the issuer hands out for one authorization code.
type Grant struct {
	Claims       jwt.MapClaims  // ID token claims; iss, aud, iat and exp are filled in
	AccessToken  string
	RefreshToken string
	NoIDToken    bool
	UserInfo     map[string]any // served from /me for AccessToken
}

type Issuer struct {
	Server   *httptest.Server
	ClientID string

	key *rsa.PrivateKey

	mu           sync.Mutex
	grants       map[string]Grant
	userInfo     map[string]map[string]any
	tokenRequest url.Values
}

func NewIssuer(t testing.TB, clientID string) *Issuer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	i := &Issuer{
		ClientID: clientID,
		key:      key,
		grants:   make(map[string]Grant),
		userInfo: make(map[string]map[string]any),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/openid-configuration", i.discovery)
	mux.HandleFunc("GET /jwks", i.jwks)
	mux.HandleFunc("POST /token", i.token)
	mux.HandleFunc("GET /me", i.me)
	i.Server = httptest.NewServer(mux)
	t.Cleanup(i.Server.Close)
	return i
}

func (i *Issuer) URL() string {
	return i.Server.URL
}

func (i *Issuer) AuthURL() string  { return i.URL() + "/authorize" }
func (i *Issuer) TokenURL() string { return i.URL() + "/token" }
func (i *Issuer) MeURL() string    { return i.URL() + "/me" }

// AddCode registers an authorization code the token endpoint will accept once.
func (i *Issuer) AddCode(code string, g Grant) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.grants[code] = g
}

// LastTokenRequest returns the form of the most recent token request.
func (i *Issuer) LastTokenRequest() url.Values {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.tokenRequest
}

func (i *Issuer) discovery(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"issuer":                                i.URL(),
		"authorization_endpoint":                i.AuthURL(),
		"token_endpoint":                        i.TokenURL(),
		"jwks_uri":                              i.URL() + "/jwks",
		"userinfo_endpoint":                     i.MeURL(),
		"response_types_supported":              []string{"code"},
		"subject_types_supported":               []string{"public"},
		"id_token_signing_alg_values_supported": []string{"RS256"},
	})
}

func (i *Issuer) jwks(w http.ResponseWriter, _ *http.Request) {
	pub := i.key.PublicKey
	writeJSON(w, http.StatusOK, map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"use": "sig",
			"kid": keyID,
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	})
}

func (i *Issuer) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}

	i.mu.Lock()
	i.tokenRequest = r.PostForm
	g, ok := i.grants[r.PostForm.Get("code")]
	delete(i.grants, r.PostForm.Get("code"))
	if ok && g.UserInfo != nil {
		i.userInfo[g.AccessToken] = g.UserInfo
	}
	i.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
		return
	}

	resp := map[string]any{
		"access_token": g.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   3600,
	}
	if g.RefreshToken != "" {
		resp["refresh_token"] = g.RefreshToken
	}
	if !g.NoIDToken {
		idToken, err := i.sign(g.Claims)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		resp["id_token"] = idToken
	}
	writeJSON(w, http.StatusOK, resp)
}

func (i *Issuer) me(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	i.mu.Lock()
	info, ok := i.userInfo[token]
	i.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (i *Issuer) sign(claims jwt.MapClaims) (string, error) {
	c := jwt.MapClaims{}
	for k, v := range claims {
		c[k] = v
	}
	now := time.Now()
	c["iss"] = i.URL()
	c["aud"] = i.ClientID
	c["iat"] = now.Unix()
	c["exp"] = now.Add(time.Hour).Unix()

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, c)
	tok.Header["kid"] = keyID
	return tok.SignedString(i.key)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
