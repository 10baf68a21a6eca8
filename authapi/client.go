// Package authapi talks to the remote authentication API that validates
// credentials and provider tokens and issues backend access tokens.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jrsteele09/go-auth-frontend/internal/config"
	apperrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/jrsteele09/go-auth-frontend/internal/metrics"
)

const maxResponseBytes = 1 << 20

// RejectedError is returned when the API answers with a non-2xx status or an
// error body.
type RejectedError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Endpoint, e.Message, e.StatusCode)
}

func (e *RejectedError) Unwrap() error {
	return apperrors.ErrRemoteAuthRejected
}

type Client struct {
	baseURL    string
	loginPath  string
	socialPath string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// New creates a client. A nil httpClient uses http.DefaultClient; calls are bounded
// only by the caller's context.
func New(cfg config.AuthAPIConfig, httpClient *http.Client, m *metrics.Metrics) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    cfg.GetAuthAPIURL(),
		loginPath:  cfg.GetLoginPath(),
		socialPath: cfg.GetSocialPath(),
		httpClient: httpClient,
		metrics:    m,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type socialRequest struct {
	Provider    string `json:"provider"`
	AccessToken string `json:"access_token"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
}

// Login exchanges an email and password for a backend access token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	return c.post(ctx, "login", c.loginPath, loginRequest{Email: email, Password: password}, "Authentication failed")
}

// SocialLogin exchanges a provider access token for a backend access token.
func (c *Client) SocialLogin(ctx context.Context, provider, accessToken string) (string, error) {
	return c.post(ctx, "social", c.socialPath, socialRequest{Provider: provider, AccessToken: accessToken}, "Social authentication failed")
}

func (c *Client) post(ctx context.Context, endpoint, path string, body any, fallbackMsg string) (accessToken string, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		c.metrics.ObserveRemote(endpoint, outcome, time.Since(start))
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("[authapi %s] marshal request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("[authapi %s] build request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("[authapi %s] %w: %w", endpoint, apperrors.ErrRemoteAuthRejected, err)
	}
	defer resp.Body.Close()

	var data tokenResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&data)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := data.Error
		if msg == "" {
			msg = fallbackMsg
		}
		return "", &RejectedError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", &RejectedError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "unreadable response: " + decodeErr.Error()}
	}
	if data.Error != "" {
		return "", &RejectedError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: data.Error}
	}
	if data.AccessToken == "" {
		return "", &RejectedError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "response has no access_token"}
	}
	return data.AccessToken, nil
}
