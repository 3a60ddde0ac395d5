// Package identity resolves bearer credentials to user identities against
// the project's auth service.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const userAgent = "matchmyvibe-backend/1.0"

// Sentinel errors.
var (
	// ErrInvalidToken is returned when the auth service rejects a credential.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// User is the identity resolved from a bearer credential. The ID is the
// profile key every scoped query is bound to.
type User struct {
	ID           string         `json:"id"`
	Aud          string         `json:"aud,omitempty"`
	Role         string         `json:"role,omitempty"`
	Email        string         `json:"email,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
	LastSignInAt *time.Time     `json:"last_sign_in_at,omitempty"`
}

// Client resolves tokens remotely via the auth service's user endpoint.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// NewClient creates a remote identity client for the given project URL and
// anonymous API key.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Resolve exchanges a bearer token for the user identity it belongs to.
// Any rejection by the auth service, regardless of cause, is reported as
// ErrInvalidToken so callers map every resolution failure the same way.
func (c *Client) Resolve(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("building user request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling auth service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading auth response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: auth service returned status %d", ErrInvalidToken, resp.StatusCode)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("parsing auth response: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: auth response has no user id", ErrInvalidToken)
	}

	return &user, nil
}
