package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "super-secret-signing-key"

func signToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestVerifierResolve(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantID  string
		wantErr bool
	}{
		{
			name: "valid token",
			token: func(t *testing.T) string {
				return signToken(t, testSecret, claims{
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   "user-a",
						Audience:  jwt.ClaimStrings{"authenticated"},
						ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
						IssuedAt:  jwt.NewNumericDate(now),
					},
					Email: "alex@example.com",
					Role:  "authenticated",
				})
			},
			wantID: "user-a",
		},
		{
			name: "expired token",
			token: func(t *testing.T) string {
				return signToken(t, testSecret, claims{
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   "user-a",
						ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
					},
				})
			},
			wantErr: true,
		},
		{
			name: "wrong signing secret",
			token: func(t *testing.T) string {
				return signToken(t, "some-other-secret", claims{
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   "user-a",
						ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
					},
				})
			},
			wantErr: true,
		},
		{
			name: "missing subject",
			token: func(t *testing.T) string {
				return signToken(t, testSecret, claims{
					RegisteredClaims: jwt.RegisteredClaims{
						ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
					},
				})
			},
			wantErr: true,
		},
		{
			name: "garbage token",
			token: func(t *testing.T) string {
				return "not.a.jwt"
			},
			wantErr: true,
		},
	}

	verifier := NewVerifier(testSecret)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := verifier.Resolve(context.Background(), tt.token(t))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidToken) {
					t.Fatalf("Resolve() error = %v, want ErrInvalidToken", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if user.ID != tt.wantID {
				t.Errorf("user.ID = %q, want %q", user.ID, tt.wantID)
			}
			if user.Email != "alex@example.com" {
				t.Errorf("user.Email = %q, want %q", user.Email, "alex@example.com")
			}
			if user.Aud != "authenticated" {
				t.Errorf("user.Aud = %q, want %q", user.Aud, "authenticated")
			}
		})
	}
}
