package auth

import (
	"context"
	"time"

	errors "github.com/frahmantamala/chat-admin/internal"
	"github.com/golang-jwt/jwt/v5"
)

// Credentials is what login needs to know about a user.
type Credentials struct {
	UserID       string
	Username     string
	PasswordHash string
	Active       bool
}

type RepositoryAPI interface {
	GetCredentials(ctx context.Context, username string) (*Credentials, error)
	GetViewer(ctx context.Context, userID string) (*errors.Viewer, error)
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}

// TokenGenerator creates and validates access tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID, username string) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      string    `json:"user_id"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	Secret         []byte
	AccessTokenTTL time.Duration
}
