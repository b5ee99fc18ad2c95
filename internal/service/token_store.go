package service

import (
	"context"
	"time"

	"wrenchway-api/pkg/jwt"

	"github.com/google/uuid"
)

// TokenStore tracks issued token ids so tokens can be revoked before expiry.
type TokenStore interface {
	Save(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) error
}
