package cache

import (
	"context"
	"fmt"
	"time"

	"wrenchway-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisTokenStore keeps one key per issued token: <type>_token:<user>:<token id>.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func tokenKey(tokenType jwt.TokenType, userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s_token:%s:%s", tokenType, userID.String(), tokenID)
}

func (s *RedisTokenStore) Save(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(tokenType, userID, tokenID), "valid", ttl).Err()
}

func (s *RedisTokenStore) Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, tokenKey(tokenType, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisTokenStore) Revoke(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) error {
	return s.client.Del(ctx, tokenKey(tokenType, userID, tokenID)).Err()
}
