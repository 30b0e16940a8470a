package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore 记录仍然有效的会话（以 jti 为键），登出即删除
type TokenStore interface {
	Save(ctx context.Context, jti, accountID string, ttl time.Duration) error
	// Lookup 返回会话所属账号；会话不存在时返回空串
	Lookup(ctx context.Context, jti string) (string, error)
	Delete(ctx context.Context, jti string) error
}

type redisTokenStore struct {
	client *redis.Client
	prefix string
}

func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client, prefix: "session:"}
}

func (s *redisTokenStore) Save(ctx context.Context, jti, accountID string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+jti, accountID, ttl).Err()
}

func (s *redisTokenStore) Lookup(ctx context.Context, jti string) (string, error) {
	id, err := s.client.Get(ctx, s.prefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return id, err
}

func (s *redisTokenStore) Delete(ctx context.Context, jti string) error {
	return s.client.Del(ctx, s.prefix+jti).Err()
}
