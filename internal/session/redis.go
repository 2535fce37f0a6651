package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "docsmith:formfill:"

// RedisStore keeps session documents in Redis with a server-side TTL, so
// expiry needs no sweeper.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	cipher *BlobCipher
}

func NewRedisStore(url string, ttl time.Duration, cipher *BlobCipher) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return &RedisStore{
		client: redis.NewClient(opt),
		ttl:    ttl,
		cipher: cipher,
	}, nil
}

func (s *RedisStore) Create(ctx context.Context, data []byte) (string, error) {
	id := NewID()
	blob := data
	if s.cipher != nil {
		var err error
		if blob, err = s.cipher.Seal(data); err != nil {
			return "", err
		}
	}
	if err := s.client.Set(ctx, redisKeyPrefix+id, blob, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) ([]byte, error) {
	if !ValidateID(id) {
		return nil, &InvalidIDError{ID: id}
	}
	blob, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	if s.cipher != nil {
		return s.cipher.Open(blob)
	}
	return blob, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping exposes connectivity for health checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
