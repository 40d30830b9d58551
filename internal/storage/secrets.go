package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// PutSecret stores value under key for ttl, replacing any previous value.
func (s *Service) PutSecret(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.Redis.Set(ctx, key, value, ttl).Err()
}

// GetSecret returns the value under key. A missing or expired key reports
// ok=false with a nil error.
func (s *Service) GetSecret(ctx context.Context, key string) (string, bool, error) {
	value, err := s.Redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// ForgetSecret removes key. Removing a missing key is not an error.
func (s *Service) ForgetSecret(ctx context.Context, key string) error {
	return s.Redis.Del(ctx, key).Err()
}
