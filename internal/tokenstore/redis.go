package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps token pairs in redis for multi-instance deployments. The
// TTL only bounds storage of abandoned devices; token expiry itself is still
// discovered through a 401.
type RedisStore struct {
	Client *redis.Client
	Sealer *Sealer
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, sealer *Sealer, ttl time.Duration) *RedisStore {
	if ttl == 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &RedisStore{Client: client, Sealer: sealer, TTL: ttl}
}

func key(deviceID string) string { return fmt.Sprintf("tokens:%s", deviceID) }

func (r *RedisStore) Save(ctx context.Context, deviceID string, t Tokens) error {
	access, err := r.Sealer.Seal(t.Access)
	if err != nil {
		return fmt.Errorf("seal access token: %w", err)
	}
	refresh, err := r.Sealer.Seal(t.Refresh)
	if err != nil {
		return fmt.Errorf("seal refresh token: %w", err)
	}

	payload, err := json.Marshal(Tokens{Access: access, Refresh: refresh})
	if err != nil {
		return err
	}
	if err := r.Client.Set(ctx, key(deviceID), payload, r.TTL).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, deviceID string) (Tokens, error) {
	val, err := r.Client.Get(ctx, key(deviceID)).Result()
	if errors.Is(err, redis.Nil) {
		return Tokens{}, nil
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("redis error: %w", err)
	}

	var sealed Tokens
	if err := json.Unmarshal([]byte(val), &sealed); err != nil {
		return Tokens{}, err
	}

	access, err := r.Sealer.Open(sealed.Access)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := r.Sealer.Open(sealed.Refresh)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{Access: access, Refresh: refresh}, nil
}

func (r *RedisStore) Clear(ctx context.Context, deviceID string) error {
	if err := r.Client.Del(ctx, key(deviceID)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
