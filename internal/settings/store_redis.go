package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "shax:settings"

// RedisStore reads the target from a redis hash with fields mode, url and lobby_key.
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if strings.TrimSpace(key) == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{rdb: rdb, key: key}
}

// NewRedisStoreFromURL parses a redis:// URL and pings the server.
func NewRedisStoreFromURL(ctx context.Context, redisURL, key string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStore(rdb, key), nil
}

func (s *RedisStore) Load(ctx context.Context) (Target, error) {
	t := Defaults()
	fields, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return t, fmt.Errorf("load settings %s: %w", s.key, err)
	}
	if v := strings.TrimSpace(fields["url"]); v != "" {
		t.Endpoint = v
	}
	if v := strings.TrimSpace(fields["mode"]); v != "" {
		t.Mode = ParseMode(v)
	}
	if v := strings.TrimSpace(fields["lobby_key"]); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return t, fmt.Errorf("settings %s: lobby_key %q: %w", s.key, v, err)
		}
		t.LobbyKey = n
	}
	return t, nil
}

func (s *RedisStore) Save(ctx context.Context, t Target) error {
	return s.rdb.HSet(ctx, s.key,
		"url", t.Endpoint,
		"mode", string(t.Mode),
		"lobby_key", strconv.FormatUint(t.LobbyKey, 10),
	).Err()
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
