package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gasgalon/orderflow/internal/model"
)

// RedisStore keeps the agent's state in a redis instance.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore connects to redis at addr and verifies the connection.
// The prefix namespaces the keys when several agents share one instance.
func NewRedisStore(addr, prefix string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{rdb: rdb, prefix: prefix}, nil
}

// Close releases the redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

// SaveCart stores the full cart snapshot as a JSON array.
func (s *RedisStore) SaveCart(ctx context.Context, lines []model.CartLine) error {
	if lines == nil {
		lines = []model.CartLine{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(KeyCart), data, 0).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// LoadCart reads the stored snapshot. A missing key yields nil, nil.
func (s *RedisStore) LoadCart(ctx context.Context) ([]model.CartLine, error) {
	data, err := s.rdb.Get(ctx, s.key(KeyCart)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var lines []model.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}

// ClearCart removes the stored snapshot.
func (s *RedisStore) ClearCart(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key(KeyCart)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// SaveSession stores the token and the JSON-serialized profile.
func (s *RedisStore) SaveSession(ctx context.Context, sess model.Session) error {
	user, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.key(KeyToken), sess.Token, 0)
	pipe.Set(ctx, s.key(KeyUser), user, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession reads the stored identity. Either key missing yields nil, nil.
func (s *RedisStore) LoadSession(ctx context.Context) (*model.Session, error) {
	token, err := s.rdb.Get(ctx, s.key(KeyToken)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}

	data, err := s.rdb.Get(ctx, s.key(KeyUser)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}

	return &model.Session{Token: token, User: user}, nil
}

// ClearSession removes the token and profile together.
func (s *RedisStore) ClearSession(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key(KeyToken), s.key(KeyUser)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
