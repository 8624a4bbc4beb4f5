package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the session in Redis under a key prefix, so several
// operator hosts can share one login.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisStore wraps rdb. prefix is prepended to every key (e.g.
// "calldash:session:").
func NewRedisStore(rdb redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// OpenRedis dials addr and verifies the connection.
func OpenRedis(ctx context.Context, addr, prefix string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewRedisStore(rdb, prefix), nil
}

func (s *RedisStore) key(k string) string { return s.prefix + k }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, s.prefixed(keys)...).Err(); err != nil {
		return fmt.Errorf("failed to delete session%v: %w", keys, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) (map[string][]byte, error) {
	keys, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list session: %w", err)
	}
	for i, k := range keys {
		str, ok := vals[i].(string)
		if !ok {
			continue // expired between SCAN and MGET
		}
		result[strings.TrimPrefix(k, s.prefix)] = []byte(str)
	}
	return result, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	keys, err := s.scan(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Atomic buffers the writes fn makes and applies them in one MULTI/EXEC.
// Reads inside fn see the committed state plus the batch's own writes.
func (s *RedisStore) Atomic(ctx context.Context, fn func(ctx context.Context, st Store) error) error {
	b := &redisBatch{parent: s, pending: make(map[string][]byte), deleted: make(map[string]bool)}
	if err := fn(ctx, b); err != nil {
		return err
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, op := range b.ops {
			op(ctx, pipe)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to commit session batch: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) prefixed(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = s.key(k)
	}
	return out
}

func (s *RedisStore) scan(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, escapeGlob(s.prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		if k := iter.Val(); strings.HasPrefix(k, s.prefix) {
			keys = append(keys, k)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan session keys: %w", err)
	}
	return keys, nil
}

// escapeGlob quotes the characters SCAN MATCH treats as pattern syntax.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// redisBatch records writes for RedisStore.Atomic.
type redisBatch struct {
	parent  *RedisStore
	ops     []func(context.Context, redis.Pipeliner)
	pending map[string][]byte
	deleted map[string]bool
	cleared bool
}

func (b *redisBatch) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := b.pending[key]; ok {
		return v, nil
	}
	if b.deleted[key] || b.cleared {
		return nil, nil
	}
	return b.parent.Get(ctx, key)
}

func (b *redisBatch) Set(_ context.Context, key string, value []byte) error {
	k := b.parent.key(key)
	b.ops = append(b.ops, func(ctx context.Context, p redis.Pipeliner) { p.Set(ctx, k, value, 0) })
	b.pending[key] = value
	delete(b.deleted, key)
	return nil
}

func (b *redisBatch) Delete(_ context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := b.parent.prefixed(keys)
	b.ops = append(b.ops, func(ctx context.Context, p redis.Pipeliner) { p.Del(ctx, full...) })
	for _, k := range keys {
		delete(b.pending, k)
		b.deleted[k] = true
	}
	return nil
}

func (b *redisBatch) List(ctx context.Context) (map[string][]byte, error) {
	result := make(map[string][]byte)
	if !b.cleared {
		committed, err := b.parent.List(ctx)
		if err != nil {
			return nil, err
		}
		for k, v := range committed {
			if !b.deleted[k] {
				result[k] = v
			}
		}
	}
	for k, v := range b.pending {
		result[k] = v
	}
	return result, nil
}

func (b *redisBatch) Clear(ctx context.Context) error {
	keys, err := b.parent.scan(ctx)
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		b.ops = append(b.ops, func(ctx context.Context, p redis.Pipeliner) { p.Del(ctx, keys...) })
	}
	b.pending = make(map[string][]byte)
	b.cleared = true
	return nil
}

func (b *redisBatch) Atomic(ctx context.Context, fn func(ctx context.Context, st Store) error) error {
	return fn(ctx, b)
}

func (b *redisBatch) Close() error { return nil }
