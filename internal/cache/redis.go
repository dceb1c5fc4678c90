package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix   = "i18n:bundle:"
	genKey      = "i18n:gen:bundle"
	pingTimeout = 2 * time.Second
)

// Redis shares bundles between instances through a Redis server.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ BundleCache = (*Redis)(nil)

// NewRedis connects to url (redis://...) and verifies it with a ping.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("redis url is empty")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, locale string) (map[string]string, bool, error) {
	raw, err := r.client.Get(ctx, keyPrefix+locale).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", locale, err)
	}
	var messages map[string]string
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, false, fmt.Errorf("decode cached bundle %s: %w", locale, err)
	}
	return messages, true, nil
}

func (r *Redis) Generation(ctx context.Context) (uint64, error) {
	gen, err := r.client.Get(ctx, genKey).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return gen, nil
}

// Set writes inside WATCH on the generation key, so an Invalidate from any
// instance between the check and the write aborts it.
func (r *Redis) Set(ctx context.Context, gen uint64, locale string, messages map[string]string) (bool, error) {
	raw, err := json.Marshal(messages)
	if err != nil {
		return false, fmt.Errorf("encode bundle %s: %w", locale, err)
	}

	stored := false
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Uint64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, keyPrefix+locale, raw, r.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis set %s: %w", locale, err)
	}
	return stored, nil
}

// Invalidate bumps the generation before deleting, so no Set that started
// earlier can land after the delete.
func (r *Redis) Invalidate(ctx context.Context) error {
	if err := r.client.Incr(ctx, genKey).Err(); err != nil {
		return fmt.Errorf("redis bump generation: %w", err)
	}

	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan bundles: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del bundles: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
