package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/finwise/internal/progress"
)

// DefaultRedisPrefix namespaces progress keys.
const DefaultRedisPrefix = "finwise:progress:"

const redisMaxRetries = 5

// ErrConflict is returned when optimistic retries are exhausted.
var ErrConflict = errors.New("concurrent update conflict")

// RedisOptions configures the remote progress store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisProgress stores one JSON document per user. Updates run in a
// WATCH/MULTI transaction so concurrent writers from other devices are
// merged rather than overwritten.
type RedisProgress struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisProgress connects and pings the server.
func NewRedisProgress(ctx context.Context, opts RedisOptions) (*RedisProgress, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis: missing address")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newRedisProgress(rdb, opts.Prefix), nil
}

func newRedisProgress(rdb *redis.Client, prefix string) *RedisProgress {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisProgress{rdb: rdb, prefix: prefix}
}

func (r *RedisProgress) key(userID string) string {
	return r.prefix + userID
}

func (r *RedisProgress) Get(ctx context.Context, userID string) (*progress.Record, error) {
	data, err := r.rdb.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, progress.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decodeRecord(data)
}

func (r *RedisProgress) Update(ctx context.Context, userID string, patch progress.Patch) error {
	key := r.key(userID)
	txf := func(tx *redis.Tx) error {
		rec := progress.NewRecord()
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("redis get: %w", err)
		default:
			if rec, err = decodeRecord(data); err != nil {
				return err
			}
		}

		if err := patch.Apply(rec, time.Now().UTC()); err != nil {
			return err
		}
		out, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode progress: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		return err
	}

	for range redisMaxRetries {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update %s: %w", key, ErrConflict)
}

// Close closes the client.
func (r *RedisProgress) Close() error {
	return r.rdb.Close()
}
