package bloom

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-redis/redis/v9"
	"github.com/google/uuid"
)

// RedisStore keeps encoded filters in Redis string keys.
type RedisStore struct {
	redisClient redis.UniversalClient
	cfg         StoreConfig
	metrics     *Metrics
	logger      log.Logger
}

// NewRedisStore creates a store. metrics and logger may be nil.
func NewRedisStore(redisClient redis.UniversalClient, cfg StoreConfig, metrics *Metrics, logger log.Logger) (*RedisStore, error) {
	if redisClient == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &RedisStore{
		redisClient: redisClient,
		cfg:         cfg,
		metrics:     metrics,
		logger:      log.With(logger, "component", "bloom-store"),
	}, nil
}

func (r *RedisStore) redisKey(key string) string {
	return r.cfg.KeyPrefix + key
}

// Save encodes f and stores it under key, replacing any previous filter.
func (r *RedisStore) Save(ctx context.Context, key string, f BloomFilter) error {
	data, err := Encode(f, r.cfg.Compress)
	if err != nil {
		return err
	}
	err = r.redisClient.Set(ctx, r.redisKey(key), data, r.cfg.Expiration).Err()
	r.metrics.observe("save", len(data), err)
	if err != nil {
		return fmt.Errorf("save filter %s: %w", key, err)
	}
	level.Debug(r.logger).Log("msg", "saved filter", "key", key, "bytes", len(data), "gen", f.Generator().Name())
	return nil
}

// SaveNew stores f under a fresh random key and returns that key.
func (r *RedisStore) SaveNew(ctx context.Context, f BloomFilter) (string, error) {
	key := uuid.New().String()
	if err := r.Save(ctx, key, f); err != nil {
		return "", err
	}
	return key, nil
}

// Load fetches and decodes the filter stored under key. It returns
// ErrNotFound if the key does not exist.
func (r *RedisStore) Load(ctx context.Context, key string) (BloomFilter, error) {
	data, err := r.redisClient.Get(ctx, r.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		err = fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	r.metrics.observe("load", len(data), err)
	if err != nil {
		return nil, fmt.Errorf("load filter %s: %w", key, err)
	}

	f, err := Decode(data)
	if err != nil {
		level.Warn(r.logger).Log("msg", "stored filter failed to decode", "key", key, "err", err)
		return nil, fmt.Errorf("load filter %s: %w", key, err)
	}
	return f, nil
}

// Delete removes the filter stored under key. Deleting a missing key is not
// an error.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	err := r.redisClient.Del(ctx, r.redisKey(key)).Err()
	r.metrics.observe("delete", 0, err)
	if err != nil {
		return fmt.Errorf("delete filter %s: %w", key, err)
	}
	return nil
}

// Merge unions f into the filter stored under key, or stores f if the key is
// empty. The read-modify-write runs under WATCH so a concurrent writer makes
// it retry, up to MaxMergeRetries times.
func (r *RedisStore) Merge(ctx context.Context, key string, f BloomFilter) error {
	rkey := r.redisKey(key)
	var written int

	txf := func(tx *redis.Tx) error {
		merged := f
		stored, err := tx.Get(ctx, rkey).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			// nothing stored yet
		case err != nil:
			return err
		default:
			current, err := Decode(stored)
			if err != nil {
				return err
			}
			if err := current.Union(f); err != nil {
				return err
			}
			merged = current
		}

		data, err := Encode(merged, r.cfg.Compress)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, rkey, data, r.cfg.Expiration)
			return nil
		})
		written = len(data)
		return err
	}

	var err error
	for attempt := 0; attempt <= r.cfg.MaxMergeRetries; attempt++ {
		err = r.redisClient.Watch(ctx, txf, rkey)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
		level.Debug(r.logger).Log("msg", "merge lost race, retrying", "key", key, "attempt", attempt+1)
	}
	r.metrics.observe("merge", written, err)
	if err != nil {
		return fmt.Errorf("merge filter %s: %w", key, err)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
