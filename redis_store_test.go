package bloom

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, cfg StoreConfig) (*RedisStore, *Metrics, redis.UniversalClient) {
	t.Helper()
	redisClient := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{":6379"}})
	t.Cleanup(func() { redisClient.Close() })
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}

	cfg.KeyPrefix = "bloom-test:" + uuid.New().String() + ":"
	cfg.Expiration = time.Minute
	metrics := NewMetrics(prometheus.NewRegistry())
	store, err := NewRedisStore(redisClient, cfg, metrics, nil)
	require.NoError(t, err)
	return store, metrics, redisClient
}

func TestNewRedisStoreValidates(t *testing.T) {
	_, err := NewRedisStore(nil, DefaultStoreConfig(), nil, nil)
	require.Error(t, err)

	cfg := DefaultStoreConfig()
	cfg.MaxMergeRetries = -1
	redisClient := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{":6379"}})
	defer redisClient.Close()
	_, err = NewRedisStore(redisClient, cfg, nil, nil)
	require.Error(t, err)
}

func TestRedisStoreSaveLoad(t *testing.T) {
	for _, compress := range []bool{false, true} {
		cfg := DefaultStoreConfig()
		cfg.Compress = compress
		store, metrics, _ := newTestStore(t, cfg)
		ctx := context.Background()

		for _, gen := range generators {
			f := mustNew(t, 1000, 0.001, gen)
			f.AddString("Alabama").AddString("Ohio")

			key, err := store.SaveNew(ctx, f)
			require.NoError(t, err)
			require.NotEmpty(t, key)

			g, err := store.Load(ctx, key)
			require.NoError(t, err)
			require.True(t, f.Equal(g))
			require.True(t, g.TestString("Ohio"))
			require.Equal(t, gen.Name(), g.Generator().Name())
		}

		require.Equal(t, float64(len(generators)), testutil.ToFloat64(metrics.Operations.WithLabelValues("save", "success")))
		require.Equal(t, float64(len(generators)), testutil.ToFloat64(metrics.Operations.WithLabelValues("load", "success")))
		require.Greater(t, testutil.ToFloat64(metrics.Bytes.WithLabelValues("save")), float64(0))
	}
}

func TestRedisStoreNotFoundAndDelete(t *testing.T) {
	store, metrics, _ := newTestStore(t, DefaultStoreConfig())
	ctx := context.Background()

	_, err := store.Load(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.Operations.WithLabelValues("load", "not_found")))

	f := mustNew(t, 100, 0.01, nil)
	require.NoError(t, store.Save(ctx, "k", f))
	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Load(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Delete(ctx, "k"))
}

func TestRedisStoreCorruptValue(t *testing.T) {
	store, _, redisClient := newTestStore(t, DefaultStoreConfig())
	ctx := context.Background()

	require.NoError(t, redisClient.Set(ctx, store.redisKey("junk"), "not an envelope", time.Minute).Err())
	_, err := store.Load(ctx, "junk")
	require.ErrorIs(t, err, ErrCorruptData)
}

func TestRedisStoreMerge(t *testing.T) {
	store, _, _ := newTestStore(t, DefaultStoreConfig())
	ctx := context.Background()

	a := mustNew(t, 1000, 0.001, nil)
	a.AddString("a")
	require.NoError(t, store.Merge(ctx, "m", a))

	b := mustNew(t, 1000, 0.001, nil)
	b.AddString("b")
	require.NoError(t, store.Merge(ctx, "m", b))

	g, err := store.Load(ctx, "m")
	require.NoError(t, err)
	require.True(t, g.TestString("a"))
	require.True(t, g.TestString("b"))

	err = store.Merge(ctx, "m", mustNew(t, 10, 0.1, nil))
	require.ErrorIs(t, err, ErrTemplateMismatch)
}

func TestRedisStoreConcurrentMerge(t *testing.T) {
	cfg := DefaultStoreConfig()
	cfg.MaxMergeRetries = 100
	store, _, _ := newTestStore(t, cfg)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, err := NewWithEstimates(1000, 0.001, nil)
			if err != nil {
				errs <- err
				return
			}
			f.AddString(fmt.Sprintf("writer-%d", i))
			errs <- store.Merge(ctx, "shared", f)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	g, err := store.Load(ctx, "shared")
	require.NoError(t, err)
	for i := 0; i < writers; i++ {
		require.True(t, g.TestString(fmt.Sprintf("writer-%d", i)))
	}
}
