package bloom

import (
	"flag"
	"fmt"
	"time"
)

// StoreConfig configures a RedisStore.
type StoreConfig struct {
	// KeyPrefix is prepended to every key the store touches.
	KeyPrefix string
	// Expiration applies to every write. Zero keeps filters forever.
	Expiration time.Duration
	// Compress selects zlib compression of stored envelopes.
	Compress bool
	// MaxMergeRetries bounds optimistic retries of Merge under contention.
	MaxMergeRetries int
}

// DefaultStoreConfig returns the configuration RegisterFlags defaults to.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		KeyPrefix:       "bloom:",
		Compress:        true,
		MaxMergeRetries: 10,
	}
}

// RegisterFlags registers the store flags, each name prefixed with prefix.
func (c *StoreConfig) RegisterFlags(prefix string, f *flag.FlagSet) {
	d := DefaultStoreConfig()
	f.StringVar(&c.KeyPrefix, prefix+"key-prefix", d.KeyPrefix, "Prefix of Redis keys holding filters")
	f.DurationVar(&c.Expiration, prefix+"expiration", d.Expiration, "Expiration of stored filters (0 keeps them forever)")
	f.BoolVar(&c.Compress, prefix+"compress", d.Compress, "Compress stored filters with zlib")
	f.IntVar(&c.MaxMergeRetries, prefix+"max-merge-retries", d.MaxMergeRetries, "Retries of a merge that lost a race with another writer")
}

// Validate checks if the store configuration is valid.
func (c *StoreConfig) Validate() error {
	if c.Expiration < 0 {
		return fmt.Errorf("expiration cannot be negative")
	}
	if c.MaxMergeRetries < 0 {
		return fmt.Errorf("max merge retries cannot be negative")
	}
	return nil
}
