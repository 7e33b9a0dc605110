package local_cache

import (
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

type Options struct {
	NumCounters            int64 // number of counters (10x your max items is a good start)
	MaxCost                int64 // total cost capacity (sum of item costs)
	BufferItems            int64 // number of keys per Get buffer
	TtlTickerDurationInSec int64
	IgnoreInternalCost     bool
	Metrics                bool
	OnEvict                func(item *ristretto.Item)
}

type Option func(*Options)

func WithNumCounters(n int64) Option {
	return func(o *Options) {
		o.NumCounters = n
	}
}

func WithMaxCost(c int64) Option {
	return func(o *Options) {
		o.MaxCost = c
	}
}

func WithBufferItems(n int64) Option {
	return func(o *Options) {
		o.BufferItems = n
	}
}

func WithMetrics() Option {
	return func(o *Options) {
		o.Metrics = true
	}
}

func WithOnEvict(f func(item *ristretto.Item)) Option {
	return func(o *Options) {
		o.OnEvict = f
	}
}

func WithTtlTickerDurationInSec(d int64) Option {
	return func(o *Options) {
		o.TtlTickerDurationInSec = d
	}
}

func WithIgnoreInternalCost(ignore bool) Option {
	return func(o *Options) {
		o.IgnoreInternalCost = ignore
	}
}

// defaultOptions set default values
func defaultOptions() Options {
	return Options{
		NumCounters: 100_000,
		MaxCost:     10_000,
		BufferItems: 64,
		Metrics:     false,
	}
}

var (
	once  sync.Once
	cache *ristretto.Cache
)

// NewLocalCache builds (or returns) the singleton. The first successful call fixes config.
func NewLocalCache(opts ...Option) error {
	once.Do(func() {
		conf := defaultOptions()
		for _, fn := range opts {
			fn(&conf)
		}

		cfg := &ristretto.Config{
			NumCounters:            conf.NumCounters,
			MaxCost:                conf.MaxCost,
			BufferItems:            conf.BufferItems,
			Metrics:                conf.Metrics,
			OnEvict:                conf.OnEvict,
			IgnoreInternalCost:     conf.IgnoreInternalCost,
			TtlTickerDurationInSec: conf.TtlTickerDurationInSec,
		}
		c, err := ristretto.NewCache(cfg)
		if err != nil {
			panic(err)
		}
		cache = c
	})
	return nil
}

func Cache() *ristretto.Cache {
	if cache == nil {
		panic("local cache not initialized; call NewLocalCache first")
	}
	return cache
}

// Set stores value under key with unit cost and the given TTL. A zero ttl
// stores the value without expiry.
func Set(key string, value any, ttl time.Duration) bool {
	if ttl <= 0 {
		return Cache().Set(key, value, 1)
	}
	return Cache().SetWithTTL(key, value, 1, ttl)
}

// Get fetches the value stored under key, asserting it to T.
func Get[T any](key string) (T, bool) {
	var zero T
	v, ok := Cache().Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
