package pool_registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/okieraised/alert-watcher/internal/agent/access_log_watcher"
	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/infrastructure/local_cache"
)

const cacheKeyPrefix = "pool_registry/"

// Entry is the last known state of one upstream pool.
type Entry struct {
	Pool         string              `json:"pool"`
	Release      string              `json:"release"`
	State        constants.PoolState `json:"state"`
	UpstreamAddr string              `json:"upstream_addr"`
	RequestCount uint64              `json:"request_count"`
	ErrorCount   uint64              `json:"error_count"`
	LastStatus   int                 `json:"last_status"`
	LastSeen     time.Time           `json:"last_seen"`
}

type counters struct {
	requests uint64
	errors   uint64
	lastSeen time.Time
}

// Registry tracks every pool seen in the access log. Entries live in the
// shared local cache with a TTL so pools that stop serving traffic age out
// of the status API; the registry itself only keeps the key set and the
// running counters the cache cannot enumerate.
type Registry struct {
	mu            sync.Mutex
	ttl           time.Duration
	primaryPrefix string
	counts        map[string]*counters
	now           func() time.Time
}

type Option func(*Registry)

// WithPrimaryPrefix sets the pool name prefix that marks a pool as primary.
// Matching is case-insensitive.
func WithPrimaryPrefix(prefix string) Option {
	return func(r *Registry) {
		if prefix != "" {
			r.primaryPrefix = strings.ToLower(prefix)
		}
	}
}

func NewRegistry(ttl time.Duration, opts ...Option) *Registry {
	if ttl <= 0 {
		ttl = constants.PoolRegistryDefaultTTL
	}
	r := &Registry{
		ttl:           ttl,
		primaryPrefix: constants.DefaultPrimaryPoolPrefix,
		counts:        make(map[string]*counters),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record folds one parsed access-log record into the pool's entry.
func (r *Registry) Record(rec access_log_watcher.Record) {
	if rec.Pool == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.counts[rec.Pool]
	if !ok {
		c = &counters{}
		r.counts[rec.Pool] = c
	}
	c.requests++
	if rec.UpstreamStatus >= 500 && rec.UpstreamStatus < 600 {
		c.errors++
	}
	c.lastSeen = r.now()

	local_cache.Set(cacheKey(rec.Pool), Entry{
		Pool:         rec.Pool,
		Release:      rec.Release,
		State:        r.classify(rec.Pool),
		UpstreamAddr: rec.UpstreamAddr,
		RequestCount: c.requests,
		ErrorCount:   c.errors,
		LastStatus:   rec.UpstreamStatus,
		LastSeen:     c.lastSeen,
	}, r.ttl)
}

func (r *Registry) classify(pool string) constants.PoolState {
	if strings.HasPrefix(strings.ToLower(pool), r.primaryPrefix) {
		return constants.PoolStatePrimary
	}
	return constants.PoolStateBackup
}

// Snapshot returns the live pool entries ordered by name. Pools whose cache
// entry has expired are pruned from the key set.
func (r *Registry) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Entry, 0, len(r.counts))
	for pool, c := range r.counts {
		entry, ok := local_cache.Get[Entry](cacheKey(pool))
		if !ok {
			if r.now().Sub(c.lastSeen) > r.ttl {
				delete(r.counts, pool)
			}
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Pool < entries[j].Pool
	})
	return entries
}

func cacheKey(pool string) string {
	return fmt.Sprintf("%s%s", cacheKeyPrefix, pool)
}
