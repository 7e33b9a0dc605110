package pool_registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/okieraised/alert-watcher/internal/agent/access_log_watcher"
	"github.com/okieraised/alert-watcher/internal/constants"
	"github.com/okieraised/alert-watcher/internal/infrastructure/local_cache"
)

func record(pool, release, addr string, status int) access_log_watcher.Record {
	return access_log_watcher.Record{
		Pool:           pool,
		Release:        release,
		UpstreamStatus: status,
		UpstreamAddr:   addr,
	}
}

func TestRegistry_RecordAndSnapshot(t *testing.T) {
	assert.NoError(t, local_cache.NewLocalCache())

	r := NewRegistry(time.Minute)
	r.Record(record("blue", "Blue-v1.0.0", "172.19.0.2:80", 200))
	r.Record(record("blue", "Blue-v1.0.0", "172.19.0.2:80", 503))
	r.Record(record("green", "Green-v2.1.0", "172.19.0.3:80", 200))
	local_cache.Cache().Wait()

	entries := r.Snapshot()
	assert.Len(t, entries, 2)

	assert.Equal(t, "blue", entries[0].Pool)
	assert.Equal(t, "Blue-v1.0.0", entries[0].Release)
	assert.Equal(t, constants.PoolStatePrimary, entries[0].State)
	assert.Equal(t, "172.19.0.2:80", entries[0].UpstreamAddr)
	assert.Equal(t, uint64(2), entries[0].RequestCount)
	assert.Equal(t, uint64(1), entries[0].ErrorCount)
	assert.Equal(t, 503, entries[0].LastStatus)

	assert.Equal(t, "green", entries[1].Pool)
	assert.Equal(t, constants.PoolStateBackup, entries[1].State)
	assert.Equal(t, uint64(1), entries[1].RequestCount)
	assert.Equal(t, uint64(0), entries[1].ErrorCount)
}

func TestRegistry_CustomPrimaryPrefix(t *testing.T) {
	assert.NoError(t, local_cache.NewLocalCache())

	r := NewRegistry(time.Minute, WithPrimaryPrefix("green"))
	r.Record(record("GREEN-pool-1", "Green-v2.1.0", "172.19.0.3:80", 200))
	r.Record(record("blue", "Blue-v1.0.0", "172.19.0.2:80", 200))
	local_cache.Cache().Wait()

	entries := r.Snapshot()
	assert.Len(t, entries, 2)
	assert.Equal(t, constants.PoolStatePrimary, entries[0].State)
	assert.Equal(t, constants.PoolStateBackup, entries[1].State)
}

func TestRegistry_ReleaseChangeTracked(t *testing.T) {
	assert.NoError(t, local_cache.NewLocalCache())

	r := NewRegistry(time.Minute)
	r.Record(record("green", "Green-v2.1.0", "172.19.0.3:80", 200))
	r.Record(record("green", "Green-v2.2.0", "172.19.0.4:80", 200))
	local_cache.Cache().Wait()

	entries := r.Snapshot()
	assert.Len(t, entries, 1)
	assert.Equal(t, "Green-v2.2.0", entries[0].Release)
	assert.Equal(t, "172.19.0.4:80", entries[0].UpstreamAddr)
	assert.Equal(t, uint64(2), entries[0].RequestCount)
}

func TestRegistry_ExpiredPoolsAgeOut(t *testing.T) {
	assert.NoError(t, local_cache.NewLocalCache())

	r := NewRegistry(50 * time.Millisecond)
	r.Record(record("green", "Green-v2.1.0", "172.19.0.3:80", 200))
	local_cache.Cache().Wait()
	assert.Len(t, r.Snapshot(), 1)

	time.Sleep(120 * time.Millisecond)
	assert.Empty(t, r.Snapshot())

	r.mu.Lock()
	_, tracked := r.counts["green"]
	r.mu.Unlock()
	assert.False(t, tracked)
}

func TestRegistry_EmptyPoolIgnored(t *testing.T) {
	assert.NoError(t, local_cache.NewLocalCache())

	r := NewRegistry(time.Minute)
	r.Record(access_log_watcher.Record{Pool: ""})
	assert.Empty(t, r.Snapshot())
}
