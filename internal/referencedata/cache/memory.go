package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"trsync/internal/referencedata/metrics"
	psync "trsync/pkg/platform/sync"
)

const layerMemory = "memory"

// PopulateTimeout bounds a detached population.
const PopulateTimeout = 10 * time.Second

// Memory is a process-wide get-or-populate cache. Concurrent misses on the
// same key share one populate call.
type Memory struct {
	entries *psync.ShardedMap[Entry]
	group   singleflight.Group
	metrics *metrics.Metrics
}

// NewMemory creates an empty cache; m may be nil.
func NewMemory(m *metrics.Metrics) *Memory {
	return &Memory{entries: psync.NewShardedMap[Entry](), metrics: m}
}

// GetOrPopulate returns the cached entry for key, or runs populate once for
// every concurrent caller and stores its result. Populate errors are returned
// to all waiting callers and not cached. A caller whose ctx ends while waiting
// returns ctx.Err(). The population itself runs detached from the leader's
// cancellation, so followers never see the leader's ctx.Err().
func (c *Memory) GetOrPopulate(ctx context.Context, key string, populate Populate) (Entry, error) {
	if e, ok := c.get(key); ok {
		c.metrics.RecordCacheHit(layerMemory)
		return e, nil
	}
	c.metrics.RecordCacheMiss(layerMemory)

	ch := c.group.DoChan(key, func() (any, error) {
		// a previous flight may have stored the key between get and DoChan
		if e, ok := c.get(key); ok {
			return e, nil
		}
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PopulateTimeout)
		defer cancel()
		e, err := populate(pctx)
		if err != nil {
			return Entry{}, err
		}
		c.entries.Store(key, e)
		return e, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.metrics.RecordCoalesced()
		}
		if res.Err != nil {
			return Entry{}, res.Err
		}
		return res.Val.(Entry), nil
	case <-ctx.Done():
		return Entry{}, ctx.Err()
	}
}

// Len reports how many keys are cached.
func (c *Memory) Len() int {
	return c.entries.Len()
}

func (c *Memory) get(key string) (Entry, bool) {
	return c.entries.Load(key)
}
