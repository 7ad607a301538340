package sync

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

// ShardedMap is a string-keyed map split across 32 independently locked
// shards, so readers and writers of unrelated keys do not contend.
type ShardedMap[V any] struct {
	shards [shardCount]shard[V]
}

type shard[V any] struct {
	mu sync.RWMutex
	m  map[string]V
}

// NewShardedMap creates an empty map.
func NewShardedMap[V any]() *ShardedMap[V] {
	s := &ShardedMap[V]{}
	for i := range s.shards {
		s.shards[i].m = make(map[string]V)
	}
	return s
}

// Load returns the value stored for key.
func (s *ShardedMap[V]) Load(key string) (V, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	v, ok := sh.m[key]
	return v, ok
}

// Store sets the value for key, replacing any previous value.
func (s *ShardedMap[V]) Store(key string, value V) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.m[key] = value
}

// Delete removes key.
func (s *ShardedMap[V]) Delete(key string) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.m, key)
}

// Len counts entries across all shards. The result is not a snapshot when
// writers run concurrently.
func (s *ShardedMap[V]) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.m)
		sh.mu.RUnlock()
	}
	return n
}

func (s *ShardedMap[V]) shardFor(key string) *shard[V] {
	return &s.shards[shardIndex(key)]
}

// Empty keys map to shard 0.
func shardIndex(key string) int {
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % shardCount)
}
