// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import "context"

// instrumentedCache records hit and miss counters for a group.
type instrumentedCache struct {
	inner Cache
	group string
}

func newInstrumentedCache(inner Cache, group string) *instrumentedCache {
	registerEntriesCollector(group, inner.Len)
	return &instrumentedCache{inner: inner, group: group}
}

func (cache *instrumentedCache) Get(key string) ([]byte, bool) {
	value, ok := cache.inner.Get(key)
	if ok {
		HitsTotal.WithLabelValues(cache.group).Inc()
	} else {
		MissesTotal.WithLabelValues(cache.group).Inc()
	}
	return value, ok
}

func (cache *instrumentedCache) Set(key string, value []byte) {
	cache.inner.Set(key, value)
}

func (cache *instrumentedCache) Delete(key string) {
	cache.inner.Delete(key)
}

func (cache *instrumentedCache) Contains(key string) bool {
	return cache.inner.Contains(key)
}

func (cache *instrumentedCache) Len() int {
	return cache.inner.Len()
}

// Ping forwards to the inner cache when it has a remote backend.
func (cache *instrumentedCache) Ping(ctx context.Context) error {
	return Ping(ctx, cache.inner)
}

func (cache *instrumentedCache) Close() error {
	unregisterEntriesCollector(cache.group)
	return cache.inner.Close()
}

// Ping checks the backend of caches that have one. In-process caches are always healthy.
func Ping(ctx context.Context, cache Cache) error {
	pinger, ok := cache.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	return pinger.Ping(ctx)
}
