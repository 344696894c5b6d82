// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// ProviderMemory is the name of the in-process LRU provider.
const ProviderMemory = "memory"

func init() {
	Register(ProviderMemory, newMemoryCache)
}

type memoryCache struct {
	inner *lru.LRU[string, []byte]
}

func newMemoryCache(cfg ProviderConfig) (Cache, error) {
	var onEvict lru.EvictCallback[string, []byte]
	if cfg.OnEvict != nil {
		onEvict = func(key string, value []byte) {
			cfg.OnEvict(key, value)
		}
	}

	return &memoryCache{
		inner: lru.NewLRU(cfg.Size, onEvict, cfg.TTL),
	}, nil
}

func (cache *memoryCache) Get(key string) ([]byte, bool) {
	return cache.inner.Get(key)
}

func (cache *memoryCache) Set(key string, value []byte) {
	cache.inner.Add(key, value)
}

func (cache *memoryCache) Delete(key string) {
	cache.inner.Remove(key)
}

func (cache *memoryCache) Contains(key string) bool {
	return cache.inner.Contains(key)
}

func (cache *memoryCache) Len() int {
	return cache.inner.Len()
}

func (cache *memoryCache) Close() error {
	return nil
}
