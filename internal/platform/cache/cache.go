// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cache provides a small byte-oriented key/value cache with pluggable providers.

Two providers are registered out of the box:

  - "memory": an expiring LRU (hashicorp/golang-lru/v2/expirable) local to the process.
  - "redis": a shared cache on top of the platform Redis client, entries expire server-side.

Values are opaque bytes; callers own the serialization format.
*/
package cache

// EvictCallback is called when an entry is evicted from the cache.
// Providers with server-side eviction (redis) never invoke it.
type EvictCallback func(key string, value []byte)

// Cache is a key/value store with bounded lifetime entries.
type Cache interface {
	// Get returns the value and true on a hit, nil and false otherwise.
	Get(key string) ([]byte, bool)

	// Set stores a value, overwriting any existing entry.
	Set(key string, value []byte)

	// Delete removes the entry if present.
	Delete(key string)

	// Contains reports whether the key exists without touching recency.
	Contains(key string) bool

	// Len returns the number of live entries. For redis this is the key count of the database.
	Len() int

	// Close releases any resources held by the cache.
	Close() error
}
