// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// ProviderConfig holds what a provider needs to build a cache instance.
type ProviderConfig struct {
	// Size is the maximum number of entries for LRU providers.
	Size int

	// TTL is the lifetime of each entry.
	TTL time.Duration

	// OnEvict is called when an entry is evicted. Not all providers support it.
	OnEvict EvictCallback

	// Logger receives backend failures. Nil falls back to slog.Default.
	Logger *slog.Logger

	// RedisURL is the redis:// connection URL used by the redis provider.
	RedisURL string

	// Group labels the Prometheus series of this instance. When non-empty the
	// cache is wrapped with hit/miss/eviction instrumentation.
	Group string
}

// Provider builds a Cache from config.
type Provider func(cfg ProviderConfig) (Cache, error)

var (
	mu        sync.RWMutex
	providers = make(map[string]Provider)
)

// Register makes a provider available under name.
// It panics if the name is taken or the provider is nil.
func Register(name string, provider Provider) {
	mu.Lock()
	defer mu.Unlock()

	if provider == nil {
		panic("cache: Register provider is nil")
	}
	if _, exists := providers[name]; exists {
		panic(fmt.Sprintf("cache: provider %q already registered", name))
	}
	providers[name] = provider
}

// New builds a cache with the named provider. A non-empty cfg.Group wraps the
// result with metric instrumentation.
func New(name string, cfg ProviderConfig) (Cache, error) {
	mu.RLock()
	provider, ok := providers[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("cache: unknown provider %q (registered: %v)", name, RegisteredProviders())
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Group == "" {
		return provider(cfg)
	}

	group := cfg.Group
	original := cfg.OnEvict
	cfg.OnEvict = func(key string, value []byte) {
		EvictionsTotal.WithLabelValues(group).Inc()
		if original != nil {
			original(key, value)
		}
	}

	inner, err := provider(cfg)
	if err != nil {
		return nil, err
	}

	return newInstrumentedCache(inner, group), nil
}

// RegisteredProviders returns the sorted provider names.
func RegisteredProviders() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
