// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache metrics. Every series carries a "cache" label equal to ProviderConfig.Group.
var (
	HitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits.",
		},
		[]string{"cache"},
	)

	MissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses.",
		},
		[]string{"cache"},
	)

	// EvictionsTotal includes explicit invalidations on the memory provider.
	EvictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of entries evicted or invalidated.",
		},
		[]string{"cache"},
	)
)

func init() {
	prometheus.MustRegister(
		HitsTotal,
		MissesTotal,
		EvictionsTotal,
	)
}

// entriesCollector reports the entry count of one group at scrape time.
type entriesCollector struct {
	desc    *prometheus.Desc
	lenFunc func() int
}

func (collector *entriesCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.desc
}

func (collector *entriesCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(collector.desc, prometheus.GaugeValue, float64(collector.lenFunc()))
}

var (
	entriesMu         sync.Mutex
	entriesCollectors = make(map[string]*entriesCollector)
	// entriesRegisterer is swapped for an isolated registry in tests.
	entriesRegisterer prometheus.Registerer = prometheus.DefaultRegisterer
)

// registerEntriesCollector replaces any collector previously registered for group.
func registerEntriesCollector(group string, lenFunc func() int) {
	collector := &entriesCollector{
		desc: prometheus.NewDesc(
			"cache_entries",
			"Current number of entries in the cache.",
			nil,
			prometheus.Labels{"cache": group},
		),
		lenFunc: lenFunc,
	}

	entriesMu.Lock()
	defer entriesMu.Unlock()

	if old, ok := entriesCollectors[group]; ok {
		entriesRegisterer.Unregister(old)
	}
	entriesCollectors[group] = collector
	_ = entriesRegisterer.Register(collector)
}

func unregisterEntriesCollector(group string) {
	entriesMu.Lock()
	defer entriesMu.Unlock()

	if collector, ok := entriesCollectors[group]; ok {
		entriesRegisterer.Unregister(collector)
		delete(entriesCollectors, group)
	}
}
