// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package aterm

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// collector exports the statistics of a Store as Prometheus metrics.
type collector struct {
	store *Store

	live      *prometheus.Desc
	produced  *prometheus.Desc
	destroyed *prometheus.Desc
	capacity  *prometheus.Desc
	resizes   *prometheus.Desc
	failures  *prometheus.Desc
	hits      *prometheus.Desc
	misses    *prometheus.Desc
	symbols   *prometheus.Desc
	blocks    *prometheus.Desc
	free      *prometheus.Desc
}

// NewCollector returns a prometheus.Collector for the statistics of s. The
// store is not safe for concurrent use, so metrics must only be gathered while
// no other goroutine is using s; for example after a computation or between
// two steps of a computation.
func NewCollector(s *Store, namespace string) prometheus.Collector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, nil)
	}
	return &collector{
		store:     s,
		live:      desc("live_terms", "Number of live terms in the store"),
		produced:  desc("terms_produced_total", "Total number of terms built"),
		destroyed: desc("terms_destroyed_total", "Total number of terms reclaimed"),
		capacity:  desc("table_buckets", "Number of buckets in the term table"),
		resizes:   desc("table_resizes_total", "Number of times the term table doubled"),
		failures:  desc("table_resize_failures_total", "Number of abandoned resizes of the term table"),
		hits:      desc("table_hits_total", "Number of requests answered with an existing term"),
		misses:    desc("table_misses_total", "Number of requests that built a new term"),
		symbols:   desc("live_symbols", "Number of live function symbols"),
		blocks:    desc("blocks", "Number of memory blocks, per term size", "size"),
		free:      desc("free_slots", "Number of slots in the free list, per term size", "size"),
	}
}

// Describe implements prometheus.Collector.
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.live
	ch <- c.produced
	ch <- c.destroyed
	ch <- c.capacity
	ch <- c.resizes
	ch <- c.failures
	ch <- c.hits
	ch <- c.misses
	ch <- c.symbols
	ch <- c.blocks
	ch <- c.free
}

// Collect implements prometheus.Collector.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	st := c.store.Stats()
	gauge := func(d *prometheus.Desc, v int, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, float64(v), labels...)
	}
	counter := func(d *prometheus.Desc, v int) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	gauge(c.live, st.Live)
	counter(c.produced, st.Produced)
	counter(c.destroyed, st.Destroyed)
	gauge(c.capacity, st.Capacity)
	counter(c.resizes, st.Resizes)
	counter(c.failures, st.ResizeFailures)
	counter(c.hits, st.Hit)
	counter(c.misses, st.Miss)
	gauge(c.symbols, st.Symbols)
	for _, z := range st.Sizes {
		size := strconv.Itoa(z.Size)
		gauge(c.blocks, z.Blocks, size)
		gauge(c.free, z.Free, size)
	}
}
