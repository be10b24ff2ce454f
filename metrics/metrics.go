// Package metrics exports the statistics of state machines to Prometheus.
package metrics

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ggp-go/propnet/statemachine"
)

const namespace = "propnet"

type counter struct {
	desc *prometheus.Desc
	val  func(statemachine.Stats) int
}

func newCounter(name, help string, val func(statemachine.Stats) int) counter {
	return counter{
		desc: prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, []string{"game"}, nil),
		val:  val,
	}
}

var counters = []counter{
	newCounter("full_updates_total", "Number of full network evaluations.",
		func(st statemachine.Stats) int { return st.NbFullUpdates }),
	newCounter("differential_updates_total", "Number of differential propagations.",
		func(st statemachine.Stats) int { return st.NbDifferentialUpdates }),
	newCounter("props_recomputed_total", "Number of propositions recomputed by differential propagations.",
		func(st statemachine.Stats) int { return st.NbPropsRecomputed }),
	newCounter("cache_hits_total", "Number of queries about the last evaluated state.",
		func(st statemachine.Stats) int { return st.NbCacheHits }),
	newCounter("cache_misses_total", "Number of queries that needed an evaluation.",
		func(st statemachine.Stats) int { return st.NbCacheMisses }),
	newCounter("states_total", "Number of computed states.",
		func(st statemachine.Stats) int { return st.NbStates }),
}

// A Collector aggregates the statistics of any number of machines, per game.
// It is safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	totals map[string]statemachine.Stats
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{totals: make(map[string]statemachine.Stats)}
}

// Add adds st to the totals of game.
// Callers usually pass the difference between two snapshots of Machine.Stats.
func (c *Collector) Add(game string, st statemachine.Stats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tot := c.totals[game]
	tot.NbFullUpdates += st.NbFullUpdates
	tot.NbDifferentialUpdates += st.NbDifferentialUpdates
	tot.NbPropsRecomputed += st.NbPropsRecomputed
	tot.NbCacheHits += st.NbCacheHits
	tot.NbCacheMisses += st.NbCacheMisses
	tot.NbStates += st.NbStates
	c.totals[game] = tot
}

// Totals returns the current totals of game.
func (c *Collector) Totals(game string) statemachine.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totals[game]
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, cnt := range counters {
		ch <- cnt.desc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	names := make([]string, 0, len(c.totals))
	for name := range c.totals {
		names = append(names, name)
	}
	totals := make([]statemachine.Stats, len(names))
	sort.Strings(names)
	for i, name := range names {
		totals[i] = c.totals[name]
	}
	c.mu.Unlock()
	for i, name := range names {
		for _, cnt := range counters {
			ch <- prometheus.MustNewConstMetric(cnt.desc, prometheus.CounterValue, float64(cnt.val(totals[i])), name)
		}
	}
}
