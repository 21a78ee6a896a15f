package searcher

import (
	"sync/atomic"
	"time"
)

// SearchMetric summarises one call to FindMove or Simulate.
type SearchMetric struct {
	Duration       time.Duration
	Goroutines     int
	Cutoff         int
	Episodes       int64
	FullPlayouts   int64 // Rollouts that reached the end of the game
	RolloutActions int64
}

// MeanDepth is the average number of random actions played per rollout.
func (s SearchMetric) MeanDepth() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.RolloutActions) / float64(s.Episodes)
}

type MetricsCollector interface {
	Start(goroutines, cutoff int)
	AddRollout(depth int, finished bool)
	Complete() SearchMetric
}

type searchCollector struct {
	started    time.Time
	goroutines int
	cutoff     int
	episodes   atomic.Int64
	finished   atomic.Int64
	actions    atomic.Int64
}

func NewMetricsCollector() MetricsCollector {
	return &searchCollector{}
}

func (c *searchCollector) Start(goroutines, cutoff int) {
	c.started = time.Now()
	c.goroutines, c.cutoff = goroutines, cutoff
	c.episodes.Store(0)
	c.finished.Store(0)
	c.actions.Store(0)
}

func (c *searchCollector) AddRollout(depth int, finished bool) {
	c.episodes.Add(1)
	c.actions.Add(int64(depth))
	if finished {
		c.finished.Add(1)
	}
}

func (c *searchCollector) Complete() SearchMetric {
	return SearchMetric{
		Duration:       time.Since(c.started),
		Goroutines:     c.goroutines,
		Cutoff:         c.cutoff,
		Episodes:       c.episodes.Load(),
		FullPlayouts:   c.finished.Load(),
		RolloutActions: c.actions.Load(),
	}
}

type nopCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return nopCollector{}
}

func (nopCollector) Start(int, int)         {}
func (nopCollector) AddRollout(int, bool)   {}
func (nopCollector) Complete() SearchMetric { return SearchMetric{} }
