// Package metrics keeps in-process timing statistics for source fetches,
// favorites persistence, exports and MCP tool calls.
package metrics

import (
	"slices"
	"sort"
	"sync"
	"time"
)

// Operation names for the collector.
const (
	OpFetch   = "source_fetch"
	OpPersist = "favorites_persist"
	OpExport  = "export"
)

// recentSamples bounds the window used for the p95 figure.
const recentSamples = 128

// opStats is the running aggregate of one operation.
type opStats struct {
	count    int64
	failures int64
	total    time.Duration
	min      time.Duration
	max      time.Duration
	last     time.Time

	recent []time.Duration // ring of the latest durations
	next   int
}

func (s *opStats) add(d time.Duration, failed bool, at time.Time) {
	if s.count == 0 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
	s.count++
	if failed {
		s.failures++
	}
	s.total += d
	s.last = at

	if len(s.recent) < recentSamples {
		s.recent = append(s.recent, d)
		return
	}
	s.recent[s.next] = d
	s.next = (s.next + 1) % recentSamples
}

func (s *opStats) p95() time.Duration {
	if len(s.recent) == 0 {
		return 0
	}
	sorted := slices.Clone(s.recent)
	slices.Sort(sorted)
	return sorted[(len(sorted)*95+99)/100-1]
}

// OperationSnapshot is the reported view of one operation.
type OperationSnapshot struct {
	Count       int64     `json:"count"`
	Failures    int64     `json:"failures"`
	TotalTimeMs int64     `json:"totalTimeMs"`
	AvgTimeMs   float64   `json:"avgTimeMs"`
	MinTimeMs   int64     `json:"minTimeMs"`
	MaxTimeMs   int64     `json:"maxTimeMs"`
	P95TimeMs   int64     `json:"p95TimeMs"`
	LastAt      time.Time `json:"lastAt"`
}

// Snapshot is the collector state at one point in time.
type Snapshot struct {
	UptimeSeconds float64                      `json:"uptimeSeconds"`
	Operations    map[string]OperationSnapshot `json:"operations"`
}

// Names returns the recorded operation names in sorted order.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s.Operations))
	for name := range s.Operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Collector aggregates timings per operation name.
// Safe for concurrent use; a nil *Collector ignores records.
type Collector struct {
	mu      sync.Mutex
	started time.Time
	now     func() time.Time
	ops     map[string]*opStats
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		started: time.Now(),
		now:     time.Now,
		ops:     map[string]*opStats{},
	}
}

// RecordTiming records a successful operation.
func (c *Collector) RecordTiming(op string, d time.Duration) {
	c.record(op, d, false)
}

// RecordFailure records a failed operation.
func (c *Collector) RecordFailure(op string, d time.Duration) {
	c.record(op, d, true)
}

// Observe records op as started at start, failed when err is non-nil.
// Intended for defer: defer c.Observe(op, time.Now(), &err).
func (c *Collector) Observe(op string, start time.Time, err *error) {
	failed := err != nil && *err != nil
	c.record(op, time.Since(start), failed)
}

func (c *Collector) record(op string, d time.Duration, failed bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.ops[op]
	if !ok {
		s = &opStats{}
		c.ops[op] = s
	}
	s.add(d, failed, c.now())
}

// Snapshot returns a copy of all recorded operations.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{Operations: map[string]OperationSnapshot{}}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ops := make(map[string]OperationSnapshot, len(c.ops))
	for name, s := range c.ops {
		ops[name] = OperationSnapshot{
			Count:       s.count,
			Failures:    s.failures,
			TotalTimeMs: s.total.Milliseconds(),
			AvgTimeMs:   float64(s.total.Milliseconds()) / float64(s.count),
			MinTimeMs:   s.min.Milliseconds(),
			MaxTimeMs:   s.max.Milliseconds(),
			P95TimeMs:   s.p95().Milliseconds(),
			LastAt:      s.last,
		}
	}

	return Snapshot{
		UptimeSeconds: time.Since(c.started).Seconds(),
		Operations:    ops,
	}
}
