package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/robinvdvleuten/beanreport/output"
)

// TimingCollector collects a forest of timers. Top level timers are reported
// in start order; children are attached explicitly through Timer.Child or
// WithTimer, so concurrent operations never nest into each other.
type TimingCollector struct {
	mu    sync.Mutex
	roots []*timerNode
	now   func() time.Time
}

type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	children []*timerNode
}

// NewTimingCollector creates a new timing collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{now: time.Now}
}

// Start begins timing a top level operation.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: c.now()}
	c.roots = append(c.roots, node)
	return &timingTimer{collector: c, node: node}
}

// Report writes every top level timer and its children.
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, root := range c.roots {
		formatTimingTree(w, root, styles)
	}
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

// End stops the timer. Ending a timer twice keeps the first end time.
func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	if t.node.end.IsZero() {
		t.node.end = t.collector.now()
	}
}

// Child starts a timer nested under t.
func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	node := &timerNode{name: name, start: t.collector.now()}
	t.node.children = append(t.node.children, node)
	return &timingTimer{collector: t.collector, node: node}
}
