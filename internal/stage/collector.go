package stage

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// Collector holds one result slot per example. Each slot is written exactly once;
// workers may write concurrently.
type Collector struct {
	mu      sync.Mutex
	slots   []Outcome
	written []bool
}

// NewCollector allocates n empty slots.
func NewCollector(n int) *Collector {
	return &Collector{slots: make([]Outcome, n), written: make([]bool, n)}
}

// Set fills slot i. Writing a slot twice is a programming error.
func (c *Collector) Set(i int, o Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.written[i] {
		panic(fmt.Sprintf("stage: result slot %d (%s) written twice", i, o.Name))
	}
	c.slots[i] = o
	c.written[i] = true
}

// Filled reports whether slot i has been written.
func (c *Collector) Filled(i int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.written[i]
}

// Outcomes returns the written outcomes sorted by example name.
func (c *Collector) Outcomes() []Outcome {
	c.mu.Lock()
	out := make([]Outcome, 0, len(c.slots))
	for i, o := range c.slots {
		if c.written[i] {
			out = append(out, o)
		}
	}
	c.mu.Unlock()
	slices.SortFunc(out, func(a, b Outcome) int { return cmp.Compare(a.Name, b.Name) })
	return out
}
