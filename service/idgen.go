package service

import (
	"sync"
	"time"

	"github.com/goliatone/go-itemstore/item"
)

// IDGenerator issues item ids from a millisecond clock. Ids are strictly
// increasing: when two requests land in the same millisecond, or the clock
// goes backwards, the next id is last+1.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator returns a generator backed by the wall clock.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// Next returns an id greater than every id in existing and every id
// previously issued by g.
func (g *IDGenerator) Next(existing []item.Item) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, it := range existing {
		if it.ID > g.last {
			g.last = it.ID
		}
	}

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
