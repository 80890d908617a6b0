// Package idgen provides order identifier sources.
package idgen

import (
	"sync/atomic"
	"time"
)

// Clock derives identifiers from wall-clock milliseconds, bumped past the
// previous value when calls land on the same millisecond. Ids trend upward
// monotonically; uniqueness is practical, not guaranteed across processes.
type Clock struct {
	last atomic.Int64
}

func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) Next() int64 {
	for {
		now := time.Now().UnixMilli()
		last := c.last.Load()
		if now <= last {
			now = last + 1
		}
		if c.last.CompareAndSwap(last, now) {
			return now
		}
	}
}
