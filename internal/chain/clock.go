package chain

import (
	"sync/atomic"
	"time"
)

// Clock supplies the current logical block height. The engine treats it as
// a given fact; it only ever moves forward.
type Clock interface {
	Height() uint64
}

// IntervalClock derives the height from wall time: one block per interval
// since genesis.
type IntervalClock struct {
	genesis  time.Time
	interval time.Duration
}

func NewIntervalClock(genesis time.Time, interval time.Duration) *IntervalClock {
	return &IntervalClock{genesis: genesis, interval: interval}
}

func (c *IntervalClock) Height() uint64 {
	elapsed := time.Since(c.genesis)
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed / c.interval)
}

// ManualClock is a settable clock for tests and one-shot tooling.
type ManualClock struct {
	height atomic.Uint64
}

func NewManualClock(height uint64) *ManualClock {
	c := &ManualClock{}
	c.height.Store(height)
	return c
}

func (c *ManualClock) Height() uint64 { return c.height.Load() }

func (c *ManualClock) Set(height uint64) { c.height.Store(height) }

func (c *ManualClock) Advance(blocks uint64) { c.height.Add(blocks) }
