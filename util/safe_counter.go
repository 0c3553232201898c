package util

import (
	"sync/atomic"
)

// SafeCounter defines a thread safe counter.
type SafeCounter struct {
	val uint64
}

// Get returns value of the counter.
func (c *SafeCounter) Get() uint64 {
	return atomic.LoadUint64(&c.val)
}

// Set sets value of the counter.
func (c *SafeCounter) Set(v uint64) {
	atomic.StoreUint64(&c.val, v)
}

// Add adds delta to current counter.
func (c *SafeCounter) Add(delta uint64) uint64 {
	return atomic.AddUint64(&c.val, delta)
}
