// Package testutil holds deterministic stand-ins for the sources of
// variation in form saving: submission sequence numbers and forgery tokens.
package testutil

import "sync"

// SeqClock is a resettable logical clock for submission sequence numbers.
//
// It satisfies schemaform.Sequence, so tests that save forms get seq values
// 1, 2, 3... in dataset order and can compare stored rows exactly.
//
// Thread-safety: All methods are safe for concurrent use.
type SeqClock struct {
	mu  sync.Mutex
	seq int64
}

// NewSeqClock creates a clock whose first Next() returns 1.
func NewSeqClock() *SeqClock {
	return &SeqClock{}
}

// Next increments and returns the sequence number.
func (c *SeqClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the last value handed out, or 0.
func (c *SeqClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock so the next call to Next() returns 1 again.
func (c *SeqClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
