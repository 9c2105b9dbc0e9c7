// Package buffer provides an unbounded FIFO queue that lets producers on
// latency-sensitive paths hand work off without blocking.
package buffer

import "sync"

// growThreshold is the fill percentage at which capacity doubles.
const growThreshold = 70

// Growable is a thread-safe FIFO that doubles its capacity when it reaches
// 70% full. Send never blocks.
type Growable[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []T
	head   int // read position
	count  int
	closed bool

	stats Stats
}

// Stats contains buffer statistics.
type Stats struct {
	Count       int
	Capacity    int
	Enqueued    int64
	Dequeued    int64
	ResizeCount int
}

// New creates a buffer with the given initial capacity.
func New[T any](initialCapacity int) *Growable[T] {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	b := &Growable[T]{buf: make([]T, initialCapacity)}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Send appends an item. Returns false if the buffer is closed.
func (b *Growable[T]) Send(item T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}

	threshold := max(len(b.buf)*growThreshold/100, 1)
	if b.count+1 >= threshold {
		b.grow()
	}

	b.buf[(b.head+b.count)%len(b.buf)] = item
	b.count++
	b.stats.Enqueued++

	b.cond.Signal()
	return true
}

// Receive blocks until an item is available. It returns false once the
// buffer is closed and drained.
func (b *Growable[T]) Receive() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for b.count == 0 && !b.closed {
		b.cond.Wait()
	}
	if b.count == 0 {
		var zero T
		return zero, false
	}
	return b.pop(), true
}

// DrainTo removes up to max items (all if max <= 0) without blocking.
func (b *Growable[T]) DrainTo(max int) []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.count
	if max > 0 && max < n {
		n = max
	}
	if n == 0 {
		return nil
	}

	out := make([]T, n)
	for i := range out {
		out[i] = b.pop()
	}
	return out
}

// Close stops accepting items. Receivers still get what is left.
func (b *Growable[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.cond.Broadcast()
}

// Len returns the number of queued items.
func (b *Growable[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Stats returns buffer statistics.
func (b *Growable[T]) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.stats
	s.Count = b.count
	s.Capacity = len(b.buf)
	return s
}

// pop removes the head item. Must be called with lock held and count > 0.
func (b *Growable[T]) pop() T {
	item := b.buf[b.head]
	var zero T
	b.buf[b.head] = zero // Clear reference for GC
	b.head = (b.head + 1) % len(b.buf)
	b.count--
	b.stats.Dequeued++
	return item
}

// grow doubles the capacity, unwrapping the ring. Must be called with lock held.
func (b *Growable[T]) grow() {
	newBuf := make([]T, len(b.buf)*2)
	for i := 0; i < b.count; i++ {
		newBuf[i] = b.buf[(b.head+i)%len(b.buf)]
	}
	b.buf = newBuf
	b.head = 0
	b.stats.ResizeCount++
}
