// Package eventbus fans classified log events out to independent subscribers.
//
// Each subscription owns a bounded queue. Publish never blocks: when a
// subscriber's queue is full the event being published is dropped for that
// subscriber only (newest-dropped) and its Dropped counter increments.
// Events already queued are never discarded, so a subscriber that catches up
// sees a gap-free prefix followed by whatever arrived after it had room again.
package eventbus

import (
	"sync"
	"sync/atomic"

	"github.com/vallocal/vallocal-go/pkg/vallocal/event"
)

// DefaultBufferSize is the per-subscriber queue length used when New is
// given a non-positive size.
const DefaultBufferSize = 64

// Bus is a single-writer, multi-reader broadcast of events.
// The zero value is not usable; call New.
type Bus struct {
	bufferSize int

	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool
}

// New creates a bus whose subscriptions buffer up to bufferSize events.
func New(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Bus{
		bufferSize: bufferSize,
		subs:       make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a new reader. Its queue starts empty: events published
// before this call are never delivered to it. Subscribing to a closed bus
// returns a subscription whose channel is already closed.
func (b *Bus) Subscribe() *Subscription {
	s := &Subscription{
		bus: b,
		ch:  make(chan event.Event, b.bufferSize),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		s.closed = true
		close(s.ch)
		return s
	}
	b.subs[s] = struct{}{}
	return s
}

// Publish delivers ev to every active subscription without blocking.
// Publishing with no subscribers is a no-op.
func (b *Bus) Publish(ev event.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs {
		select {
		case s.ch <- ev:
		default:
			s.dropped.Add(1)
		}
	}
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes every subscription and rejects new ones.
// Safe to call multiple times.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		s.closeLocked()
	}
	clear(b.subs)
}

func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[s]; ok {
		delete(b.subs, s)
	}
	s.closeLocked()
}

// Subscription is one consumer's view of the bus.
type Subscription struct {
	bus     *Bus
	ch      chan event.Event
	dropped atomic.Uint64

	// closed is guarded by bus.mu.
	closed bool
}

// Events returns the channel events are delivered on, in publish order.
// The channel is closed when the subscription or the bus is closed.
func (s *Subscription) Events() <-chan event.Event {
	return s.ch
}

// Dropped reports how many events were discarded because the queue was full.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Close unregisters the subscription and releases its queue.
// Safe to call multiple times and concurrently with Publish.
func (s *Subscription) Close() {
	s.bus.remove(s)
}

// closeLocked requires bus.mu held for writing.
func (s *Subscription) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
