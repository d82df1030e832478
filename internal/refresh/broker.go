// Package refresh carries the "reservations changed" signal from the
// submission flow to every listing view that wants to re-fetch.
//
// A Broker is created once in main and handed explicitly to both sides:
// producers see it as a Notifier, consumers hold a Subscription.
package refresh

import (
	"context"
	"sync"
)

// Notifier is implemented by anything that can announce that the set of
// reservations has changed. Notify returns the local version the
// announcement was published as.
type Notifier interface {
	Notify(ctx context.Context) uint64
}

// Broker keeps a version counter, starting at 0, and fans every increment
// out to its subscribers.
type Broker struct {
	mu      sync.Mutex
	version uint64
	subs    map[*Subscription]struct{}
}

// NewBroker returns a Broker at version 0 with no subscribers.
func NewBroker() *Broker {
	return &Broker{subs: make(map[*Subscription]struct{})}
}

// Notify implements Notifier by publishing a new version.
func (b *Broker) Notify(_ context.Context) uint64 {
	return b.Publish()
}

// Publish increments the version and delivers it to every subscriber.
// It never blocks: a subscriber that has not drained its previous value
// has it replaced by the newer one.
func (b *Broker) Publish() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.version++
	for s := range b.subs {
		s.offer(b.version)
	}
	return b.version
}

// Version returns the current version.
func (b *Broker) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// Subscribe registers a new subscriber. Callers must Close it when done.
func (b *Broker) Subscribe() *Subscription {
	s := &Subscription{broker: b, ch: make(chan uint64, 1)}

	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	return s
}

// Subscription receives broker versions. Only the latest undelivered version
// is kept, so a slow reader sees one value for a burst of publishes.
type Subscription struct {
	broker *Broker
	ch     chan uint64
	once   sync.Once
}

// C returns the channel versions are delivered on. It is closed by Close.
func (s *Subscription) C() <-chan uint64 {
	return s.ch
}

// Close unregisters the subscription and closes its channel.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.broker.mu.Lock()
		delete(s.broker.subs, s)
		close(s.ch)
		s.broker.mu.Unlock()
	})
}

// offer must be called with the broker lock held.
func (s *Subscription) offer(v uint64) {
	select {
	case s.ch <- v:
		return
	default:
	}
	// Drop the stale value and replace it.
	select {
	case <-s.ch:
	default:
	}
	s.ch <- v
}
