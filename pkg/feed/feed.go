// Package feed implements an in-process broadcast channel with replay-latest
// semantics. A new subscriber immediately receives the most recent published
// snapshot, then every snapshot published afterwards. Slow subscribers drop
// intermediate snapshots rather than blocking publishers; only the latest
// value matters.
package feed

import (
	"context"
	"sync"
)

// Feed fans a stream of snapshots out to any number of subscribers.
type Feed[T any] struct {
	mu       sync.Mutex
	latest   T
	hasValue bool
	subs     map[chan T]struct{}
	closed   bool
}

// New returns an empty feed with no published value.
func New[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[chan T]struct{})}
}

// Publish replaces the feed's latest snapshot and notifies all subscribers.
// A subscriber that has not drained its previous notification is skipped; it
// will observe the newest value on its next receive.
func (f *Feed[T]) Publish(value T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.latest = value
	f.hasValue = true
	for ch := range f.subs {
		select {
		case ch <- value:
		default:
			// Drain the stale snapshot and replace it with the new one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- value:
			default:
			}
		}
	}
}

// Latest returns the most recent published snapshot, if any.
func (f *Feed[T]) Latest() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest, f.hasValue
}

// Subscribe registers a new subscriber and returns its channel. If a snapshot
// has been published, it is delivered immediately. The subscription ends when
// ctx is done or the feed is closed.
func (f *Feed[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(ch)
		return ch
	}
	f.subs[ch] = struct{}{}
	if f.hasValue {
		ch <- f.latest
	}
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.unsubscribe(ch)
	}()
	return ch
}

func (f *Feed[T]) unsubscribe(ch chan T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[ch]; ok {
		delete(f.subs, ch)
		close(ch)
	}
}

// Close ends all subscriptions. Publish becomes a no-op afterwards.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for ch := range f.subs {
		delete(f.subs, ch)
		close(ch)
	}
}
