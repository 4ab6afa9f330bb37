package push

import (
	"context"
	"sync"
)

// Broadcaster fans events out to every process serving SSE clients.
// LocalBroadcaster covers a single instance; RedisBroadcaster adds
// cross-instance delivery through pub/sub.
type Broadcaster interface {
	// Publish sends an event to all subscribers
	Publish(ctx context.Context, evt Event) error
	// Subscribe blocks, invoking the callback for each received event,
	// until the context is cancelled
	Subscribe(ctx context.Context, callback func(evt Event)) error
	// Close releases any resources held by the broadcaster
	Close() error
}

// LocalBroadcaster delivers events in-process, with no external broker
type LocalBroadcaster struct {
	mu        sync.RWMutex
	callbacks []func(evt Event)
}

// NewLocalBroadcaster creates a new in-process broadcaster
func NewLocalBroadcaster() *LocalBroadcaster {
	return &LocalBroadcaster{}
}

// Publish invokes every subscriber callback synchronously
func (b *LocalBroadcaster) Publish(ctx context.Context, evt Event) error {
	b.mu.RLock()
	callbacks := make([]func(evt Event), len(b.callbacks))
	copy(callbacks, b.callbacks)
	b.mu.RUnlock()

	for _, cb := range callbacks {
		cb(evt)
	}
	return nil
}

// Subscribe registers the callback and blocks until the context ends
func (b *LocalBroadcaster) Subscribe(ctx context.Context, callback func(evt Event)) error {
	b.mu.Lock()
	b.callbacks = append(b.callbacks, callback)
	b.mu.Unlock()

	<-ctx.Done()
	return ctx.Err()
}

// Close is a no-op for the in-process broadcaster
func (b *LocalBroadcaster) Close() error {
	return nil
}

var _ Broadcaster = (*LocalBroadcaster)(nil)
