package push

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultCloseTimeout = 5 * time.Second

// RedisBroadcaster implements Broadcaster using Redis Pub/Sub so that
// every server instance sees events published by any of them
type RedisBroadcaster struct {
	client     *redis.Client
	ownsClient bool
	channel    string
	logger     *zap.Logger
	cancelFn   context.CancelFunc
	doneCh     chan struct{}
	doneOnce   sync.Once
	mu         sync.Mutex
	isRunning  bool
}

// RedisBroadcasterOption is a functional option for the broadcaster
type RedisBroadcasterOption func(*RedisBroadcaster)

// WithBroadcasterChannel sets the Pub/Sub channel name
func WithBroadcasterChannel(channel string) RedisBroadcasterOption {
	return func(b *RedisBroadcaster) {
		b.channel = channel
	}
}

// WithBroadcasterLogger sets the logger for the broadcaster
func WithBroadcasterLogger(logger *zap.Logger) RedisBroadcasterOption {
	return func(b *RedisBroadcaster) {
		b.logger = logger
	}
}

// NewRedisBroadcaster creates a broadcaster with its own Redis client
func NewRedisBroadcaster(addr, password string, db int, opts ...RedisBroadcasterOption) (*RedisBroadcaster, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	b := &RedisBroadcaster{
		client:     client,
		ownsClient: true,
		channel:    "supplyoffice:events",
		logger:     zap.NewNop(),
		doneCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// NewRedisBroadcasterWithClient creates a broadcaster over an existing
// client. The caller keeps ownership and closes the client itself.
func NewRedisBroadcasterWithClient(client *redis.Client, opts ...RedisBroadcasterOption) *RedisBroadcaster {
	b := &RedisBroadcaster{
		client:     client,
		ownsClient: false,
		channel:    "supplyoffice:events",
		logger:     zap.NewNop(),
		doneCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Publish sends an event to every subscribed instance
func (b *RedisBroadcaster) Publish(ctx context.Context, evt Event) error {
	if evt.Timestamp == 0 {
		evt.Timestamp = time.Now().UnixNano()
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal push event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Error("failed to publish push event",
			zap.String("channel", b.channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish push event: %w", err)
	}

	b.logger.Debug("published push event",
		zap.String("type", evt.Type),
		zap.String("channel", b.channel))

	return nil
}

// Subscribe listens for events on the channel, invoking the callback
// for each. Blocks until the context is cancelled; run in a goroutine.
func (b *RedisBroadcaster) Subscribe(ctx context.Context, callback func(evt Event)) error {
	b.mu.Lock()
	if b.isRunning {
		b.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	b.isRunning = true
	b.mu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancelFn = cancel
	b.mu.Unlock()

	pubsub := b.client.Subscribe(subCtx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		b.mu.Lock()
		b.isRunning = false
		b.mu.Unlock()
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Info("subscribed to push channel", zap.String("channel", b.channel))

	ch := pubsub.Channel()

	for {
		select {
		case <-subCtx.Done():
			b.mu.Lock()
			b.isRunning = false
			b.mu.Unlock()
			b.markDone()
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				b.logger.Warn("push channel closed")
				b.mu.Lock()
				b.isRunning = false
				b.mu.Unlock()
				b.markDone()
				return nil
			}

			var evt Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				b.logger.Error("failed to unmarshal push event",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}

			// callback runs on its own goroutine so a slow consumer
			// never stalls the subscription loop
			go func(e Event) {
				defer func() {
					if r := recover(); r != nil {
						b.logger.Error("panic in push event callback", zap.Any("panic", r))
					}
				}()
				callback(e)
			}(evt)
		}
	}
}

func (b *RedisBroadcaster) markDone() {
	b.doneOnce.Do(func() {
		close(b.doneCh)
	})
}

// Close stops the subscription and releases the client when owned
func (b *RedisBroadcaster) Close() error {
	b.mu.Lock()
	cancelFn := b.cancelFn
	b.mu.Unlock()

	if cancelFn != nil {
		cancelFn()
		select {
		case <-b.doneCh:
		case <-time.After(defaultCloseTimeout):
			b.logger.Warn("timeout waiting for push subscription to stop")
		}
	}

	if b.ownsClient {
		return b.client.Close()
	}
	return nil
}

var _ Broadcaster = (*RedisBroadcaster)(nil)
