package push

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client is one open SSE connection. Events arrive on Ch; Done closes
// when the hub shuts down.
type Client struct {
	ID     string
	UserID uuid.UUID
	Ch     chan Event
	Done   chan struct{}
}

// Hub tracks connected clients and routes events to them. Events
// published here loop back through the Broadcaster so that other
// instances deliver them to their own clients too.
type Hub struct {
	broadcaster Broadcaster
	logger      *zap.Logger
	clients     sync.Map // map[string]*Client
	ctx         context.Context
	cancel      context.CancelFunc
	heartbeat   time.Duration
	bufferSize  int
	maxClients  int
	started     bool
	startMu     sync.Mutex
}

// HubOption is a functional option for configuring the hub
type HubOption func(*Hub)

// WithHubLogger sets the logger for the hub
func WithHubLogger(logger *zap.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithHubHeartbeat sets the keep-alive interval
func WithHubHeartbeat(interval time.Duration) HubOption {
	return func(h *Hub) {
		h.heartbeat = interval
	}
}

// WithHubBufferSize sets each client's event buffer size
func WithHubBufferSize(size int) HubOption {
	return func(h *Hub) {
		h.bufferSize = size
	}
}

// WithHubMaxClients caps the number of concurrent connections
func WithHubMaxClients(max int) HubOption {
	return func(h *Hub) {
		h.maxClients = max
	}
}

// NewHub creates a hub over the given broadcaster
func NewHub(broadcaster Broadcaster, opts ...HubOption) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		broadcaster: broadcaster,
		logger:      zap.NewNop(),
		ctx:         ctx,
		cancel:      cancel,
		heartbeat:   30 * time.Second,
		bufferSize:  16,
		maxClients:  10000,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Start begins listening for broadcast events and sending heartbeats
func (h *Hub) Start() error {
	h.startMu.Lock()
	defer h.startMu.Unlock()

	if h.started {
		return fmt.Errorf("push hub already started")
	}

	go h.sendHeartbeats()

	go func() {
		err := h.broadcaster.Subscribe(h.ctx, h.deliver)
		if err != nil && h.ctx.Err() == nil {
			h.logger.Error("push subscription error", zap.Error(err))
		}
	}()

	h.started = true
	h.logger.Info("push hub started")
	return nil
}

// Stop disconnects every client and stops the hub
func (h *Hub) Stop() {
	h.cancel()

	h.clients.Range(func(key, value any) bool {
		if client, ok := value.(*Client); ok {
			close(client.Done)
		}
		return true
	})

	h.logger.Info("push hub stopped")
}

// Publish hands an event to the broadcaster, which loops it back to
// deliver on every instance
func (h *Hub) Publish(ctx context.Context, evt Event) error {
	return h.broadcaster.Publish(ctx, evt)
}

// Broadcast publishes an event addressed to every connected client
func (h *Hub) Broadcast(ctx context.Context, eventType string, payload any) error {
	evt, err := NewEvent(eventType, payload)
	if err != nil {
		return err
	}
	return h.Publish(ctx, evt)
}

// PushToUser publishes an event addressed to one user's connections
func (h *Hub) PushToUser(ctx context.Context, userID uuid.UUID, eventType string, payload any) error {
	evt, err := NewUserEvent(userID, eventType, payload)
	if err != nil {
		return err
	}
	return h.Publish(ctx, evt)
}

// Register adds a connection for the user. Returns an error when the
// client cap is reached.
func (h *Hub) Register(userID uuid.UUID) (*Client, error) {
	if h.maxClients > 0 && h.ClientCount() >= h.maxClients {
		return nil, fmt.Errorf("maximum number of push connections reached")
	}

	client := &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Ch:     make(chan Event, h.bufferSize),
		Done:   make(chan struct{}),
	}

	h.clients.Store(client.ID, client)
	h.logger.Debug("push client connected",
		zap.String("client_id", client.ID),
		zap.String("user_id", userID.String()))

	return client, nil
}

// Unregister removes a connection. The caller owns the channel close.
func (h *Hub) Unregister(client *Client) {
	close(client.Ch)
	h.clients.Delete(client.ID)
	h.logger.Debug("push client disconnected",
		zap.String("client_id", client.ID))
}

// Done closes when the hub is stopped
func (h *Hub) Done() <-chan struct{} {
	return h.ctx.Done()
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	count := 0
	h.clients.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// deliver routes one event to the clients it addresses. A full client
// buffer drops the event rather than blocking the rest.
func (h *Hub) deliver(evt Event) {
	h.clients.Range(func(key, value any) bool {
		client, ok := value.(*Client)
		if !ok {
			return true
		}
		if evt.UserID != nil && *evt.UserID != client.UserID {
			return true
		}

		select {
		case client.Ch <- evt:
		default:
			h.logger.Warn("push client buffer full, dropping event",
				zap.String("client_id", client.ID),
				zap.String("type", evt.Type))
		}
		return true
	})
}

func (h *Hub) sendHeartbeats() {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			h.deliver(Event{
				Type:      "heartbeat",
				Timestamp: time.Now().UnixNano(),
			})
		}
	}
}
