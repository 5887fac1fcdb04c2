package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// Events queued per subscriber before it counts as stalled and is dropped
	subscriberBuffer = 16
	writeWait        = 10 * time.Second
)

// Subscriber is a live connection receiving events
type Subscriber interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type client struct {
	sub   Subscriber
	queue chan Event
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

func (c *client) shutdown() {
	c.once.Do(func() { close(c.stop) })
}

// Hub fans events out to websocket subscribers. Each subscriber has its own
// writer goroutine so a client that stops reading never blocks Send.
type Hub struct {
	mu          sync.Mutex
	subscribers map[Subscriber]*client
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[Subscriber]*client),
		logger:      logger,
	}
}

func (h *Hub) Name() string {
	return "websocket"
}

func (h *Hub) Register(s Subscriber) {
	c := &client{
		sub:   s,
		queue: make(chan Event, subscriberBuffer),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	h.mu.Lock()
	if _, exists := h.subscribers[s]; exists {
		h.mu.Unlock()
		return
	}
	h.subscribers[s] = c
	h.mu.Unlock()

	go h.writeLoop(c)
}

// Unregister removes s and waits for its writer to stop, so the caller may
// release the connection afterwards.
func (h *Hub) Unregister(s Subscriber) {
	c := h.remove(s)
	if c != nil {
		<-c.done
	}
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Send queues the event for every subscriber and returns without waiting for
// the writes. A subscriber whose queue is full is dropped; a broken subscriber
// is never reported as a delivery error.
func (h *Hub) Send(_ context.Context, event Event) error {
	var stalled []*client

	h.mu.Lock()
	for s, c := range h.subscribers {
		select {
		case c.queue <- event:
		default:
			delete(h.subscribers, s)
			c.shutdown()
			stalled = append(stalled, c)
		}
	}
	h.mu.Unlock()

	for _, c := range stalled {
		h.logger.Warn("Dropping stalled websocket subscriber", zap.Int("queued", len(c.queue)))
		_ = c.sub.Close()
	}
	return nil
}

func (h *Hub) writeLoop(c *client) {
	defer close(c.done)

	for {
		select {
		case <-c.stop:
			return
		case event := <-c.queue:
			_ = c.sub.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sub.WriteJSON(event); err != nil {
				h.logger.Debug("Dropping websocket subscriber", zap.Error(err))
				h.remove(c.sub)
				_ = c.sub.Close()
				return
			}
		}
	}
}

func (h *Hub) remove(s Subscriber) *client {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.subscribers[s]
	if !ok {
		return nil
	}
	delete(h.subscribers, s)
	c.shutdown()
	return c
}
