package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/starconnect/starconnect-backend/pkg/logger"
	scredis "github.com/starconnect/starconnect-backend/pkg/redis"
)

// Conn is the minimal websocket surface the hub writes to.
type Conn interface {
	WriteJSON(v any) error
}

type eventSource interface {
	PSubscribe(ctx context.Context, pattern string) (*goredis.PubSub, error)
}

// Hub fans chat events out to the websocket connections attached on this
// replica. Events arrive over a redis pattern subscription, so every replica
// sees every conversation's traffic and delivers to its local sockets only.
type Hub struct {
	source eventSource
	logg   *logger.Logger

	mu    sync.RWMutex
	conns map[string]map[Conn]struct{}

	started sync.Once
}

// NewHub constructs a hub reading from the provided redis subscriber.
func NewHub(source eventSource, logg *logger.Logger) (*Hub, error) {
	if source == nil {
		return nil, fmt.Errorf("event source is required")
	}
	return &Hub{
		source: source,
		logg:   logg,
		conns:  map[string]map[Conn]struct{}{},
	}, nil
}

// Attach registers a connection for one conversation and returns its detach.
func (h *Hub) Attach(conversationKey string, c Conn) func() {
	h.mu.Lock()
	set, ok := h.conns[conversationKey]
	if !ok {
		set = map[Conn]struct{}{}
		h.conns[conversationKey] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.conns[conversationKey]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(h.conns, conversationKey)
			}
		}
	}
}

// Broadcast delivers an event to every local connection on its conversation.
// Writes are best effort; a dead socket is cleaned up when its reader exits.
func (h *Hub) Broadcast(evt Event) {
	if evt.ConversationKey == "" {
		return
	}

	h.mu.RLock()
	targets := make([]Conn, 0, len(h.conns[evt.ConversationKey]))
	for c := range h.conns[evt.ConversationKey] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		go func(c Conn) {
			_ = c.WriteJSON(evt)
		}(c)
	}
}

// Run starts the single redis subscriber for this replica and blocks until
// the context is canceled. Safe to call once; later calls are no-ops.
func (h *Hub) Run(ctx context.Context) {
	h.started.Do(func() {
		h.subscribeLoop(ctx)
	})
}

func (h *Hub) subscribeLoop(ctx context.Context) {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := h.consume(ctx); err != nil && ctx.Err() == nil {
			if h.logg != nil {
				h.logg.Error(ctx, "chat subscriber reconnecting", err)
			}
			time.Sleep(backoff)
			backoff *= 2
			if backoff > 30*time.Second {
				backoff = 30 * time.Second
			}
			continue
		}
		backoff = time.Second
	}
}

func (h *Hub) consume(ctx context.Context) error {
	pubsub, err := h.source.PSubscribe(ctx, scredis.ChatChannelPattern())
	if err != nil {
		return err
	}
	defer pubsub.Close()

	if h.logg != nil {
		h.logg.Info(ctx, "chat subscriber started")
	}

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			return err
		}

		var evt Event
		if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
			if h.logg != nil {
				h.logg.Error(ctx, "decode chat event", err)
			}
			continue
		}
		h.Broadcast(evt)
	}
}
