package stream

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	channelPrefix = "journal:"
	channelSuffix = ":events"
)

type EventKind string

const (
	PlansChanged EventKind = "plans.changed"
	GridChanged  EventKind = "grid.changed"
)

// Event tells other tabs of the same session that their view is stale.
type Event struct {
	Kind   EventKind `json:"kind"`
	PlanID string    `json:"plan_id,omitempty"`
}

// Hub fans events out to the websocket clients of a session. With Redis,
// every process delivers through a pattern subscription so that tabs served
// by other instances see the event too; without it delivery is in-process.
type Hub struct {
	redis   *redis.Client
	log     *zap.Logger
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex

	subscribed bool
	cancel     context.CancelFunc
	done       chan struct{}
}

type Client struct {
	SessionID string
	Send      chan []byte
}

func NewHub(redisClient *redis.Client, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		redis:   redisClient,
		log:     logger,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(sessionID string) *Client {
	client := &Client{
		SessionID: sessionID,
		Send:      make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = map[*Client]struct{}{}
	}
	h.clients[sessionID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sessionClients, ok := h.clients[client.SessionID]; ok {
		delete(sessionClients, client)
		if len(sessionClients) == 0 {
			delete(h.clients, client.SessionID)
		}
	}
	close(client.Send)
}

func (h *Hub) Publish(ctx context.Context, sessionID string, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("encode stream event", zap.Error(err))
		return
	}

	if h.subscribed {
		err := h.redis.Publish(ctx, redisChannel(sessionID), payload).Err()
		if err == nil {
			return
		}
		h.log.Warn("redis publish failed, delivering locally", zap.String("session_id", sessionID), zap.Error(err))
	}
	h.deliver(sessionID, payload)
}

// Close stops the Redis subscription. Registered clients are left alone.
func (h *Hub) Close() {
	if h.cancel != nil {
		h.cancel()
		<-h.done
	}
}

func (h *Hub) deliver(sessionID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[sessionID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx, cancel := context.WithCancel(context.Background())
	pubsub := h.redis.PSubscribe(ctx, channelPrefix+"*"+channelSuffix)
	// Receive blocks until the subscription is confirmed, so no publish
	// made after NewHub returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		h.log.Warn("redis subscribe failed, stream is local only", zap.Error(err))
		_ = pubsub.Close()
		cancel()
		return
	}

	h.subscribed = true
	h.cancel = cancel
	h.done = make(chan struct{})
	go func() {
		defer close(h.done)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if sessionID := sessionIDFromChannel(msg.Channel); sessionID != "" {
					h.deliver(sessionID, []byte(msg.Payload))
				}
			}
		}
	}()
}

func redisChannel(sessionID string) string {
	return channelPrefix + sessionID + channelSuffix
}

func sessionIDFromChannel(ch string) string {
	if len(ch) <= len(channelPrefix)+len(channelSuffix) {
		return ""
	}
	if !strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}
