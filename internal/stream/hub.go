package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub fans alert events out to a user's connected devices. Events are
// mirrored over redis pub/sub so any instance can reach a device
// connected elsewhere; published envelopes carry the origin instance so
// the publisher does not deliver its own events a second time.
type Hub struct {
	id      string
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	UserID string
	Send   chan []byte
}

type envelope struct {
	Origin  string `json:"origin"`
	Payload []byte `json:"payload"`
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		id:      uuid.NewString(),
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(userID string) *Client {
	client := &Client{
		UserID: userID,
		Send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = map[*Client]struct{}{}
	}
	h.clients[userID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if userClients, ok := h.clients[client.UserID]; ok {
		delete(userClients, client)
		if len(userClients) == 0 {
			delete(h.clients, client.UserID)
		}
	}
	close(client.Send)
}

// Broadcast delivers an event to every local device of the user and
// publishes it for other instances. Slow clients are skipped.
func (h *Hub) Broadcast(userID string, payload []byte) {
	h.deliverLocal(userID, payload)

	if h.redis != nil {
		env, err := json.Marshal(envelope{Origin: h.id, Payload: payload})
		if err != nil {
			log.Printf("envelope marshal error: %v", err)
			return
		}
		if err := h.redis.Publish(context.Background(), redisChannel(userID), env).Err(); err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

// ConnectedDevices reports how many devices the user currently has open.
func (h *Hub) ConnectedDevices(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// deliverLocal sends to local clients while holding the read lock, so a
// concurrent Unregister cannot close a channel mid-send.
func (h *Hub) deliverLocal(userID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "alerts:*:events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			log.Printf("envelope unmarshal error: %v", err)
			continue
		}
		if env.Origin == h.id {
			// already delivered locally by Broadcast
			continue
		}
		h.deliverLocal(userIDFromChannel(msg.Channel), env.Payload)
	}
}

func redisChannel(userID string) string {
	return "alerts:" + userID + ":events"
}

func userIDFromChannel(ch string) string {
	// alerts:{user}:events
	const prefix = "alerts:"
	const suffix = ":events"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
