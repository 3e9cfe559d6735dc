package stream

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix = "rides:"
	channelSuffix = ":live"
)

// Event is one message on a rider's live feed.
type Event struct {
	Type    string `json:"type"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Hub fans rider events out to websocket clients. With Redis configured,
// events go through pub/sub so every instance sees them; otherwise they are
// delivered in process.
type Hub struct {
	redis   *redis.Client
	pubsub  *redis.PubSub
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	RiderID string
	Send    chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		ctx := context.Background()
		pubsub := redisClient.PSubscribe(ctx, channelPrefix+"*"+channelSuffix)
		if _, err := pubsub.Receive(ctx); err != nil {
			log.Printf("redis subscribe error, live events stay local: %v", err)
			_ = pubsub.Close()
			h.redis = nil
		} else {
			h.pubsub = pubsub
			go h.relay()
		}
	}
	return h
}

func (h *Hub) Register(riderID string) *Client {
	client := &Client{
		RiderID: riderID,
		Send:    make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[riderID] == nil {
		h.clients[riderID] = map[*Client]struct{}{}
	}
	h.clients[riderID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	riderClients, ok := h.clients[client.RiderID]
	if !ok {
		return
	}
	if _, ok := riderClients[client]; !ok {
		return
	}
	delete(riderClients, client)
	if len(riderClients) == 0 {
		delete(h.clients, client.RiderID)
	}
	close(client.Send)
}

// Publish encodes an event and broadcasts it to the rider's clients.
func (h *Hub) Publish(riderID string, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("encode live event: %v", err)
		return
	}
	h.Broadcast(riderID, payload)
}

func (h *Hub) Broadcast(riderID string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(riderID), payload).Err()
		if err == nil {
			return
		}
		log.Printf("redis publish error: %v", err)
	}
	h.deliver(riderID, payload)
}

func (h *Hub) Close() error {
	if h.pubsub != nil {
		return h.pubsub.Close()
	}
	return nil
}

func (h *Hub) deliver(riderID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[riderID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) relay() {
	for msg := range h.pubsub.Channel() {
		riderID := riderIDFromChannel(msg.Channel)
		if riderID == "" {
			continue
		}
		h.deliver(riderID, []byte(msg.Payload))
	}
}

func redisChannel(riderID string) string {
	return channelPrefix + riderID + channelSuffix
}

func riderIDFromChannel(ch string) string {
	// rides:{rider}:live
	if len(ch) <= len(channelPrefix)+len(channelSuffix) {
		return ""
	}
	if !strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}
