// Package realtime fans out snapshots of changed collections to websocket
// subscribers, keyed by topic.
package realtime

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 512
)

const (
	MessageConnected = "connected"
	MessageSnapshot  = "snapshot"
	MessageError     = "error"

	CommunitiesTopic = "communities"
)

func PotsTopic(userID uint) string     { return fmt.Sprintf("pots:%d", userID) }
func GrowthTopic(potID string) string  { return "growth:" + potID }
func SensorsTopic(potID string) string { return "sensors:" + potID }
func PostsTopic(communityID uint) string {
	return fmt.Sprintf("posts:%d", communityID)
}

type Message struct {
	Type    string   `json:"type"`
	Topic   string   `json:"topic,omitempty"`
	Topics  []string `json:"topics,omitempty"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
}

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Client serializes writes to one connection.
type Client struct {
	UserID  uint
	conn    Conn
	mu      sync.Mutex
	closed  bool
	held    bool
	pending []Message
}

func NewClient(userID uint, conn Conn) *Client {
	return &Client{UserID: userID, conn: conn}
}

func (c *Client) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.write(msg)
}

// Hold queues hub deliveries until Release. Messages passed to Send are
// still written immediately.
func (c *Client) Hold() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.held = true
}

// Release writes the queued deliveries in arrival order and resumes
// direct delivery.
func (c *Client) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.held = false
	pending := c.pending
	c.pending = nil

	for _, msg := range pending {
		if err := c.write(msg); err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) deliver(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.held && !c.closed {
		c.pending = append(c.pending, msg)
		return nil
	}

	return c.write(msg)
}

func (c *Client) write(msg Message) error {
	if c.closed {
		return websocket.ErrCloseSent
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(WriteWait)); err != nil {
		return err
	}

	return c.conn.WriteJSON(msg)
}

func (c *Client) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return websocket.ErrCloseSent
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(WriteWait)); err != nil {
		return err
	}

	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	_ = c.conn.Close()
}

type Hub struct {
	mu      sync.RWMutex
	topics  map[string]map[*Client]struct{}
	clients map[*Client][]string
}

func NewHub() *Hub {
	return &Hub{
		topics:  make(map[string]map[*Client]struct{}),
		clients: make(map[*Client][]string),
	}
}

func (h *Hub) Subscribe(c *Client, topics ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, topic := range topics {
		if h.topics[topic] == nil {
			h.topics[topic] = make(map[*Client]struct{})
		}

		if _, exists := h.topics[topic][c]; exists {
			continue
		}

		h.topics[topic][c] = struct{}{}
		h.clients[c] = append(h.clients[c], topic)
	}
}

// Unregister drops every subscription of the client and closes it.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()

	for _, topic := range h.clients[c] {
		if set := h.topics[topic]; set != nil {
			delete(set, c)

			if len(set) == 0 {
				delete(h.topics, topic)
			}
		}
	}

	delete(h.clients, c)
	h.mu.Unlock()

	c.Close()
}

// Broadcast sends a snapshot of data to every subscriber of topic.
// Subscribers that fail to receive it are dropped.
func (h *Hub) Broadcast(topic string, data any) {
	h.mu.RLock()
	set, exists := h.topics[topic]

	if !exists || len(set) == 0 {
		h.mu.RUnlock()
		return
	}

	// copy so the lock is not held while writing
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	msg := Message{Type: MessageSnapshot, Topic: topic, Data: data}

	for _, c := range clients {
		if err := c.deliver(msg); err != nil {
			zap.L().Debug("Failed to deliver snapshot", zap.String("topic", topic), zap.Error(err))
			h.Unregister(c)
		}
	}
}

func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.topics[topic])
}

var defaultHub = NewHub()

func Default() *Hub {
	return defaultHub
}

// Publish broadcasts on the default hub.
func Publish(topic string, data any) {
	defaultHub.Broadcast(topic, data)
}
