package websocket

import (
	"sync"

	"github.com/HSouheill/shop_backend/models"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Message types
const (
	MessageTypeConnected    = "connected"
	MessageTypeNotification = "notification"
)

const sendBuffer = 16

// Message represents a frame sent over WebSocket
type Message struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	UserID  string      `json:"userID,omitempty"`
}

// Client represents a connected, authenticated dashboard session
type Client struct {
	UserID string
	Role   string
	Conn   *websocket.Conn
	send   chan Message
}

// Hub maintains the set of active clients and broadcasts notifications to them
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	log        *logrus.Entry
}

// NewHub creates a new Hub instance
func NewHub(log *logrus.Entry) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run starts the hub's event loop and returns when stop is closed
func (h *Hub) Run(stop <-chan struct{}) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.remove(client)
		case <-stop:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			close(h.done)
			h.mu.Unlock()
			return
		}
	}
}

// add hands client to the event loop. It reports false once the hub has
// stopped.
func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// drop asks the event loop to forget client; a stopped hub already has.
func (h *Hub) drop(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast pushes a stored notification to every connected client. Clients
// whose buffer is full are dropped rather than blocking the caller.
func (h *Hub) Broadcast(n models.Notification) {
	msg := Message{Type: MessageTypeNotification, Message: n.Message, Data: n}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			h.log.Warnf("Dropping slow websocket client %s", client.UserID)
			delete(h.clients, client)
			close(client.send)
		}
	}
}
