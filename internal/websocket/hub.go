package websocket

import (
	"context"
	"sync"

	"ZeroTrustDashboard/internal/logger"
	"ZeroTrustDashboard/internal/models"
)

// Message types pushed to dashboard clients.
const (
	MsgSnapshot      = "SNAPSHOT"
	MsgAlert         = "ALERT"
	MsgCommandResult = "COMMAND_RESULT"
	MsgError         = "ERROR"
)

// Message defines the generic structure for WS communication
type Message struct {
	Type    string      `json:"type"`
	Reason  string      `json:"reason,omitempty"`
	Payload interface{} `json:"payload"`
}

// Backend is the slice of the dashboard controller the hub needs.
type Backend interface {
	Snapshot() models.Snapshot
	Execute(cmd models.Command) (models.CommandResult, error)
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	backend    Backend
	log        *logger.Logger
	mu         sync.RWMutex
}

func NewHub(backend Backend, log *logger.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		backend:    backend,
		log:        log,
	}
}

// Run starts the hub logic in a goroutine. It listens for context cancellation for clean shutdown.
func (h *Hub) Run(ctx context.Context) {
	h.log.Info("WebSocket Hub started")
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.log.Info("WebSocket Hub shutting down...")
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			client.trySend(Message{Type: MsgSnapshot, Reason: "connect", Payload: h.backend.Snapshot()})
			h.log.Info("New WS Client connected. Total: %d", total)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.log.Warn("WS client too slow, dropping connection")
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// enqueue queues a message for all connected clients. It never blocks;
// when the queue is full the message is dropped.
func (h *Hub) enqueue(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("WS broadcast queue full, dropping %s message", msg.Type)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnStateChange pushes a fresh snapshot to every client.
func (h *Hub) OnStateChange(reason models.ChangeReason, snap models.Snapshot) {
	h.enqueue(Message{Type: MsgSnapshot, Reason: string(reason), Payload: snap})
}

func (h *Hub) OnAlert(evt models.AlertEvent) {
	h.enqueue(Message{Type: MsgAlert, Reason: string(evt.Type), Payload: evt})
}
