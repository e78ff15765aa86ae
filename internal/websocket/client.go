package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"ZeroTrustDashboard/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

// trySend queues msg for this client only. Callers must ensure send is
// still open, i.e. hold the client registered.
func (c *Client) trySend(msg Message) {
	select {
	case c.send <- msg:
	default:
		c.hub.log.Warn("WS client send buffer full, dropping %s message", msg.Type)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump decodes dashboard commands and hands them to the backend.
// Replies go to the sending client only; the resulting state change
// reaches everyone through the hub.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn("WS read error: %v", err)
			}
			return
		}
		c.reply(c.handle(data))
	}
}

func (c *Client) handle(data []byte) Message {
	var cmd models.Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Message{Type: MsgError, Payload: map[string]string{"error": "invalid command payload"}}
	}

	res, err := c.hub.backend.Execute(cmd)
	if err != nil {
		c.hub.log.Warn("WS command %q rejected: %v", cmd.Action, err)
		return Message{Type: MsgError, Reason: cmd.Action, Payload: map[string]string{"error": err.Error()}}
	}
	return Message{Type: MsgCommandResult, Reason: cmd.Action, Payload: res}
}

// reply goes through the hub lock so it cannot race a close of send.
func (c *Client) reply(msg Message) {
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if c.hub.clients[c] {
		c.trySend(msg)
	}
}

// ServeWs handles websocket requests from the peer.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Error("WS Upgrade Error: %v", err)
		return
	}
	client := &Client{hub: hub, conn: conn, send: make(chan Message, 256)}
	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}
