package ws

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
)

type Client struct {
	conn    *connWrapper
	Message chan *WSMessage
	ID      string `json:"id"`
	Owner   string `json:"owner"`
}

func NewClient(conn *websocket.Conn, id, owner string) *Client {
	return &Client{
		conn:    newConnWrapper(conn),
		Message: make(chan *WSMessage, 64), // buffered to avoid dead-locks on slow clients
		ID:      id,
		Owner:   owner,
	}
}

// ReadMessage consumes inbound frames until the connection drops. Events
// are dispatched one at a time, so a member's inputs take effect in the
// order they were sent.
func (c *Client) ReadMessage(core *Core) {
	defer func() {
		core.Unregister() <- c
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws read error (client %s): %v", c.ID, err)
			}
			break
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			c.Message <- NewError("malformed event")
			continue
		}

		for _, msg := range core.Dispatch(c.Owner, event) {
			c.Message <- msg
		}
	}
}

func (c *Client) WriteMessage() {
	defer func() {
		_ = c.conn.Close()
	}()

	for msg := range c.Message {
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("ws write error (client %s): %v", c.ID, err)
			break
		}
	}
}
