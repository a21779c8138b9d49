package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// connWrapper serializes writes to a single websocket connection. Gorilla
// connections support one concurrent writer only.
type connWrapper struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func newConnWrapper(conn *websocket.Conn) *connWrapper {
	return &connWrapper{conn: conn}
}

func (w *connWrapper) WriteJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

func (w *connWrapper) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.Close()
}
