package ws

import (
	"log"
	"time"

	"github.com/roomboardhq/roomboard/internal/domain"
	"github.com/roomboardhq/roomboard/internal/registry"
)

// SessionStats receives gateway lifecycle counts. A nil implementation
// disables counting.
type SessionStats interface {
	SessionOpened()
	SessionClosed()
	EventReceived(eventType string)
}

// Core owns the set of connected sessions and fans board updates out to
// every one of them. It implements registry.Observer, so any committed
// mutation reaches all connected members regardless of who caused it.
type Core struct {
	dispatcher *Dispatcher
	stats      SessionStats
	board      func() []domain.Room

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *WSMessage
}

func NewCore(stats SessionStats) *Core {
	return &Core{
		stats:      stats,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *WSMessage, 256),
	}
}

// SetBoardSource wires the listing snapshot used for board.updated frames.
// Called once during startup, before Run.
func (c *Core) SetBoardSource(board func() []domain.Room) {
	c.board = board
}

// SetDispatcher attaches the event dispatcher. The registry, the core, and
// the dispatcher reference each other, so the last edge is wired here
// during startup rather than in the constructor.
func (c *Core) SetDispatcher(dispatcher *Dispatcher) {
	c.dispatcher = dispatcher
}

func (c *Core) Run() {
	for {
		select {
		case cl := <-c.register:
			c.clients[cl] = true
			if c.stats != nil {
				c.stats.SessionOpened()
			}

			// New sessions see the current board right away.
			if c.board != nil {
				cl.Message <- NewBoard(BoardUpdated, boardViews(c.board()))
			}

		case cl := <-c.unregister:
			if _, ok := c.clients[cl]; ok {
				delete(c.clients, cl)
				close(cl.Message)
				if c.stats != nil {
					c.stats.SessionClosed()
				}
			}

		case msg := <-c.broadcast:
			for cl := range c.clients {
				select {
				case cl.Message <- msg:
				default:
					log.Printf("ws broadcast dropped (client %s): send buffer full", cl.ID)
				}
			}
		}
	}
}

func (c *Core) Register() chan<- *Client {
	return c.register
}

func (c *Core) Unregister() chan<- *Client {
	return c.unregister
}

func (c *Core) Broadcast() chan<- *WSMessage {
	return c.broadcast
}

// Dispatch runs one inbound event through the gateway dispatcher.
func (c *Core) Dispatch(owner string, event Event) []*WSMessage {
	if c.stats != nil {
		c.stats.EventReceived(event.Type)
	}
	return c.dispatcher.Dispatch(owner, event)
}

// registry.Observer implementation. Callbacks run outside the registry
// lock, so reading the board here cannot deadlock.

func (c *Core) RoomCreated(domain.Room) {
	c.broadcastBoard()
}

func (c *Core) RoomRemoved(domain.Room, registry.RemovalReason) {
	c.broadcastBoard()
}

func (c *Core) RoomExtended(domain.Room) {
	c.broadcastBoard()
}

func (c *Core) broadcastBoard() {
	if c.board == nil {
		return
	}
	c.broadcast <- NewBoard(BoardUpdated, boardViews(c.board()))
}

func boardViews(rooms []domain.Room) []RoomView {
	now := time.Now()
	views := make([]RoomView, 0, len(rooms))
	for _, room := range rooms {
		views = append(views, NewRoomView(room, now))
	}
	return views
}
