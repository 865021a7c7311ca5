package ws

import (
	"encoding/json"
	"log"

	"github.com/avickk/internship_backend_v1/internal/services"
)

type message struct {
	subjectID string
	actorID   string
	payload   []byte
}

// Hub fans lifecycle events out to connected clients. Super-admin clients
// receive everything; everyone else receives events they are the subject or
// actor of. It implements services.Notifier, so services stay unaware of
// websockets.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan message
	clients    map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan message, 256),
		clients:    make(map[*client]struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				c.conn.Close()
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				if !c.allowAll && c.userID != msg.subjectID && c.userID != msg.actorID {
					continue
				}
				select {
				case c.send <- msg.payload:
				default:
					delete(h.clients, c)
					close(c.send)
					c.conn.Close()
				}
			}
		}
	}
}

// Publish implements services.Notifier. Best-effort: if the hub's buffer is
// full the event is dropped rather than blocking the request.
func (h *Hub) Publish(ev services.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Println("ws: marshal event:", err)
		return
	}
	select {
	case h.broadcast <- message{subjectID: ev.SubjectID, actorID: ev.ActorID, payload: payload}:
	default:
		log.Println("ws: broadcast buffer full, dropping event", ev.Type)
	}
}
