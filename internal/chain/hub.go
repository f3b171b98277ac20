package chain

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// broadcastCapacity bounds the hub's central queue. Slow subscribers lag
// and may miss older events; the log is advisory.
const broadcastCapacity = 100

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local dashboards
	},
}

// Event is one broadcast log entry.
type Event struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// Hub fans chain log events out to SSE and websocket subscribers, and to an
// optional sink (the audit archive).
type Hub struct {
	broadcast chan Event
	sink      func(Event)

	mu         sync.Mutex
	wsClients  map[*websocket.Conn]bool
	sseClients map[chan Event]bool
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Event, broadcastCapacity),
		wsClients:  make(map[*websocket.Conn]bool),
		sseClients: make(map[chan Event]bool),
	}
}

// SetSink registers a callback invoked for every event from the hub's own
// goroutine. Set before Run.
func (h *Hub) SetSink(sink func(Event)) {
	h.sink = sink
}

// Broadcast enqueues a log message. It never blocks the caller: when the
// queue is full the event is dropped.
func (h *Hub) Broadcast(message string) {
	ev := Event{ID: uuid.New().String(), Time: time.Now(), Message: message}
	select {
	case h.broadcast <- ev:
	default:
		log.Printf("[Hub] Broadcast queue full, dropping event")
	}
}

// Run fans out queued events until the channel is closed.
func (h *Hub) Run() {
	for ev := range h.broadcast {
		if h.sink != nil {
			h.sink(ev)
		}
		payload, _ := json.Marshal(ev)

		h.mu.Lock()
		for client := range h.wsClients {
			_ = client.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := client.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("[Hub] Websocket write error: %v", err)
				client.Close()
				delete(h.wsClients, client)
			}
		}
		for ch := range h.sseClients {
			select {
			case ch <- ev:
			default: // lagging subscriber, drop
			}
		}
		h.mu.Unlock()
	}
}

// ServeWS upgrades the request and registers a websocket subscriber.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[Hub] Failed to upgrade websocket: %v", err)
		return
	}

	h.mu.Lock()
	h.wsClients[conn] = true
	h.mu.Unlock()

	// Reads are discarded; we only push down, but must read to notice
	// disconnects.
	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.wsClients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[Hub] Websocket error: %v", err)
				}
				break
			}
		}
	}()
}

// ServeSSE streams events as Server-Sent Events until the client goes away.
func (h *Hub) ServeSSE(c *gin.Context) {
	ch := make(chan Event, broadcastCapacity)
	h.mu.Lock()
	h.sseClients[ch] = true
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.sseClients, ch)
		h.mu.Unlock()
	}()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev := <-ch:
			c.SSEvent("message", ev.Message)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
