package realtime

import (
	"context"
	"net/http"
	"sync"
	"time"

	"studyabroad-backend/internal/metrics"
	"studyabroad-backend/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	EventLeadCreated = "lead.created"

	writeWait  = 10 * time.Second
	bufferSize = 64
)

// LeadSummary is the part of a lead pushed to dashboards.
type LeadSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

type Event struct {
	Type string      `json:"type"`
	Lead LeadSummary `json:"lead"`
}

// Hub fans lead events out to connected admin dashboards.
type Hub struct {
	upgrader websocket.Upgrader
	log      *zap.Logger

	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan Event
}

// NewHub accepts websocket upgrades from the given origins. An empty list or
// "*" accepts any origin.
func NewHub(allowedOrigins []string, log *zap.Logger) *Hub {
	h := &Hub{
		log:       log,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Event, bufferSize),
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || len(set) == 0 || set[origin]
	}
}

// PublishLeadCreated queues a lead event. It never blocks the contact form;
// events are dropped when the queue is full.
func (h *Hub) PublishLeadCreated(lead models.Lead) {
	ev := Event{
		Type: EventLeadCreated,
		Lead: LeadSummary{
			ID:        lead.ID,
			Name:      lead.Name,
			Email:     lead.Email,
			Phone:     lead.Phone,
			CreatedAt: lead.CreatedAt,
		},
	}
	select {
	case h.broadcast <- ev:
	default:
		h.log.Warn("live feed queue full, dropping event", zap.String("lead_id", lead.ID))
	}
}

// ServeWS upgrades the request and keeps the client registered until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.clientsMux.Lock()
	h.clients[conn] = true
	metrics.LiveFeedClients.Set(float64(len(h.clients)))
	h.clientsMux.Unlock()

	// Clients only listen; reading detects the disconnect
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(conn)
			return
		}
	}
}

// Run delivers queued events until ctx is cancelled, then closes all clients.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case ev := <-h.broadcast:
			h.send(ev)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

func (h *Hub) send(ev Event) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	for client := range h.clients {
		client.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.WriteJSON(ev); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
	metrics.LiveFeedClients.Set(float64(len(h.clients)))
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.clientsMux.Lock()
	delete(h.clients, conn)
	metrics.LiveFeedClients.Set(float64(len(h.clients)))
	h.clientsMux.Unlock()
}

func (h *Hub) closeAll() {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
	metrics.LiveFeedClients.Set(0)
}

// ClientCount is the number of connected dashboards.
func (h *Hub) ClientCount() int {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	return len(h.clients)
}
