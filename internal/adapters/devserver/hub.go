package devserver

import (
	"bufio"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/assetpipe/internal/core/ports"
)

const (
	heartbeatInterval = 30 * time.Second
	clientBuffer      = 8
)

// Event kinds sent to browsers.
const (
	KindReload = "reload"
	KindCSS    = "css"
)

// Event is one live-reload notification.
type Event struct {
	Type  string   `json:"type"`
	Paths []string `json:"paths,omitempty"`
}

type client struct {
	id   uuid.UUID
	ch   chan Event
	done chan struct{}
}

// Hub fans live-reload events out to browsers connected over server-sent
// events. A client whose buffer is full is dropped and reconnects on its own.
type Hub struct {
	metrics ports.Metrics

	mu      sync.Mutex
	clients map[uuid.UUID]*client
	closed  bool
}

// NewHub creates a Hub. metrics may be nil.
func NewHub(metrics ports.Metrics) *Hub {
	return &Hub{metrics: metrics, clients: map[uuid.UUID]*client{}}
}

// ServeHTTP streams events to one browser until it disconnects or the hub
// shuts down.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	c := &client{id: uuid.New(), ch: make(chan Event, clientBuffer), done: make(chan struct{})}
	if !h.add(c) {
		http.Error(w, "live reload shutting down", http.StatusServiceUnavailable)
		return
	}
	defer h.remove(c.id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	bw := bufio.NewWriter(w)
	send := func(s string) bool {
		if _, err := bw.WriteString(s); err != nil {
			return false
		}
		if err := bw.Flush(); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(": connected " + c.id.String() + "\n\n") {
		return
	}

	hb := time.NewTicker(heartbeatInterval)
	defer hb.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-c.done:
			return
		case <-hb.C:
			if !send(": ping\n\n") {
				return
			}
		case ev := <-c.ch:
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if !send("data: " + string(data) + "\n\n") {
				return
			}
		}
	}
}

// Broadcast queues ev for every connected browser.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	snapshot := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	for _, c := range snapshot {
		select {
		case c.ch <- ev:
		default:
			h.remove(c.id)
		}
	}
	if h.metrics != nil {
		h.metrics.ReloadSent(ev.Type)
	}
}

// Clients returns the number of connected browsers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Shutdown disconnects every browser and rejects new ones.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = map[uuid.UUID]*client{}
	h.mu.Unlock()

	for _, c := range clients {
		close(c.done)
	}
	h.setGauge(0)
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()

	h.setGauge(n)
	return true
}

func (h *Hub) remove(id uuid.UUID) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(c.done)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.setGauge(n)
	}
}

func (h *Hub) setGauge(n int) {
	if h.metrics != nil {
		h.metrics.SetClients(n)
	}
}
