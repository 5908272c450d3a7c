// Package websocket pushes live leaderboard snapshots to connected
// clients. Every committed score change triggers a refresh; clients
// receive the current top listing as JSON frames.
package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"cleancity/pkg/logger"
	"cleancity/pkg/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// refreshDebounce coalesces bursts of score changes into one push.
	refreshDebounce = 500 * time.Millisecond
	snapshotLimit   = 10
)

// SnapshotSource produces the current leaderboard listing.
type SnapshotSource interface {
	Top(ctx context.Context, limit int, timeframe string) (*models.LeaderboardResponse, error)
}

// Hub fans leaderboard snapshots out to all connected clients.
type Hub struct {
	source SnapshotSource

	clientsMu sync.RWMutex
	clients   map[*client]bool

	notify chan struct{}
	stop   chan struct{}
	wg     sync.WaitGroup
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates the broadcaster and starts its refresh loop.
func NewHub(source SnapshotSource) *Hub {
	h := &Hub{
		source:  source,
		clients: make(map[*client]bool),
		notify:  make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

// Notify signals that scores changed. Safe to call from any goroutine;
// coalesced, never blocks.
func (h *Hub) Notify() {
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Stop disconnects all clients and shuts the refresh loop down.
// Closing stop under clientsMu orders it against serve's registration,
// so no pump can be added once the shutdown wait begins.
func (h *Hub) Stop() {
	h.clientsMu.Lock()
	select {
	case <-h.stop:
	default:
		close(h.stop)
	}
	for c := range h.clients {
		close(c.send)
		c.conn.Close()
	}
	h.clients = make(map[*client]bool)
	h.clientsMu.Unlock()

	h.wg.Wait()
	logger.Info("leaderboard websocket hub stopped")
}

// run waits for change notifications, debounces them and pushes a fresh
// snapshot to every client.
func (h *Hub) run() {
	defer h.wg.Done()

	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-h.notify:
			if debounce == nil {
				debounce = time.NewTimer(refreshDebounce)
				fire = debounce.C
			}
		case <-fire:
			debounce = nil
			fire = nil
			h.pushSnapshot()
		case <-h.stop:
			if debounce != nil {
				debounce.Stop()
			}
			return
		}
	}
}

func (h *Hub) pushSnapshot() {
	if h.ClientCount() == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snapshot, err := h.source.Top(ctx, snapshotLimit, "all_time")
	if err != nil {
		logger.Errorf("leaderboard snapshot failed: %v", err)
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		logger.Errorf("leaderboard snapshot encode failed: %v", err)
		return
	}

	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Slow consumer; drop the frame rather than block the hub.
		}
	}
}

// serve registers the connection and runs its pumps until it closes.
// Connections arriving after Stop are rejected.
func (h *Hub) serve(conn *websocket.Conn) {
	c := &client{
		conn: conn,
		send: make(chan []byte, 8),
	}

	h.clientsMu.Lock()
	select {
	case <-h.stop:
		h.clientsMu.Unlock()
		conn.Close()
		return
	default:
	}
	h.clients[c] = true
	h.wg.Add(2)
	h.clientsMu.Unlock()

	// Send the current standing immediately so the client does not wait
	// for the next score change.
	go h.sendInitial(c)

	go func() {
		defer h.wg.Done()
		c.writePump(h.stop)
	}()
	go func() {
		defer h.wg.Done()
		c.readPump()
		h.remove(c)
	}()
}

func (h *Hub) sendInitial(c *client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snapshot, err := h.source.Top(ctx, snapshotLimit, "all_time")
	if err != nil {
		logger.Warnf("initial leaderboard snapshot failed: %v", err)
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (h *Hub) remove(c *client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.clientsMu.Unlock()
	c.conn.Close()
}

// readPump drains client frames. Clients never send data; the read loop
// exists to notice pongs and disconnects.
func (c *client) readPump() {
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debugf("websocket read error: %v", err)
			}
			return
		}
	}
}

func (c *client) writePump(stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}
