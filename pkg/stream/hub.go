// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package stream broadcasts alert events and action logs to websocket
// subscribers as they are produced.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/marketpulse/pulse/pkg/log"
)

const (
	writeWait      = 10 * time.Second
	clientBuffer   = 32
	maxMessageSize = 1024
)

// Message is one pushed update.
type Message struct {
	Type       string      `json:"type"` // alert_event | action_log
	CampaignID int64       `json:"campaignId"`
	Payload    interface{} `json:"payload"`
	SentAt     time.Time   `json:"sentAt"`
}

// Hub fans messages out to connected clients. Slow clients are dropped
// rather than blocking the producers.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     log.Logger

	upgrader websocket.Upgrader
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub.
func NewHub(logger log.Logger) *Hub {
	if logger == nil {
		logger = log.NoLog
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ClientCount reports the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every connected client.
func (h *Hub) Broadcast(msgType string, campaignID int64, payload interface{}) {
	data, err := json.Marshal(Message{
		Type:       msgType,
		CampaignID: campaignID,
		Payload:    payload,
		SentAt:     time.Now().UTC(),
	})
	if err != nil {
		h.log.Error("broadcast marshal failed", "type", msgType, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Buffer full; the write pump will notice on close.
			go h.drop(c)
		}
	}
}

// ServeHTTP upgrades the request and pumps messages until the client
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Info("websocket client connected", "remote", r.RemoteAddr)

	go h.writePump(c)
	h.readPump(c, r.RemoteAddr)
}

func (h *Hub) writePump(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; the feed is one-way. It exists to
// detect disconnects and close frames.
func (h *Hub) readPump(c *client, remote string) {
	defer h.drop(c)
	c.conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.log.Info("websocket client disconnected", "remote", remote)
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	h.mu.Unlock()
	if ok {
		close(c.send)
		c.conn.Close()
	}
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		h.drop(c)
	}
}
