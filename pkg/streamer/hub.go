/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package streamer republishes ingested telemetry to live websocket
// consumers with channel-scoped, best-effort fan-out.
package streamer

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/netwatch-io/netwatch/pkg/logger"
	"github.com/netwatch-io/netwatch/pkg/models"
)

const (
	defaultHeartbeatInterval = 30 * time.Second
	defaultHeartbeatTimeout  = 90 * time.Second
)

// Authorizer decides whether a credential token is valid. The core only
// consumes the decision; issuing credentials lives elsewhere.
type Authorizer func(token string) bool

// HubConfig tunes connection liveness checking.
type HubConfig struct {
	HeartbeatInterval time.Duration
	HeartbeatTimeout  time.Duration
}

// Hub manages live consumer connections and their channel subscriptions.
// The connection and channel maps are guarded by one mutex; per-channel
// fan-out only touches members of that channel.
type Hub struct {
	config     HubConfig
	authorizer Authorizer
	logger     logger.Logger
	upgrader   websocket.Upgrader

	mu       sync.RWMutex
	clients  map[string]*Client
	channels map[string]map[string]*Client
	latest   map[string][]*models.MetricRecord

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewHub creates the broadcaster and starts its heartbeat sweep.
func NewHub(config HubConfig, authorizer Authorizer, log logger.Logger) *Hub {
	if config.HeartbeatInterval <= 0 {
		config.HeartbeatInterval = defaultHeartbeatInterval
	}

	if config.HeartbeatTimeout <= 0 {
		config.HeartbeatTimeout = defaultHeartbeatTimeout
	}

	h := &Hub{
		config:     config,
		authorizer: authorizer,
		logger:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients:  make(map[string]*Client),
		channels: make(map[string]map[string]*Client),
		latest:   make(map[string][]*models.MetricRecord),
		done:     make(chan struct{}),
	}

	h.wg.Add(1)
	go h.heartbeatLoop()

	return h
}

// ServeHTTP upgrades the request and runs the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Msg("Failed to upgrade to WebSocket")

		return
	}

	client := newClient(uuid.New().String(), h, conn)

	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	h.logger.Info().
		Str("connection_id", client.ID).
		Str("remote_addr", r.RemoteAddr).
		Msg("WebSocket connection established")

	go client.writePump()

	client.enqueue(models.NewStreamMessage(models.MessageTypeConnect, models.ConnectPayload{
		ConnectionID: client.ID,
	}))

	client.readPump()
}

// Broadcast sends an event to every connection subscribed to the channel.
// Delivery is best-effort: no acknowledgement, no replay.
func (h *Hub) Broadcast(channel string, msg models.StreamMessage) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.channels[channel]))

	for _, client := range h.channels[channel] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	dropped := 0

	for _, client := range members {
		if !client.enqueue(msg) {
			dropped++
		}
	}

	if dropped > 0 {
		h.logger.Debug().
			Str("channel", channel).
			Int("dropped", dropped).
			Msg("Broadcast dropped for slow consumers")
	}
}

// PublishMetrics implements the poller's publisher hook: ingested batches
// fan out on the metrics channel and refresh the per-device cache that
// answers request_metrics.
func (h *Hub) PublishMetrics(deviceID string, records []*models.MetricRecord) {
	h.mu.Lock()
	h.latest[deviceID] = records
	h.mu.Unlock()

	h.Broadcast(models.ChannelMetrics, models.NewStreamMessage(models.MessageTypeMetricsUpdate, map[string]interface{}{
		"device_id": deviceID,
		"records":   records,
	}))
}

// RetireDevice drops the cached batch for an unregistered device so
// request_metrics stops answering for it.
func (h *Hub) RetireDevice(deviceID string) {
	h.mu.Lock()
	delete(h.latest, deviceID)
	h.mu.Unlock()
}

// latestMetrics returns the most recent batch for one device, or every
// device's latest batch when id is empty.
func (h *Hub) latestMetrics(deviceID string) map[string][]*models.MetricRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make(map[string][]*models.MetricRecord)

	if deviceID != "" {
		if records, ok := h.latest[deviceID]; ok {
			result[deviceID] = records
		}

		return result
	}

	for id, records := range h.latest {
		result[id] = records
	}

	return result
}

// subscribe adds the client to each named channel, creating channels
// lazily on first subscribe.
func (h *Hub) subscribe(client *Client, channels []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.mu.Lock()
	defer client.mu.Unlock()

	for _, name := range channels {
		if name == "" {
			continue
		}

		members, ok := h.channels[name]
		if !ok {
			members = make(map[string]*Client)
			h.channels[name] = members
		}

		members[client.ID] = client
		client.channels[name] = struct{}{}
	}
}

// unsubscribe removes the client from each named channel, destroying a
// channel when its member set becomes empty.
func (h *Hub) unsubscribe(client *Client, channels []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.mu.Lock()
	defer client.mu.Unlock()

	for _, name := range channels {
		if members, ok := h.channels[name]; ok {
			delete(members, client.ID)

			if len(members) == 0 {
				delete(h.channels, name)
			}
		}

		delete(client.channels, name)
	}
}

// drop removes a connection from the hub and every channel, closing its
// transport. Safe to call more than once per client.
func (h *Hub) drop(client *Client) {
	h.mu.Lock()

	client.mu.Lock()
	alreadyClosed := client.closed
	client.closed = true

	for name := range client.channels {
		if members, ok := h.channels[name]; ok {
			delete(members, client.ID)

			if len(members) == 0 {
				delete(h.channels, name)
			}
		}
	}

	client.channels = make(map[string]struct{})
	client.mu.Unlock()

	delete(h.clients, client.ID)
	h.mu.Unlock()

	if alreadyClosed {
		return
	}

	close(client.done)
	_ = client.conn.Close()

	h.logger.Info().Str("connection_id", client.ID).Msg("Connection closed")
}

// ConnectionCount reports the number of live connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// heartbeatLoop pings every live connection on a fixed cadence and drops
// the ones whose liveness window has lapsed.
func (h *Hub) heartbeatLoop() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.sweepConnections()
		}
	}
}

func (h *Hub) sweepConnections() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))

	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	cutoff := time.Now().Add(-h.config.HeartbeatTimeout)

	for _, client := range clients {
		if client.idleSince().Before(cutoff) {
			h.logger.Info().
				Str("connection_id", client.ID).
				Msg("Dropping connection after missed heartbeats")
			h.drop(client)

			continue
		}

		client.enqueue(models.NewStreamMessage(models.MessageTypePing, nil))
	}
}

// Stop shuts the hub down, closing every connection.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
	h.wg.Wait()

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))

	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.drop(client)
	}

	h.logger.Info().Msg("Broadcaster stopped")
}
