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

package streamer

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/netwatch-io/netwatch/pkg/models"
)

const (
	sendQueueSize   = 64
	writeWait       = 10 * time.Second
	maxAuthFailures = 2
	maxBadMessages  = 5
)

// Client is one live consumer connection. Its lifecycle is
// open → authenticated → subscribed(channels) → closed; the hub holds it
// in the connection map between open and closed.
type Client struct {
	ID string

	hub  *Hub
	conn *websocket.Conn
	send chan models.StreamMessage
	done chan struct{}

	mu            sync.Mutex
	authenticated bool
	authFailures  int
	badMessages   int
	channels      map[string]struct{}
	lastSeen      time.Time
	closed        bool
}

func newClient(id string, hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:       id,
		hub:      hub,
		conn:     conn,
		send:     make(chan models.StreamMessage, sendQueueSize),
		done:     make(chan struct{}),
		channels: make(map[string]struct{}),
		lastSeen: time.Now(),
	}
}

// enqueue hands a message to the write pump. Delivery is fire-and-forget:
// a full queue drops the message for this connection only.
func (c *Client) enqueue(msg models.StreamMessage) bool {
	select {
	case <-c.done:
		return false
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) isAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.authenticated
}

func (c *Client) touch() {
	c.mu.Lock()
	c.lastSeen = time.Now()
	c.mu.Unlock()
}

func (c *Client) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastSeen
}

// writePump is the single writer for the connection.
func (c *Client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteJSON(msg); err != nil {
				c.hub.logger.Debug().
					Err(err).
					Str("connection_id", c.ID).
					Msg("Write failed, dropping connection")
				c.hub.drop(c)

				return
			}
		}
	}
}

// readPump reads client messages and dispatches them until the transport
// closes.
func (c *Client) readPump() {
	defer c.hub.drop(c)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		c.touch()

		var msg models.StreamMessage

		if err := json.Unmarshal(data, &msg); err != nil {
			if c.protocolViolation("malformed message") {
				return
			}

			continue
		}

		if done := c.handleMessage(&msg); done {
			return
		}
	}
}

// handleMessage runs one client message through the state machine.
// Returns true when the connection should close.
func (c *Client) handleMessage(msg *models.StreamMessage) bool {
	switch msg.Type {
	case models.MessageTypeAuthenticate:
		return c.handleAuthenticate(msg)
	case models.MessageTypeSubscribe:
		c.handleSubscribe(msg, true)
	case models.MessageTypeUnsubscribe:
		c.handleSubscribe(msg, false)
	case models.MessageTypePing:
		c.enqueue(models.NewStreamMessage(models.MessageTypePong, nil))
	case models.MessageTypePong:
		// touch already refreshed liveness
	case models.MessageTypeRequestMetrics:
		c.handleRequestMetrics(msg)
	default:
		c.hub.logger.Debug().
			Str("connection_id", c.ID).
			Str("type", msg.Type).
			Msg("Unknown message type")

		return c.protocolViolation(ErrUnknownMessageType.Error())
	}

	return false
}

// handleAuthenticate validates the credential. An invalid credential
// produces an auth_error event rather than an immediate teardown; the
// connection closes only after repeated failures.
func (c *Client) handleAuthenticate(msg *models.StreamMessage) bool {
	var payload models.AuthenticatePayload

	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.enqueue(errorMessage(models.MessageTypeAuthError, "malformed credential payload"))
			return false
		}
	}

	if !c.hub.authorizer(payload.Token) {
		c.mu.Lock()
		c.authFailures++
		failures := c.authFailures
		c.mu.Unlock()

		c.enqueue(errorMessage(models.MessageTypeAuthError, ErrInvalidCredentials.Error()))

		return failures >= maxAuthFailures
	}

	c.mu.Lock()
	c.authenticated = true
	c.mu.Unlock()

	c.enqueue(models.NewStreamMessage(models.MessageTypeAuthSuccess, nil))

	return false
}

// handleSubscribe adds or removes channel memberships. Unauthenticated
// connections receive an error, never a subscription.
func (c *Client) handleSubscribe(msg *models.StreamMessage, subscribe bool) {
	if !c.isAuthenticated() {
		c.enqueue(errorMessage(models.MessageTypeAuthError, ErrNotAuthenticated.Error()))
		return
	}

	var payload models.SubscribePayload

	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		c.enqueue(errorMessage(models.MessageTypeError, "malformed subscribe payload"))
		return
	}

	if subscribe {
		c.hub.subscribe(c, payload.Channels)
	} else {
		c.hub.unsubscribe(c, payload.Channels)
	}
}

func (c *Client) handleRequestMetrics(msg *models.StreamMessage) {
	if !c.isAuthenticated() {
		c.enqueue(errorMessage(models.MessageTypeAuthError, ErrNotAuthenticated.Error()))
		return
	}

	var payload models.RequestMetricsPayload

	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.enqueue(errorMessage(models.MessageTypeError, "malformed metrics request"))
			return
		}
	}

	c.enqueue(models.NewStreamMessage(models.MessageTypeMetricsData, c.hub.latestMetrics(payload.DeviceID)))
}

// protocolViolation counts a bad message; only repeated violations close
// the connection.
func (c *Client) protocolViolation(reason string) bool {
	c.mu.Lock()
	c.badMessages++
	count := c.badMessages
	c.mu.Unlock()

	c.enqueue(errorMessage(models.MessageTypeError, reason))

	return count >= maxBadMessages
}

func errorMessage(msgType, text string) models.StreamMessage {
	return models.StreamMessage{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Error:     text,
	}
}
