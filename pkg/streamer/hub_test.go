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
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netwatch-io/netwatch/pkg/logger"
	"github.com/netwatch-io/netwatch/pkg/models"
)

const testToken = "stream-secret"

func newTestHub(t *testing.T, config HubConfig) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(config, func(token string) bool { return token == testToken }, logger.NewTestLogger())

	server := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Stop()
		server.Close()
	})

	return hub, server
}

func dialHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	if resp != nil {
		defer resp.Body.Close()
	}

	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) models.StreamMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var msg models.StreamMessage
	require.NoError(t, conn.ReadJSON(&msg))

	return msg
}

// readEvent skips keepalive pings, returning the next substantive message.
func readEvent(t *testing.T, conn *websocket.Conn) models.StreamMessage {
	t.Helper()

	for {
		msg := readMessage(t, conn)
		if msg.Type != models.MessageTypePing {
			return msg
		}
	}
}

func sendMessage(t *testing.T, conn *websocket.Conn, msgType string, payload interface{}) {
	t.Helper()

	msg := models.StreamMessage{Type: msgType, Timestamp: time.Now().UTC()}

	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)

		msg.Data = data
	}

	require.NoError(t, conn.WriteJSON(msg))
}

func authenticate(t *testing.T, conn *websocket.Conn) {
	t.Helper()

	sendMessage(t, conn, models.MessageTypeAuthenticate, models.AuthenticatePayload{Token: testToken})

	msg := readEvent(t, conn)
	require.Equal(t, models.MessageTypeAuthSuccess, msg.Type)
}

func channelMembers(hub *Hub, channel string) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	return len(hub.channels[channel])
}

func TestHub_ConnectHandshake(t *testing.T) {
	hub, server := newTestHub(t, HubConfig{})
	conn := dialHub(t, server)

	msg := readMessage(t, conn)
	require.Equal(t, models.MessageTypeConnect, msg.Type)

	var payload models.ConnectPayload
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.NotEmpty(t, payload.ConnectionID)

	require.Eventually(t, func() bool {
		return hub.ConnectionCount() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestHub_SubscribeRequiresAuthentication(t *testing.T) {
	hub, server := newTestHub(t, HubConfig{})
	conn := dialHub(t, server)

	msg := readMessage(t, conn)
	require.Equal(t, models.MessageTypeConnect, msg.Type)

	sendMessage(t, conn, models.MessageTypeSubscribe, models.SubscribePayload{
		Channels: []string{models.ChannelMetrics},
	})

	msg = readEvent(t, conn)
	assert.Equal(t, models.MessageTypeAuthError, msg.Type)
	assert.Contains(t, msg.Error, ErrNotAuthenticated.Error())

	// The refused subscribe left no membership behind; a broadcast on the
	// channel never reaches this connection.
	assert.Zero(t, channelMembers(hub, models.ChannelMetrics))

	hub.PublishMetrics("dev-1", []*models.MetricRecord{{DeviceID: "dev-1", Name: "sys_uptime", Value: 1}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))

	var stray models.StreamMessage

	err := conn.ReadJSON(&stray)
	require.Error(t, err, "unauthenticated connection received a broadcast")
}

func TestHub_AuthenticateAndReceiveBroadcast(t *testing.T) {
	hub, server := newTestHub(t, HubConfig{})
	conn := dialHub(t, server)

	msg := readMessage(t, conn)
	require.Equal(t, models.MessageTypeConnect, msg.Type)

	authenticate(t, conn)

	sendMessage(t, conn, models.MessageTypeSubscribe, models.SubscribePayload{
		Channels: []string{models.ChannelMetrics},
	})

	require.Eventually(t, func() bool {
		return channelMembers(hub, models.ChannelMetrics) == 1
	}, time.Second, 10*time.Millisecond)

	records := []*models.MetricRecord{{DeviceID: "dev-1", Name: "if_in_octets", Value: 1500}}
	hub.PublishMetrics("dev-1", records)

	msg = readEvent(t, conn)
	require.Equal(t, models.MessageTypeMetricsUpdate, msg.Type)

	var payload struct {
		DeviceID string                 `json:"device_id"`
		Records  []*models.MetricRecord `json:"records"`
	}

	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Equal(t, "dev-1", payload.DeviceID)
	require.Len(t, payload.Records, 1)
	assert.Equal(t, "if_in_octets", payload.Records[0].Name)
}

func TestHub_RepeatedBadCredentialsCloseConnection(t *testing.T) {
	hub, server := newTestHub(t, HubConfig{})
	conn := dialHub(t, server)

	msg := readMessage(t, conn)
	require.Equal(t, models.MessageTypeConnect, msg.Type)

	sendMessage(t, conn, models.MessageTypeAuthenticate, models.AuthenticatePayload{Token: "wrong"})

	msg = readEvent(t, conn)
	require.Equal(t, models.MessageTypeAuthError, msg.Type)

	// The first failure keeps the connection open for a retry.
	sendMessage(t, conn, models.MessageTypeAuthenticate, models.AuthenticatePayload{Token: "still wrong"})

	msg = readEvent(t, conn)
	require.Equal(t, models.MessageTypeAuthError, msg.Type)

	// The second failure tears the connection down.
	require.Eventually(t, func() bool {
		return hub.ConnectionCount() == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	hub, server := newTestHub(t, HubConfig{})
	conn := dialHub(t, server)

	readMessage(t, conn)
	authenticate(t, conn)

	sendMessage(t, conn, models.MessageTypeSubscribe, models.SubscribePayload{
		Channels: []string{models.ChannelMetrics, models.ChannelAlerts},
	})

	require.Eventually(t, func() bool {
		return channelMembers(hub, models.ChannelMetrics) == 1 &&
			channelMembers(hub, models.ChannelAlerts) == 1
	}, time.Second, 10*time.Millisecond)

	sendMessage(t, conn, models.MessageTypeUnsubscribe, models.SubscribePayload{
		Channels: []string{models.ChannelMetrics},
	})

	require.Eventually(t, func() bool {
		return channelMembers(hub, models.ChannelMetrics) == 0
	}, time.Second, 10*time.Millisecond)

	// Empty channels are destroyed, not kept around.
	hub.mu.RLock()
	_, exists := hub.channels[models.ChannelMetrics]
	hub.mu.RUnlock()
	assert.False(t, exists)

	assert.Equal(t, 1, channelMembers(hub, models.ChannelAlerts))
}

func TestHub_RequestMetricsReturnsCachedBatch(t *testing.T) {
	hub, server := newTestHub(t, HubConfig{})
	conn := dialHub(t, server)

	readMessage(t, conn)
	authenticate(t, conn)

	hub.PublishMetrics("dev-1", []*models.MetricRecord{{DeviceID: "dev-1", Name: "sys_uptime", Value: 60}})
	hub.PublishMetrics("dev-2", []*models.MetricRecord{{DeviceID: "dev-2", Name: "sys_uptime", Value: 90}})

	sendMessage(t, conn, models.MessageTypeRequestMetrics, models.RequestMetricsPayload{DeviceID: "dev-1"})

	msg := readEvent(t, conn)
	require.Equal(t, models.MessageTypeMetricsData, msg.Type)

	var payload map[string][]*models.MetricRecord
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	require.Len(t, payload, 1)
	require.Len(t, payload["dev-1"], 1)
	assert.InDelta(t, 60.0, payload["dev-1"][0].Value, 0.001)

	// Without a device filter every cached batch comes back.
	sendMessage(t, conn, models.MessageTypeRequestMetrics, nil)

	msg = readEvent(t, conn)
	require.Equal(t, models.MessageTypeMetricsData, msg.Type)
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Len(t, payload, 2)
}

func TestHub_RequestMetricsForgetsRetiredDevice(t *testing.T) {
	hub, server := newTestHub(t, HubConfig{})
	conn := dialHub(t, server)

	readMessage(t, conn)
	authenticate(t, conn)

	hub.PublishMetrics("dev-1", []*models.MetricRecord{{DeviceID: "dev-1", Name: "sys_uptime", Value: 60}})
	hub.PublishMetrics("dev-2", []*models.MetricRecord{{DeviceID: "dev-2", Name: "sys_uptime", Value: 90}})

	hub.RetireDevice("dev-1")

	sendMessage(t, conn, models.MessageTypeRequestMetrics, nil)

	msg := readEvent(t, conn)
	require.Equal(t, models.MessageTypeMetricsData, msg.Type)

	var payload map[string][]*models.MetricRecord
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	require.Len(t, payload, 1)
	assert.NotContains(t, payload, "dev-1")
}

func TestHub_PingPong(t *testing.T) {
	_, server := newTestHub(t, HubConfig{})
	conn := dialHub(t, server)

	readMessage(t, conn)

	// Ping works before authentication.
	sendMessage(t, conn, models.MessageTypePing, nil)

	msg := readMessage(t, conn)
	assert.Equal(t, models.MessageTypePong, msg.Type)
}

func TestHub_SilentConnectionDropped(t *testing.T) {
	hub, server := newTestHub(t, HubConfig{
		HeartbeatInterval: 20 * time.Millisecond,
		HeartbeatTimeout:  80 * time.Millisecond,
	})
	conn := dialHub(t, server)

	msg := readMessage(t, conn)
	require.Equal(t, models.MessageTypeConnect, msg.Type)

	require.Eventually(t, func() bool {
		return hub.ConnectionCount() == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestHub_StopClosesConnections(t *testing.T) {
	hub, server := newTestHub(t, HubConfig{})
	conn := dialHub(t, server)

	readMessage(t, conn)

	require.Eventually(t, func() bool {
		return hub.ConnectionCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Stop()

	assert.Zero(t, hub.ConnectionCount())

	// The transport closes underneath the client.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var stray models.StreamMessage

	require.Error(t, conn.ReadJSON(&stray))
}
