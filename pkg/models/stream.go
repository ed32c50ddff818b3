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

package models

import (
	"encoding/json"
	"time"
)

// Real-time channel message kinds. Every message carries a type and a
// timestamp; payloads are kind-specific.
const (
	MessageTypeConnect        = "connect"
	MessageTypeAuthenticate   = "authenticate"
	MessageTypeAuthSuccess    = "auth_success"
	MessageTypeAuthError      = "auth_error"
	MessageTypeSubscribe      = "subscribe"
	MessageTypeUnsubscribe    = "unsubscribe"
	MessageTypePing           = "ping"
	MessageTypePong           = "pong"
	MessageTypeMetricsUpdate  = "metrics_update"
	MessageTypeAlertsUpdate   = "alerts_update"
	MessageTypeSystemStatus   = "system_status"
	MessageTypeRequestMetrics = "request_metrics"
	MessageTypeMetricsData    = "metrics_data"
	MessageTypeError          = "error"
)

// Well-known broadcast channels.
const (
	ChannelDevices = "devices"
	ChannelMetrics = "metrics"
	ChannelAlerts  = "alerts"
)

// StreamMessage is the wire envelope for the real-time channel.
type StreamMessage struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// NewStreamMessage builds an envelope with the payload marshaled in place.
// Marshal failures surface as an error-typed message rather than a nil.
func NewStreamMessage(msgType string, payload interface{}) StreamMessage {
	msg := StreamMessage{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
	}

	if payload == nil {
		return msg
	}

	data, err := json.Marshal(payload)
	if err != nil {
		msg.Type = MessageTypeError
		msg.Error = err.Error()

		return msg
	}

	msg.Data = data

	return msg
}

// ConnectPayload is sent server→client on connect with the assigned id.
type ConnectPayload struct {
	ConnectionID string `json:"connection_id"`
}

// AuthenticatePayload is the client credential message.
type AuthenticatePayload struct {
	Token string `json:"token"`
}

// SubscribePayload lists channel names for subscribe/unsubscribe.
type SubscribePayload struct {
	Channels []string `json:"channels"`
}

// RequestMetricsPayload optionally narrows a metrics request to a device.
type RequestMetricsPayload struct {
	DeviceID string `json:"device_id,omitempty"`
}

// SystemStatusPayload is the periodic pipeline-sourced snapshot.
type SystemStatusPayload struct {
	Devices       []SessionStatus `json:"devices"`
	DevicesUp     int             `json:"devices_up"`
	DevicesDown   int             `json:"devices_down"`
	ActiveAlerts  int             `json:"active_alerts"`
	BufferedCount int             `json:"buffered_count"`
	FlushedCount  uint64          `json:"flushed_count"`
}
