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

import "time"

// SNMPVersion selects the protocol version used to query a device.
type SNMPVersion string

const (
	SNMPv1  SNMPVersion = "v1"
	SNMPv2c SNMPVersion = "v2c"
	SNMPv3  SNMPVersion = "v3"
)

// DeviceStatus is the last known reachability of a monitored device.
type DeviceStatus string

const (
	DeviceStatusUp      DeviceStatus = "up"
	DeviceStatusDown    DeviceStatus = "down"
	DeviceStatusUnknown DeviceStatus = "unknown"
)

// Device describes one piece of monitored network equipment. The registry
// owns the canonical copy; everything else works on value copies.
type Device struct {
	ID           string      `json:"id"`
	Host         string      `json:"host"`
	Port         uint16      `json:"port"`
	Community    string      `json:"community,omitempty"`
	Version      SNMPVersion `json:"version"`
	SecurityName string      `json:"security_name,omitempty"`
	AuthProtocol string      `json:"auth_protocol,omitempty"`
	AuthPassword string      `json:"auth_password,omitempty"`
	PrivProtocol string      `json:"priv_protocol,omitempty"`
	PrivPassword string      `json:"priv_password,omitempty"`
	PollInterval Duration    `json:"poll_interval"`
	Vendor       string      `json:"vendor,omitempty"`
	Enabled      bool        `json:"enabled"`
}

// SessionStatus is a read-only snapshot of a device's poll session.
type SessionStatus struct {
	DeviceID  string       `json:"device_id"`
	Status    DeviceStatus `json:"status"`
	LastPoll  *time.Time   `json:"last_poll,omitempty"`
	LastError string       `json:"last_error,omitempty"`
}

// AlertRule is configuration consumed by the external evaluation layer;
// the core only stores it and counts firing alerts for snapshots.
type AlertRule struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"device_id,omitempty"`
	Metric    string    `json:"metric"`
	Condition string    `json:"condition"`
	Threshold float64   `json:"threshold"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}
