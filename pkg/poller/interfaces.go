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

//go:generate mockgen -destination=mock_poller.go -package=poller github.com/netwatch-io/netwatch/pkg/poller SNMPClient,ClientFactory

// Package poller runs an independent repeating poll cycle per registered
// device and emits metric record batches.
package poller

import (
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/netwatch-io/netwatch/pkg/models"
)

// SNMPClient is the narrow slice of the SNMP transport the poll cycle
// needs: scalar gets and table walks against one device.
type SNMPClient interface {
	Connect() error
	Get(oids []string) (*gosnmp.SnmpPacket, error)
	BulkWalk(rootOid string, walkFn gosnmp.WalkFunc) error
	Close() error
}

// ClientFactory builds a connected client for a device descriptor. Tests
// substitute this to drive cycles without a network.
type ClientFactory interface {
	CreateClient(device *models.Device) (SNMPClient, error)
}

// MetricPublisher receives each emitted batch in parallel with the
// ingestion sink; the broadcaster implements it. RetireDevice tells the
// publisher a device left the registry so cached state for it can go.
type MetricPublisher interface {
	PublishMetrics(deviceID string, records []*models.MetricRecord)
	RetireDevice(deviceID string)
}

// Clock abstracts time for deterministic scheduling tests.
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) Ticker
}

// Ticker abstracts time.Ticker.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}
