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
	"context"
	"sync"
	"time"

	"github.com/netwatch-io/netwatch/pkg/logger"
	"github.com/netwatch-io/netwatch/pkg/models"
	"github.com/netwatch-io/netwatch/pkg/timeseries"
)

const defaultSnapshotInterval = 30 * time.Second

// StatusProvider exposes the poller's session snapshots.
type StatusProvider interface {
	StatusAll() []models.SessionStatus
}

// BufferStatsProvider exposes ingestion buffer activity.
type BufferStatsProvider interface {
	Stats() timeseries.BufferStats
}

// AlertCounter exposes the metadata store's active-alert bookkeeping.
type AlertCounter interface {
	CountActiveAlerts(ctx context.Context) (int, error)
}

// Snapshotter periodically assembles per-channel summaries from the live
// pipeline and broadcasts them, decoupling consumers from the poll timing
// of any one device.
type Snapshotter struct {
	hub      *Hub
	statuses StatusProvider
	buffer   BufferStatsProvider
	alerts   AlertCounter
	interval time.Duration
	logger   logger.Logger

	done     chan struct{}
	stopOnce sync.Once
	wg       chan struct{}
}

// NewSnapshotter wires the snapshot task to its pipeline sources.
func NewSnapshotter(
	hub *Hub,
	statuses StatusProvider,
	buffer BufferStatsProvider,
	alerts AlertCounter,
	interval time.Duration,
	log logger.Logger,
) *Snapshotter {
	if interval <= 0 {
		interval = defaultSnapshotInterval
	}

	return &Snapshotter{
		hub:      hub,
		statuses: statuses,
		buffer:   buffer,
		alerts:   alerts,
		interval: interval,
		logger:   log,
		done:     make(chan struct{}),
		wg:       make(chan struct{}),
	}
}

// Start runs the snapshot loop until Stop or context cancellation.
func (s *Snapshotter) Start(ctx context.Context) {
	go func() {
		defer close(s.wg)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.broadcastSnapshot(ctx)
			}
		}
	}()
}

// Stop halts the snapshot loop. Safe to call more than once.
func (s *Snapshotter) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	<-s.wg
}

func (s *Snapshotter) broadcastSnapshot(ctx context.Context) {
	statuses := s.statuses.StatusAll()
	stats := s.buffer.Stats()

	up, down := 0, 0

	for _, status := range statuses {
		switch status.Status {
		case models.DeviceStatusUp:
			up++
		case models.DeviceStatusDown:
			down++
		}
	}

	activeAlerts, err := s.alerts.CountActiveAlerts(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Alert count unavailable for snapshot")
	}

	payload := models.SystemStatusPayload{
		Devices:       statuses,
		DevicesUp:     up,
		DevicesDown:   down,
		ActiveAlerts:  activeAlerts,
		BufferedCount: stats.Buffered,
		FlushedCount:  stats.FlushedTotal,
	}

	s.hub.Broadcast(models.ChannelDevices, models.NewStreamMessage(models.MessageTypeSystemStatus, payload))
	s.hub.Broadcast(models.ChannelAlerts, models.NewStreamMessage(models.MessageTypeAlertsUpdate, map[string]int{
		"active_alerts": activeAlerts,
	}))

	s.logger.Debug().
		Int("devices_up", up).
		Int("devices_down", down).
		Int("buffered", stats.Buffered).
		Msg("Broadcast snapshot")
}
