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

package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/netwatch-io/netwatch/pkg/db"
	"github.com/netwatch-io/netwatch/pkg/logger"
	"github.com/netwatch-io/netwatch/pkg/models"
	"github.com/netwatch-io/netwatch/pkg/poller"
)

var (
	ErrDeviceIDRequired = errors.New("device id is required")
	ErrHostRequired     = errors.New("device host is required")
)

// manager keeps the metadata store authoritative: mutations persist
// first, then adjust the schedule, so a crash never leaves a scheduled
// device with no configuration row.
type manager struct {
	store     db.Service
	scheduler Scheduler
	logger    logger.Logger
}

// NewManager creates the device lifecycle manager.
func NewManager(store db.Service, scheduler Scheduler, log logger.Logger) Manager {
	return &manager{
		store:     store,
		scheduler: scheduler,
		logger:    log,
	}
}

// LoadDevices restores every persisted device into the scheduler,
// typically at startup. A device that fails to register is logged and
// skipped; the rest of the inventory still comes up.
func (m *manager) LoadDevices(ctx context.Context) error {
	devices, err := m.store.ListDevices(ctx)
	if err != nil {
		return err
	}

	registered := 0

	for i := range devices {
		if err := m.scheduler.Register(ctx, &devices[i]); err != nil {
			m.logger.Error().
				Err(err).
				Str("device_id", devices[i].ID).
				Msg("Failed to restore device schedule")

			continue
		}

		registered++
	}

	m.logger.Info().
		Int("registered", registered).
		Int("total", len(devices)).
		Msg("Device inventory restored")

	return nil
}

// AddDevice persists a new device and starts its schedule.
func (m *manager) AddDevice(ctx context.Context, device *models.Device) error {
	if err := validateDevice(device); err != nil {
		return err
	}

	if err := m.store.UpsertDevice(ctx, device); err != nil {
		return err
	}

	return m.scheduler.Register(ctx, device)
}

// UpdateDevice persists a changed descriptor and replaces its schedule.
func (m *manager) UpdateDevice(ctx context.Context, device *models.Device) error {
	if err := validateDevice(device); err != nil {
		return err
	}

	if err := m.store.UpsertDevice(ctx, device); err != nil {
		return err
	}

	return m.scheduler.Update(ctx, device)
}

// RemoveDevice retires the schedule and deletes the configuration row.
// The schedule goes first so no new cycle starts against a device whose
// row is about to disappear.
func (m *manager) RemoveDevice(ctx context.Context, id string) error {
	if id == "" {
		return ErrDeviceIDRequired
	}

	if err := m.scheduler.Unregister(id); err != nil {
		return err
	}

	return m.store.DeleteDevice(ctx, id)
}

// TestDevice runs one immediate poll cycle and returns the outcome.
func (m *manager) TestDevice(ctx context.Context, id string) (models.SessionStatus, error) {
	if id == "" {
		return models.SessionStatus{}, ErrDeviceIDRequired
	}

	return m.scheduler.PollOnce(ctx, id)
}

// GetDevice returns the persisted descriptor.
func (m *manager) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	if id == "" {
		return nil, ErrDeviceIDRequired
	}

	return m.store.GetDevice(ctx, id)
}

// DeviceStatus returns the live session snapshot for one device.
func (m *manager) DeviceStatus(id string) (models.SessionStatus, error) {
	return m.scheduler.Status(id)
}

// DeviceStatuses returns live session snapshots for the whole inventory.
func (m *manager) DeviceStatuses() []models.SessionStatus {
	return m.scheduler.StatusAll()
}

func validateDevice(device *models.Device) error {
	if device == nil || device.ID == "" {
		return ErrDeviceIDRequired
	}

	if device.Host == "" {
		return fmt.Errorf("%w: %s", ErrHostRequired, device.ID)
	}

	return nil
}

// assert the poller satisfies the scheduling surface.
var _ Scheduler = (*poller.Poller)(nil)
