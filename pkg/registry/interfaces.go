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

//go:generate mockgen -destination=mock_registry.go -package=registry github.com/netwatch-io/netwatch/pkg/registry Scheduler

// Package registry is the authoritative device inventory: it keeps the
// metadata store and the poller's schedules in agreement.
package registry

import (
	"context"

	"github.com/netwatch-io/netwatch/pkg/models"
)

// Scheduler is the poll-scheduling surface the registry drives. The
// poller implements it.
type Scheduler interface {
	Register(ctx context.Context, device *models.Device) error
	Update(ctx context.Context, device *models.Device) error
	Unregister(id string) error
	PollOnce(ctx context.Context, id string) (models.SessionStatus, error)
	Status(id string) (models.SessionStatus, error)
	StatusAll() []models.SessionStatus
}

// Manager is the device lifecycle entry point consumed in-process by the
// external CRUD layer. Every mutation lands in the metadata store and in
// the scheduler, in that order.
type Manager interface {
	LoadDevices(ctx context.Context) error
	AddDevice(ctx context.Context, device *models.Device) error
	UpdateDevice(ctx context.Context, device *models.Device) error
	RemoveDevice(ctx context.Context, id string) error
	TestDevice(ctx context.Context, id string) (models.SessionStatus, error)
	GetDevice(ctx context.Context, id string) (*models.Device, error)
	DeviceStatus(id string) (models.SessionStatus, error)
	DeviceStatuses() []models.SessionStatus
}
