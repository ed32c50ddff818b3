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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/netwatch-io/netwatch/pkg/db"
	"github.com/netwatch-io/netwatch/pkg/logger"
	"github.com/netwatch-io/netwatch/pkg/models"
)

var errStoreUnavailable = errors.New("store unavailable")

func newTestManager(t *testing.T) (Manager, *db.MockService, *MockScheduler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	store := db.NewMockService(ctrl)
	scheduler := NewMockScheduler(ctrl)

	return NewManager(store, scheduler, logger.NewTestLogger()), store, scheduler
}

func device(id string) *models.Device {
	return &models.Device{
		ID:           id,
		Host:         "192.0.2.20",
		Version:      models.SNMPv2c,
		Community:    "public",
		PollInterval: models.Duration(time.Minute),
		Enabled:      true,
	}
}

func TestManager_AddDevicePersistsThenSchedules(t *testing.T) {
	manager, store, scheduler := newTestManager(t)
	dev := device("dev-1")

	gomock.InOrder(
		store.EXPECT().UpsertDevice(gomock.Any(), dev).Return(nil),
		scheduler.EXPECT().Register(gomock.Any(), dev).Return(nil),
	)

	require.NoError(t, manager.AddDevice(context.Background(), dev))
}

func TestManager_AddDeviceStoreFailureSkipsSchedule(t *testing.T) {
	manager, store, _ := newTestManager(t)
	dev := device("dev-1")

	store.EXPECT().UpsertDevice(gomock.Any(), dev).Return(errStoreUnavailable)

	require.ErrorIs(t, manager.AddDevice(context.Background(), dev), errStoreUnavailable)
}

func TestManager_AddDeviceValidation(t *testing.T) {
	manager, _, _ := newTestManager(t)

	require.ErrorIs(t, manager.AddDevice(context.Background(), nil), ErrDeviceIDRequired)
	require.ErrorIs(t, manager.AddDevice(context.Background(), &models.Device{}), ErrDeviceIDRequired)

	noHost := device("dev-1")
	noHost.Host = ""
	require.ErrorIs(t, manager.AddDevice(context.Background(), noHost), ErrHostRequired)
}

func TestManager_UpdateDevice(t *testing.T) {
	manager, store, scheduler := newTestManager(t)
	dev := device("dev-1")

	gomock.InOrder(
		store.EXPECT().UpsertDevice(gomock.Any(), dev).Return(nil),
		scheduler.EXPECT().Update(gomock.Any(), dev).Return(nil),
	)

	require.NoError(t, manager.UpdateDevice(context.Background(), dev))
}

func TestManager_RemoveDeviceUnschedulesThenDeletes(t *testing.T) {
	manager, store, scheduler := newTestManager(t)

	gomock.InOrder(
		scheduler.EXPECT().Unregister("dev-1").Return(nil),
		store.EXPECT().DeleteDevice(gomock.Any(), "dev-1").Return(nil),
	)

	require.NoError(t, manager.RemoveDevice(context.Background(), "dev-1"))
}

func TestManager_RemoveUnknownDevice(t *testing.T) {
	manager, _, scheduler := newTestManager(t)

	notFound := errors.New("device not found: ghost")
	scheduler.EXPECT().Unregister("ghost").Return(notFound)

	require.ErrorIs(t, manager.RemoveDevice(context.Background(), "ghost"), notFound)
	require.ErrorIs(t, manager.RemoveDevice(context.Background(), ""), ErrDeviceIDRequired)
}

func TestManager_LoadDevicesSkipsFailures(t *testing.T) {
	manager, store, scheduler := newTestManager(t)

	devices := []models.Device{*device("dev-1"), *device("dev-2"), *device("dev-3")}
	store.EXPECT().ListDevices(gomock.Any()).Return(devices, nil)

	scheduler.EXPECT().Register(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, dev *models.Device) error {
			if dev.ID == "dev-2" {
				return errors.New("device already registered: dev-2")
			}

			return nil
		}).Times(3)

	require.NoError(t, manager.LoadDevices(context.Background()))
}

func TestManager_TestDevice(t *testing.T) {
	manager, _, scheduler := newTestManager(t)

	want := models.SessionStatus{DeviceID: "dev-1", Status: models.DeviceStatusUp}
	scheduler.EXPECT().PollOnce(gomock.Any(), "dev-1").Return(want, nil)

	status, err := manager.TestDevice(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.Equal(t, want, status)

	_, err = manager.TestDevice(context.Background(), "")
	require.ErrorIs(t, err, ErrDeviceIDRequired)
}
