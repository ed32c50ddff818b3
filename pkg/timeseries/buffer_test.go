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

package timeseries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/netwatch-io/netwatch/pkg/logger"
	"github.com/netwatch-io/netwatch/pkg/models"
)

var errStoreDown = errors.New("store down")

func testRecord(deviceID, name string, value float64) *models.MetricRecord {
	return &models.MetricRecord{
		DeviceID:  deviceID,
		Name:      name,
		Value:     value,
		Timestamp: time.Now().UTC(),
	}
}

// quietBuffer builds a buffer whose background flush loop stays out of
// the way, so the test drives Flush directly.
func quietBuffer(store Store) *Buffer {
	return NewBuffer(store, BufferConfig{
		BatchSize:     100000,
		FlushInterval: time.Hour,
	}, logger.NewTestLogger())
}

func TestBuffer_ThresholdFlush(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockStore(ctrl)

	flushed := make(chan []*models.MetricRecord, 1)
	mockStore.EXPECT().
		WriteRecords(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, records []*models.MetricRecord) error {
			flushed <- records
			return nil
		})
	mockStore.EXPECT().WriteRecords(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockStore.EXPECT().Close()

	buffer := NewBuffer(mockStore, BufferConfig{
		BatchSize:     2,
		FlushInterval: time.Hour,
	}, logger.NewTestLogger())

	buffer.Store([]*models.MetricRecord{
		testRecord("dev-1", "if_in_octets", 100),
		testRecord("dev-1", "if_out_octets", 200),
	})

	select {
	case batch := <-flushed:
		require.Len(t, batch, 2)
		assert.Equal(t, "if_in_octets", batch[0].Name)
		assert.Equal(t, "if_out_octets", batch[1].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("threshold flush never ran")
	}

	require.NoError(t, buffer.Stop(context.Background()))

	stats := buffer.Stats()
	assert.Equal(t, uint64(2), stats.FlushedTotal)
	assert.Zero(t, stats.Buffered)
}

// A below-threshold batch must still reach the store on the periodic
// timer; the threshold trigger is an accelerator, not the only path.
func TestBuffer_PeriodicFlushBelowThreshold(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockStore(ctrl)

	flushed := make(chan []*models.MetricRecord, 1)
	mockStore.EXPECT().
		WriteRecords(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, records []*models.MetricRecord) error {
			select {
			case flushed <- records:
			default:
			}
			return nil
		}).AnyTimes()
	mockStore.EXPECT().Close()

	buffer := NewBuffer(mockStore, BufferConfig{
		BatchSize:     1000,
		FlushInterval: 50 * time.Millisecond,
	}, logger.NewTestLogger())

	buffer.Store([]*models.MetricRecord{testRecord("dev-1", "sys_uptime", 60)})

	select {
	case batch := <-flushed:
		require.Len(t, batch, 1)
		assert.Equal(t, "sys_uptime", batch[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("periodic flush never ran")
	}

	require.NoError(t, buffer.Stop(context.Background()))
	assert.Equal(t, uint64(1), buffer.Stats().FlushedTotal)
}

func TestBuffer_FailedFlushKeepsOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockStore(ctrl)
	buffer := quietBuffer(mockStore)

	first := testRecord("dev-1", "cpu_utilization", 42)
	second := testRecord("dev-1", "cpu_utilization", 43)

	buffer.Store([]*models.MetricRecord{first})

	mockStore.EXPECT().WriteRecords(gomock.Any(), gomock.Any()).Return(errStoreDown)

	err := buffer.Flush(context.Background())
	require.ErrorIs(t, err, errStoreDown)

	stats := buffer.Stats()
	assert.Equal(t, uint64(1), stats.FailedFlushes)
	assert.Equal(t, 1, stats.Buffered)

	// Records arriving during the outage land behind the retried batch.
	buffer.Store([]*models.MetricRecord{second})

	var retried []*models.MetricRecord

	mockStore.EXPECT().
		WriteRecords(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, records []*models.MetricRecord) error {
			retried = records
			return nil
		})

	require.NoError(t, buffer.Flush(context.Background()))
	require.Len(t, retried, 2)
	assert.Same(t, first, retried[0])
	assert.Same(t, second, retried[1])

	stats = buffer.Stats()
	assert.Equal(t, uint64(2), stats.FlushedTotal)
	assert.Zero(t, stats.Buffered)

	mockStore.EXPECT().Close()
	require.NoError(t, buffer.Stop(context.Background()))
}

func TestBuffer_StoreNeverBlocksDuringOutage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockStore(ctrl)
	mockStore.EXPECT().WriteRecords(gomock.Any(), gomock.Any()).Return(errStoreDown).AnyTimes()

	buffer := quietBuffer(mockStore)

	for i := 0; i < 500; i++ {
		done := make(chan struct{})

		go func() {
			buffer.Store([]*models.MetricRecord{testRecord("dev-1", "if_in_octets", float64(i))})
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Store blocked on a failing store")
		}
	}

	assert.Equal(t, 500, buffer.Stats().Buffered)

	mockStore.EXPECT().Close()

	// Final flush fails too; Stop reports it but still releases the store.
	require.Error(t, buffer.Stop(context.Background()))
}

func TestBuffer_QueryDegradedOnStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockStore(ctrl)
	buffer := quietBuffer(mockStore)

	spec := &models.QuerySpec{
		Metric: "cpu_utilization",
		Start:  time.Now().Add(-time.Hour),
		End:    time.Now(),
	}

	mockStore.EXPECT().Query(gomock.Any(), spec).Return(nil, errStoreDown)

	result, err := buffer.Query(context.Background(), spec)
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Empty(t, result.Rows)

	rows := []models.MetricRow{{DeviceID: "dev-1", Value: 42}}
	mockStore.EXPECT().Query(gomock.Any(), spec).Return(rows, nil)

	result, err = buffer.Query(context.Background(), spec)
	require.NoError(t, err)
	assert.False(t, result.Degraded)
	assert.Equal(t, rows, result.Rows)

	mockStore.EXPECT().Close()
	require.NoError(t, buffer.Stop(context.Background()))
}

func TestBuffer_StopDrainsAndRejectsLateRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockStore(ctrl)
	buffer := quietBuffer(mockStore)

	buffer.Store([]*models.MetricRecord{testRecord("dev-1", "sys_uptime", 1)})

	var final []*models.MetricRecord

	mockStore.EXPECT().
		WriteRecords(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, records []*models.MetricRecord) error {
			final = records
			return nil
		})
	mockStore.EXPECT().Close()

	require.NoError(t, buffer.Stop(context.Background()))
	require.Len(t, final, 1)

	// Intake is closed now.
	buffer.Store([]*models.MetricRecord{testRecord("dev-1", "sys_uptime", 2)})
	assert.Zero(t, buffer.Stats().Buffered)

	require.ErrorIs(t, buffer.Stop(context.Background()), ErrBufferShuttingDown)
}
