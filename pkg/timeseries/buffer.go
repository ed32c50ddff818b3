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
	"sync"
	"time"

	"github.com/netwatch-io/netwatch/pkg/logger"
	"github.com/netwatch-io/netwatch/pkg/models"
)

const (
	defaultBatchSize      = 1000
	defaultFlushInterval  = 10 * time.Second
	defaultAlarmThreshold = 10000
)

// BufferConfig tunes the ingestion buffer.
type BufferConfig struct {
	BatchSize      int
	FlushInterval  time.Duration
	AlarmThreshold int
}

// BufferStats is a snapshot of buffer activity for snapshots and the
// high-water-mark alarm.
type BufferStats struct {
	Buffered      int       `json:"buffered"`
	FlushedTotal  uint64    `json:"flushed_total"`
	FailedFlushes uint64    `json:"failed_flushes"`
	LastFlush     time.Time `json:"last_flush"`
}

// Buffer accumulates metric records and flushes them to the store in
// batches. Store() never blocks on I/O; flushes run on a threshold
// trigger and a periodic timer. A failed flush re-prepends the batch so
// temporal order is preserved for the retry.
type Buffer struct {
	store  Store
	config BufferConfig
	logger logger.Logger

	mu      sync.Mutex
	records []*models.MetricRecord
	closed  bool

	flushedTotal  uint64
	failedFlushes uint64
	lastFlush     time.Time
	alarmRaised   bool

	flushCh chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewBuffer creates the ingestion buffer and starts its flush loop.
func NewBuffer(store Store, config BufferConfig, log logger.Logger) *Buffer {
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}

	if config.FlushInterval <= 0 {
		config.FlushInterval = defaultFlushInterval
	}

	if config.AlarmThreshold <= 0 {
		config.AlarmThreshold = defaultAlarmThreshold
	}

	b := &Buffer{
		store:   store,
		config:  config,
		logger:  log,
		records: make([]*models.MetricRecord, 0, config.BatchSize*2),
		flushCh: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	b.wg.Add(1)
	go b.flushLoop()

	return b
}

// Store appends records to the in-memory batch. The enqueue is local and
// synchronous; any I/O happens on the flush goroutine. Records arriving
// after shutdown has begun are dropped and counted in the logs.
func (b *Buffer) Store(records []*models.MetricRecord) {
	if len(records) == 0 {
		return
	}

	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		b.logger.Warn().Int("count", len(records)).Msg("Dropping records, buffer shutting down")

		return
	}

	b.records = append(b.records, records...)
	size := len(b.records)
	b.checkHighWaterLocked(size)
	b.mu.Unlock()

	if size >= b.config.BatchSize {
		select {
		case b.flushCh <- struct{}{}:
		default:
			// flush already pending
		}
	}
}

// Query runs a spec against the store. When the store is unavailable the
// result is marked degraded instead of surfacing the error, so dependent
// consumers stay partially functional.
func (b *Buffer) Query(ctx context.Context, spec *models.QuerySpec) (*models.QueryResult, error) {
	rows, err := b.store.Query(ctx, spec)
	if err != nil {
		b.logger.Warn().
			Err(err).
			Str("metric", spec.Metric).
			Msg("Timeseries query failed, returning degraded result")

		return &models.QueryResult{Rows: []models.MetricRow{}, Degraded: true}, nil
	}

	return &models.QueryResult{Rows: rows}, nil
}

// Flush swaps the current batch out and writes it. On failure the batch
// is re-inserted at the front of whatever accumulated meanwhile, so no
// record is dropped and order is kept.
func (b *Buffer) Flush(ctx context.Context) error {
	b.mu.Lock()

	if len(b.records) == 0 {
		b.mu.Unlock()
		return nil
	}

	toFlush := b.records
	b.records = make([]*models.MetricRecord, 0, b.config.BatchSize*2)
	b.mu.Unlock()

	if err := b.store.WriteRecords(ctx, toFlush); err != nil {
		b.mu.Lock()
		b.failedFlushes++
		b.records = append(toFlush, b.records...)
		b.checkHighWaterLocked(len(b.records))
		b.mu.Unlock()

		b.logger.Error().
			Err(err).
			Int("batch_size", len(toFlush)).
			Msg("Flush failed, batch re-queued for retry")

		return err
	}

	b.mu.Lock()
	b.flushedTotal += uint64(len(toFlush))
	b.lastFlush = nowUTC()
	b.alarmRaised = false
	b.mu.Unlock()

	b.logger.Debug().Int("batch_size", len(toFlush)).Msg("Flushed metrics batch")

	return nil
}

// Stats returns a snapshot of buffer activity.
func (b *Buffer) Stats() BufferStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BufferStats{
		Buffered:      len(b.records),
		FlushedTotal:  b.flushedTotal,
		FailedFlushes: b.failedFlushes,
		LastFlush:     b.lastFlush,
	}
}

// Stop stops intake, flushes the outstanding batch bounded by the given
// context, then releases the store handle.
func (b *Buffer) Stop(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBufferShuttingDown
	}

	b.closed = true
	b.mu.Unlock()

	close(b.done)
	b.wg.Wait()

	err := b.Flush(ctx)
	if err != nil {
		b.logger.Error().Err(err).Msg("Final flush failed, buffered records lost on shutdown")
	}

	b.store.Close()

	return err
}

func (b *Buffer) flushLoop() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			return
		case <-b.flushCh:
			b.flushWithTimeout()
		case <-ticker.C:
			b.flushWithTimeout()
		}
	}
}

func (b *Buffer) flushWithTimeout() {
	ctx, cancel := context.WithTimeout(context.Background(), b.config.FlushInterval)
	defer cancel()

	// Errors are already logged and the batch re-queued; the next tick
	// retries.
	_ = b.Flush(ctx)
}

// checkHighWaterLocked raises an operator-visible alarm once per episode
// when retry growth pushes the buffer past the configured threshold.
func (b *Buffer) checkHighWaterLocked(size int) {
	if size > b.config.AlarmThreshold && !b.alarmRaised {
		b.alarmRaised = true
		b.logger.Error().
			Int("buffered", size).
			Int("threshold", b.config.AlarmThreshold).
			Uint64("failed_flushes", b.failedFlushes).
			Msg("Ingestion buffer high-water mark exceeded")
	}
}
