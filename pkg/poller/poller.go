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

package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/netwatch-io/netwatch/pkg/logger"
	"github.com/netwatch-io/netwatch/pkg/models"
	"github.com/netwatch-io/netwatch/pkg/timeseries"
)

// Poller owns the registry of monitored devices. Each registered device
// runs its own goroutine and ticker; the registry map is the only shared
// structure and supports concurrent lookups with exclusive
// register/unregister.
type Poller struct {
	sink      timeseries.Sink
	publisher MetricPublisher
	factory   ClientFactory
	clock     Clock
	logger    logger.Logger

	mu       sync.RWMutex
	sessions map[string]*session
	stopped  bool

	wg sync.WaitGroup
}

// session is the per-device runtime state. Its fields are guarded by its
// own mutex so one device's updates never serialize another's.
type session struct {
	device models.Device
	cancel context.CancelFunc

	mu        sync.Mutex
	status    models.DeviceStatus
	lastPoll  *time.Time
	lastError string
	live      bool
}

func (s *session) snapshot() models.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := models.SessionStatus{
		DeviceID:  s.device.ID,
		Status:    s.status,
		LastError: s.lastError,
	}

	if s.lastPoll != nil {
		t := *s.lastPoll
		status.LastPoll = &t
	}

	return status
}

func (s *session) isLive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.live
}

func (s *session) recordSuccess(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.live {
		return
	}

	s.status = models.DeviceStatusUp
	s.lastPoll = &at
	s.lastError = ""
}

func (s *session) recordFailure(at time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.live {
		return
	}

	s.status = models.DeviceStatusDown
	s.lastPoll = &at
	s.lastError = err.Error()
}

// Option configures a Poller.
type Option func(*Poller)

// WithClientFactory substitutes the SNMP client factory, used by tests.
func WithClientFactory(factory ClientFactory) Option {
	return func(p *Poller) { p.factory = factory }
}

// WithClock substitutes the scheduling clock, used by tests.
func WithClock(clock Clock) Option {
	return func(p *Poller) { p.clock = clock }
}

// WithPublisher adds a parallel consumer for emitted batches.
func WithPublisher(publisher MetricPublisher) Option {
	return func(p *Poller) { p.publisher = publisher }
}

// New creates a poller emitting to the given ingestion sink.
func New(sink timeseries.Sink, log logger.Logger, opts ...Option) *Poller {
	p := &Poller{
		sink:     sink,
		factory:  &defaultClientFactory{},
		clock:    realClock{},
		logger:   log,
		sessions: make(map[string]*session),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Register adds a device and starts its poll schedule. A duplicate id
// fails with ErrDeviceExists.
func (p *Poller) Register(ctx context.Context, device *models.Device) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrPollerStopped
	}

	if _, exists := p.sessions[device.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDeviceExists, device.ID)
	}

	p.startSessionLocked(ctx, device)

	p.logger.Info().
		Str("device_id", device.ID).
		Str("host", device.Host).
		Dur("interval", time.Duration(device.PollInterval)).
		Bool("enabled", device.Enabled).
		Msg("Registered device")

	return nil
}

// Update replaces a device's descriptor and schedule. Exactly one poll
// loop exists for the id afterwards.
func (p *Poller) Update(ctx context.Context, device *models.Device) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrPollerStopped
	}

	existing, exists := p.sessions[device.ID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, device.ID)
	}

	p.retireSessionLocked(existing)
	p.startSessionLocked(ctx, device)

	p.logger.Info().Str("device_id", device.ID).Msg("Updated device, schedule replaced")

	return nil
}

// Unregister cancels the device's schedule and releases its session. An
// in-flight cycle finishes, but its result no longer updates session
// state and its records flush tagged as stale.
func (p *Poller) Unregister(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, exists := p.sessions[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}

	p.retireSessionLocked(s)
	delete(p.sessions, id)

	if p.publisher != nil {
		p.publisher.RetireDevice(id)
	}

	p.logger.Info().Str("device_id", id).Msg("Unregistered device")

	return nil
}

// PollOnce runs a single poll cycle immediately, outside the schedule.
// Used for connectivity tests by the registry control surface.
func (p *Poller) PollOnce(ctx context.Context, id string) (models.SessionStatus, error) {
	p.mu.RLock()
	s, exists := p.sessions[id]
	p.mu.RUnlock()

	if !exists {
		return models.SessionStatus{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}

	p.runCycle(ctx, s)

	return s.snapshot(), nil
}

// Status returns a read-only snapshot of one device's session.
func (p *Poller) Status(id string) (models.SessionStatus, error) {
	p.mu.RLock()
	s, exists := p.sessions[id]
	p.mu.RUnlock()

	if !exists {
		return models.SessionStatus{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}

	return s.snapshot(), nil
}

// StatusAll returns snapshots for every registered device.
func (p *Poller) StatusAll() []models.SessionStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	statuses := make([]models.SessionStatus, 0, len(p.sessions))

	for _, s := range p.sessions {
		statuses = append(statuses, s.snapshot())
	}

	return statuses
}

// Stop cancels every schedule and waits for in-flight cycles.
func (p *Poller) Stop() {
	p.mu.Lock()

	p.stopped = true

	for id, s := range p.sessions {
		p.retireSessionLocked(s)
		delete(p.sessions, id)
	}

	p.mu.Unlock()

	p.wg.Wait()

	p.logger.Info().Msg("Poller stopped")
}

// startSessionLocked creates the session and, for enabled devices,
// launches its independent poll loop. The loop's lifetime belongs to
// Unregister and Stop, not to the registration caller's context, which
// may be request-scoped. Caller holds p.mu.
func (p *Poller) startSessionLocked(ctx context.Context, device *models.Device) {
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	s := &session{
		device: *device,
		cancel: cancel,
		status: models.DeviceStatusUnknown,
		live:   true,
	}

	p.sessions[device.ID] = s

	if !device.Enabled {
		return
	}

	p.wg.Add(1)

	go p.runLoop(loopCtx, s)
}

// retireSessionLocked cancels the schedule and marks the session dead so
// an in-flight cycle's result is discarded. Caller holds p.mu.
func (p *Poller) retireSessionLocked(s *session) {
	s.mu.Lock()
	s.live = false
	s.mu.Unlock()

	s.cancel()
}

// runLoop is one device's schedule: an immediate first cycle, then one
// per tick until the session is cancelled. Failures stay inside this
// goroutine; no other device's schedule is affected.
func (p *Poller) runLoop(ctx context.Context, s *session) {
	defer p.wg.Done()

	interval := time.Duration(s.device.PollInterval)
	if interval <= 0 {
		interval = 60 * time.Second
	}

	ticker := p.clock.Ticker(interval)
	defer ticker.Stop()

	p.runCycle(ctx, s)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			p.runCycle(ctx, s)
		}
	}
}

// emit hands a batch to the ingestion sink and, for live sessions, the
// broadcast publisher. Batches from a retired session still flush but
// are tagged stale and never reach the publisher.
func (p *Poller) emit(s *session, records []*models.MetricRecord) {
	if len(records) == 0 {
		return
	}

	if !s.isLive() {
		for _, record := range records {
			if record.Tags == nil {
				record.Tags = make(map[string]string, 1)
			}

			record.Tags["stale"] = "true"
		}

		p.sink.Store(records)

		return
	}

	p.sink.Store(records)

	if p.publisher != nil {
		p.publisher.PublishMetrics(s.device.ID, records)
	}
}
