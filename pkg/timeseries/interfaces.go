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

//go:generate mockgen -destination=mock_timeseries.go -package=timeseries github.com/netwatch-io/netwatch/pkg/timeseries Store

// Package timeseries buffers metric records and persists them to the
// time-series store in batches.
package timeseries

import (
	"context"

	"github.com/netwatch-io/netwatch/pkg/models"
)

// Store is the persistence collaborator: batched writes plus translation
// of a store-agnostic query spec into the store's native query.
type Store interface {
	WriteRecords(ctx context.Context, records []*models.MetricRecord) error
	Query(ctx context.Context, spec *models.QuerySpec) ([]models.MetricRow, error)
	Close()
}

// Sink receives metric record batches from producers. The ingestion
// buffer implements it; the poller only knows this interface.
type Sink interface {
	Store(records []*models.MetricRecord)
}
