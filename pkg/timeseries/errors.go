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

import "errors"

var (
	ErrFailedOpenStore    = errors.New("failed to open timeseries store")
	ErrFailedToInit       = errors.New("failed to initialize timeseries schema")
	ErrFailedToWrite      = errors.New("failed to write metrics batch")
	ErrFailedToQuery      = errors.New("failed to query metrics")
	ErrFailedToScan       = errors.New("failed to scan metric row")
	ErrMetricRequired     = errors.New("query spec requires a metric name")
	ErrInvalidTimeRange   = errors.New("query spec end must be after start")
	ErrInvalidAggregate   = errors.New("unsupported aggregate")
	ErrBufferShuttingDown = errors.New("ingestion buffer is shutting down")
)
