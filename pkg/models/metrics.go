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

// Package models pkg/models/metrics.go
package models

import "time"

// MetricRecord is one sample produced by a poll cycle. Records are built
// once by the poller and never mutated downstream.
type MetricRecord struct {
	DeviceID    string            `json:"device_id"`
	Name        string            `json:"name"`
	Value       float64           `json:"value"`
	StringValue string            `json:"string_value,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Tags        map[string]string `json:"tags,omitempty"`
}

// IsNumeric reports whether the record carries a numeric value rather
// than a string one.
func (r *MetricRecord) IsNumeric() bool {
	return r.StringValue == ""
}

// Aggregate names the server-side aggregation applied to a query.
type Aggregate string

const (
	AggregateMean Aggregate = "mean"
	AggregateMax  Aggregate = "max"
	AggregateMin  Aggregate = "min"
	AggregateLast Aggregate = "last"
)

// QuerySpec is a store-agnostic description of a time-series read. The
// timeseries package translates it into the backing store's native query.
type QuerySpec struct {
	Metric    string        `json:"metric"`
	DeviceID  string        `json:"device_id,omitempty"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Aggregate Aggregate     `json:"aggregate,omitempty"`
	Bucket    time.Duration `json:"bucket,omitempty"`
}

// MetricRow is one result row from a time-series query.
type MetricRow struct {
	Time     time.Time `json:"time"`
	DeviceID string    `json:"device_id"`
	Value    float64   `json:"value"`
}

// QueryResult carries query rows plus a degraded marker set when the
// backing store was unavailable and the rows are a placeholder.
type QueryResult struct {
	Rows     []MetricRow `json:"rows"`
	Degraded bool        `json:"degraded"`
}
