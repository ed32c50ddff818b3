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

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var errInvalidDuration = errors.New("invalid duration value")

// Duration is a time.Duration that unmarshals from either a duration
// string ("30s") or a number of nanoseconds.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

// CoreConfig is the top-level configuration for the telemetry core.
type CoreConfig struct {
	ListenAddr       string          `json:"listen_addr"`
	Database         DatabaseConfig  `json:"database"`
	Ingestion        IngestionConfig `json:"ingestion"`
	SnapshotInterval Duration        `json:"snapshot_interval"`
	Heartbeat        HeartbeatConfig `json:"heartbeat"`
	ShutdownTimeout  Duration        `json:"shutdown_timeout"`
	Logging          *LoggingRef     `json:"logging,omitempty"`
}

// LoggingRef mirrors logger.Config so the core config file can carry it
// without importing the logger package here.
type LoggingRef struct {
	Level  string `json:"level"`
	Debug  bool   `json:"debug"`
	Output string `json:"output"`
}

// DatabaseConfig holds the connection settings for the Postgres stores.
type DatabaseConfig struct {
	DSN          string   `json:"dsn"`
	MaxConns     int32    `json:"max_conns"`
	MinConns     int32    `json:"min_conns"`
	SkipMigrate  bool     `json:"skip_migrate"`
	QueryTimeout Duration `json:"query_timeout"`
}

// IngestionConfig tunes the metric write buffer.
type IngestionConfig struct {
	BatchSize      int      `json:"batch_size"`
	FlushInterval  Duration `json:"flush_interval"`
	AlarmThreshold int      `json:"alarm_threshold"`
}

// HeartbeatConfig tunes websocket liveness checking.
type HeartbeatConfig struct {
	Interval Duration `json:"interval"`
	Timeout  Duration `json:"timeout"`
}
