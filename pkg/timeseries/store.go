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
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/netwatch-io/netwatch/pkg/logger"
	"github.com/netwatch-io/netwatch/pkg/models"
)

// Measurement categories. Records are routed by metric-name pattern so
// each category keeps a narrower table.
const (
	measurementInterface = "interface_metrics"
	measurementSystem    = "system_metrics"
	measurementGeneric   = "device_metrics"
)

const insertMetricSQLTemplate = `
INSERT INTO %s (
	timestamp,
	device_id,
	metric_name,
	value,
	string_value,
	tags
) VALUES (
	$1,$2,$3,$4,$5,$6
)`

var metricSchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS interface_metrics (
		timestamp    TIMESTAMPTZ NOT NULL,
		device_id    TEXT NOT NULL,
		metric_name  TEXT NOT NULL,
		value        DOUBLE PRECISION NOT NULL DEFAULT 0,
		string_value TEXT NOT NULL DEFAULT '',
		tags         JSONB NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS system_metrics (
		timestamp    TIMESTAMPTZ NOT NULL,
		device_id    TEXT NOT NULL,
		metric_name  TEXT NOT NULL,
		value        DOUBLE PRECISION NOT NULL DEFAULT 0,
		string_value TEXT NOT NULL DEFAULT '',
		tags         JSONB NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS device_metrics (
		timestamp    TIMESTAMPTZ NOT NULL,
		device_id    TEXT NOT NULL,
		metric_name  TEXT NOT NULL,
		value        DOUBLE PRECISION NOT NULL DEFAULT 0,
		string_value TEXT NOT NULL DEFAULT '',
		tags         JSONB NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS interface_metrics_device_time_idx
		ON interface_metrics (device_id, metric_name, timestamp)`,
	`CREATE INDEX IF NOT EXISTS system_metrics_device_time_idx
		ON system_metrics (device_id, metric_name, timestamp)`,
	`CREATE INDEX IF NOT EXISTS device_metrics_device_time_idx
		ON device_metrics (device_id, metric_name, timestamp)`,
}

// PgStore persists metric records to Postgres.
type PgStore struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewPgStore dials the store and ensures the metric tables exist.
func NewPgStore(ctx context.Context, cfg *models.DatabaseConfig, log logger.Logger) (*PgStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenStore, err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenStore, err)
	}

	store := &PgStore{pool: pool, logger: log}

	if !cfg.SkipMigrate {
		for _, stmt := range metricSchemaStatements {
			if _, err := pool.Exec(ctx, stmt); err != nil {
				pool.Close()
				return nil, fmt.Errorf("%w: %w", ErrFailedToInit, err)
			}
		}
	}

	return store, nil
}

// NewPgStoreWithPool wraps an existing pool, used by tests.
func NewPgStoreWithPool(pool *pgxpool.Pool, log logger.Logger) *PgStore {
	return &PgStore{pool: pool, logger: log}
}

// Close releases the connection pool.
func (s *PgStore) Close() {
	s.pool.Close()
}

// measurementFor routes a metric name to its category table.
func measurementFor(metricName string) string {
	switch {
	case strings.HasPrefix(metricName, "if_"):
		return measurementInterface
	case strings.HasPrefix(metricName, "cpu_"),
		strings.HasPrefix(metricName, "memory_"),
		strings.HasPrefix(metricName, "sys_"):
		return measurementSystem
	default:
		return measurementGeneric
	}
}

// WriteRecords writes one batch, grouped per category table, in a single
// pgx batch round trip.
func (s *PgStore) WriteRecords(ctx context.Context, records []*models.MetricRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	queued := 0

	for _, record := range records {
		if record == nil {
			continue
		}

		tags, err := json.Marshal(record.Tags)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("device_id", record.DeviceID).
				Str("metric_name", record.Name).
				Msg("Skipping metric with unmarshalable tags")

			continue
		}

		sql := fmt.Sprintf(insertMetricSQLTemplate, measurementFor(record.Name))
		batch.Queue(sql,
			record.Timestamp.UTC(),
			record.DeviceID,
			record.Name,
			record.Value,
			record.StringValue,
			tags,
		)
		queued++
	}

	if queued == 0 {
		return nil
	}

	if err := s.sendBatchExecAll(ctx, batch, "metrics"); err != nil {
		return errors.Join(ErrFailedToWrite, err)
	}

	return nil
}

func (s *PgStore) sendBatchExecAll(ctx context.Context, batch *pgx.Batch, operation string) (err error) {
	if batch == nil || batch.Len() == 0 {
		return nil
	}

	br := s.pool.SendBatch(ctx, batch)
	defer func() {
		if closeErr := br.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%s batch close: %w", operation, closeErr)
		}
	}()

	for i := 0; i < batch.Len(); i++ {
		if _, err = br.Exec(); err != nil {
			return fmt.Errorf("%s batch exec (command %d): %w", operation, i, err)
		}
	}

	return nil
}

// Query translates a store-agnostic spec into SQL against the routed
// category table and returns the rows.
func (s *PgStore) Query(ctx context.Context, spec *models.QuerySpec) ([]models.MetricRow, error) {
	sql, args, err := buildQuerySQL(spec)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	var result []models.MetricRow

	for rows.Next() {
		var row models.MetricRow

		if err := rows.Scan(&row.Time, &row.DeviceID, &row.Value); err != nil {
			return nil, errors.Join(ErrFailedToScan, err)
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return result, nil
}

// buildQuerySQL translates the spec faithfully: raw rows when no
// aggregation is requested, date_bin bucketing when a bucket is set, and
// a whole-range aggregate otherwise.
func buildQuerySQL(spec *models.QuerySpec) (string, []interface{}, error) {
	if spec == nil || spec.Metric == "" {
		return "", nil, ErrMetricRequired
	}

	if !spec.End.After(spec.Start) {
		return "", nil, ErrInvalidTimeRange
	}

	table := measurementFor(spec.Metric)

	where := `metric_name = $1 AND timestamp >= $2 AND timestamp <= $3`
	args := []interface{}{spec.Metric, spec.Start.UTC(), spec.End.UTC()}

	if spec.DeviceID != "" {
		where += ` AND device_id = $4`
		args = append(args, spec.DeviceID)
	}

	if spec.Aggregate == "" {
		sql := fmt.Sprintf(
			`SELECT timestamp, device_id, value FROM %s WHERE %s ORDER BY timestamp`,
			table, where)

		return sql, args, nil
	}

	aggExpr, err := aggregateExpr(spec.Aggregate)
	if err != nil {
		return "", nil, err
	}

	if spec.Bucket > 0 {
		args = append(args, spec.Bucket)
		sql := fmt.Sprintf(
			`SELECT date_bin($%d, timestamp, to_timestamp(0)) AS bucket, device_id, %s
FROM %s WHERE %s
GROUP BY bucket, device_id
ORDER BY bucket`,
			len(args), aggExpr, table, where)

		return sql, args, nil
	}

	sql := fmt.Sprintf(
		`SELECT max(timestamp) AS t, device_id, %s FROM %s WHERE %s GROUP BY device_id`,
		aggExpr, table, where)

	return sql, args, nil
}

func aggregateExpr(agg models.Aggregate) (string, error) {
	switch agg {
	case models.AggregateMean:
		return "avg(value)", nil
	case models.AggregateMax:
		return "max(value)", nil
	case models.AggregateMin:
		return "min(value)", nil
	case models.AggregateLast:
		// last value by time within the group
		return "(array_agg(value ORDER BY timestamp DESC))[1]", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidAggregate, agg)
	}
}

// nowUTC allows tests to override the timestamp source.
//
//nolint:gochecknoglobals // test hooks need a package-level clock override.
var nowUTC = func() time.Time {
	return time.Now().UTC()
}
