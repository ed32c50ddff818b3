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

package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/netwatch-io/netwatch/pkg/models"
)

const (
	selectAlertRulesSQL = `
SELECT id, device_id, metric, condition, threshold, enabled, created_at
FROM alert_rules`

	upsertAlertRuleSQL = `
INSERT INTO alert_rules (id, device_id, metric, condition, threshold, enabled, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
	device_id = EXCLUDED.device_id,
	metric = EXCLUDED.metric,
	condition = EXCLUDED.condition,
	threshold = EXCLUDED.threshold,
	enabled = EXCLUDED.enabled`

	countActiveAlertsSQL = `SELECT count(*) FROM alerts WHERE active`
)

// ListAlertRules returns the configured alert rules. Rule evaluation
// itself lives outside the core; these rows only feed bookkeeping.
func (db *DB) ListAlertRules(ctx context.Context) ([]models.AlertRule, error) {
	rows, err := db.pool.Query(ctx, selectAlertRulesSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	var rules []models.AlertRule

	for rows.Next() {
		var rule models.AlertRule

		err := rows.Scan(&rule.ID, &rule.DeviceID, &rule.Metric, &rule.Condition,
			&rule.Threshold, &rule.Enabled, &rule.CreatedAt)
		if err != nil {
			return nil, errors.Join(ErrFailedToScan, err)
		}

		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return rules, nil
}

// UpsertAlertRule inserts or replaces an alert rule, assigning an id when
// the caller left it empty.
func (db *DB) UpsertAlertRule(ctx context.Context, rule *models.AlertRule) error {
	if rule == nil {
		return ErrAlertRuleNil
	}

	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}

	_, err := db.pool.Exec(ctx, upsertAlertRuleSQL,
		rule.ID, rule.DeviceID, rule.Metric, rule.Condition,
		rule.Threshold, rule.Enabled, rule.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	return nil
}

// CountActiveAlerts returns the number of currently firing alerts for the
// broadcast snapshot.
func (db *DB) CountActiveAlerts(ctx context.Context) (int, error) {
	var count int

	if err := db.pool.QueryRow(ctx, countActiveAlertsSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return count, nil
}
