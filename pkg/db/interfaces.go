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

//go:generate mockgen -destination=mock_db.go -package=db github.com/netwatch-io/netwatch/pkg/db Service

package db

import (
	"context"

	"github.com/netwatch-io/netwatch/pkg/models"
)

// Service is the metadata store contract: device and alert-rule
// configuration plus the alert bookkeeping the snapshot task reads.
type Service interface {
	ListDevices(ctx context.Context) ([]models.Device, error)
	GetDevice(ctx context.Context, id string) (*models.Device, error)
	UpsertDevice(ctx context.Context, device *models.Device) error
	DeleteDevice(ctx context.Context, id string) error

	ListAlertRules(ctx context.Context) ([]models.AlertRule, error)
	UpsertAlertRule(ctx context.Context, rule *models.AlertRule) error
	CountActiveAlerts(ctx context.Context) (int, error)

	Close()
}
