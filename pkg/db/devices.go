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
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/netwatch-io/netwatch/pkg/models"
)

const (
	selectDevicesSQL = `
SELECT id, host, port, community, version,
	security_name, auth_protocol, auth_password, priv_protocol, priv_password,
	poll_interval, vendor, enabled
FROM devices`

	upsertDeviceSQL = `
INSERT INTO devices (
	id, host, port, community, version,
	security_name, auth_protocol, auth_password, priv_protocol, priv_password,
	poll_interval, vendor, enabled, updated_at
) VALUES (
	$1,$2,$3,$4,$5,
	$6,$7,$8,$9,$10,
	$11,$12,$13,$14
)
ON CONFLICT (id) DO UPDATE SET
	host = EXCLUDED.host,
	port = EXCLUDED.port,
	community = EXCLUDED.community,
	version = EXCLUDED.version,
	security_name = EXCLUDED.security_name,
	auth_protocol = EXCLUDED.auth_protocol,
	auth_password = EXCLUDED.auth_password,
	priv_protocol = EXCLUDED.priv_protocol,
	priv_password = EXCLUDED.priv_password,
	poll_interval = EXCLUDED.poll_interval,
	vendor = EXCLUDED.vendor,
	enabled = EXCLUDED.enabled,
	updated_at = EXCLUDED.updated_at`

	deleteDeviceSQL = `DELETE FROM devices WHERE id = $1`
)

// ListDevices returns every configured device.
func (db *DB) ListDevices(ctx context.Context) ([]models.Device, error) {
	rows, err := db.pool.Query(ctx, selectDevicesSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	var devices []models.Device

	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}

		devices = append(devices, *device)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return devices, nil
}

// GetDevice returns one device or ErrDeviceNotFound.
func (db *DB) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	rows, err := db.pool.Query(ctx, selectDevicesSQL+` WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
		}

		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}

	return scanDevice(rows)
}

// UpsertDevice inserts or replaces a device row.
func (db *DB) UpsertDevice(ctx context.Context, device *models.Device) error {
	if device == nil {
		return ErrDeviceNil
	}

	if device.ID == "" {
		return ErrDeviceIDRequired
	}

	_, err := db.pool.Exec(ctx, upsertDeviceSQL,
		device.ID, device.Host, int32(device.Port), device.Community, string(device.Version),
		device.SecurityName, device.AuthProtocol, device.AuthPassword, device.PrivProtocol, device.PrivPassword,
		int64(device.PollInterval), device.Vendor, device.Enabled, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	return nil
}

// DeleteDevice removes a device row; missing rows are not an error so the
// registry can retire a device whose config row is already gone.
func (db *DB) DeleteDevice(ctx context.Context, id string) error {
	if id == "" {
		return ErrDeviceIDRequired
	}

	if _, err := db.pool.Exec(ctx, deleteDeviceSQL, id); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return nil
}

func scanDevice(rows pgx.Rows) (*models.Device, error) {
	var (
		device       models.Device
		port         int32
		version      string
		pollInterval int64
	)

	err := rows.Scan(
		&device.ID, &device.Host, &port, &device.Community, &version,
		&device.SecurityName, &device.AuthProtocol, &device.AuthPassword,
		&device.PrivProtocol, &device.PrivPassword,
		&pollInterval, &device.Vendor, &device.Enabled,
	)
	if err != nil {
		return nil, errors.Join(ErrFailedToScan, err)
	}

	device.Port = uint16(port)
	device.Version = models.SNMPVersion(version)
	device.PollInterval = models.Duration(pollInterval)

	return &device, nil
}
