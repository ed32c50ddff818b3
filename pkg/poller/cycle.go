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
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/netwatch-io/netwatch/pkg/models"
)

// runCycle performs one complete fetch-and-emit pass for a device. All
// records carry the timestamp taken at cycle start and leave as a single
// batch. System and interface failures fail the cycle; resource failures
// are logged and skipped.
func (p *Poller) runCycle(ctx context.Context, s *session) {
	start := p.clock.Now().UTC()
	device := s.device

	client, err := p.factory.CreateClient(&device)
	if err != nil {
		s.recordFailure(start, err)
		p.logger.Error().Err(err).Str("device_id", device.ID).Msg("Failed to create SNMP client")

		return
	}

	if err := client.Connect(); err != nil {
		wrapped := fmt.Errorf("%w: %w", ErrSNMPConnect, err)
		s.recordFailure(start, wrapped)
		p.logger.Warn().Err(err).Str("device_id", device.ID).Msg("Device unreachable")

		return
	}

	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			p.logger.Debug().Err(closeErr).Str("device_id", device.ID).Msg("Failed to close SNMP connection")
		}
	}()

	records, err := p.collectSystem(client, device.ID, start)
	if err != nil {
		s.recordFailure(start, err)
		p.logCycleFailure(device.ID, "system", err)

		return
	}

	if ctx.Err() != nil {
		return
	}

	ifRecords, err := p.collectInterfaces(client, device.ID, start)
	if err != nil {
		s.recordFailure(start, err)
		p.logCycleFailure(device.ID, "interfaces", err)

		return
	}

	records = append(records, ifRecords...)

	if ctx.Err() != nil {
		return
	}

	resRecords, err := p.collectResources(client, &device, start)
	if err != nil {
		// Non-fatal: resource metrics are best-effort per vendor.
		p.logger.Debug().Err(err).Str("device_id", device.ID).Msg("Resource metrics skipped")
	} else {
		records = append(records, resRecords...)
	}

	s.recordSuccess(start)
	p.emit(s, records)
}

// logCycleFailure logs unreachable and malformed responses distinctly so
// operators can tell a dead host from a broken agent.
func (p *Poller) logCycleFailure(deviceID, step string, err error) {
	event := p.logger.Warn()
	if errors.Is(err, ErrMalformedResponse) {
		event = p.logger.Error()
	}

	event.Err(err).
		Str("device_id", deviceID).
		Str("step", step).
		Msg("Poll cycle failed")
}

// collectSystem fetches the fixed system-identity scalars. Failure here
// aborts the whole cycle.
func (p *Poller) collectSystem(client SNMPClient, deviceID string, at time.Time) ([]*models.MetricRecord, error) {
	oids := []string{oidSysUptime, oidSysName, oidSysLocation}

	packet, err := client.Get(oids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSNMPGetFailed, err)
	}

	if packet.Error != gosnmp.NoError {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, packet.Error)
	}

	var records []*models.MetricRecord

	for _, v := range packet.Variables {
		if v.Type == gosnmp.NoSuchObject || v.Type == gosnmp.NoSuchInstance {
			continue
		}

		switch v.Name {
		case oidSysUptime:
			if v.Type == gosnmp.TimeTicks {
				// TimeTicks are hundredths of a second.
				seconds := float64(gosnmp.ToBigInt(v.Value).Int64()) / 100.0
				records = append(records, &models.MetricRecord{
					DeviceID: deviceID, Name: metricSysUptime, Value: seconds, Timestamp: at,
				})
			}
		case oidSysName:
			if text, ok := pduString(v); ok {
				records = append(records, &models.MetricRecord{
					DeviceID: deviceID, Name: metricSysName, StringValue: text, Timestamp: at,
				})
			}
		case oidSysLocation:
			if text, ok := pduString(v); ok {
				records = append(records, &models.MetricRecord{
					DeviceID: deviceID, Name: metricSysLocation, StringValue: text, Timestamp: at,
				})
			}
		}
	}

	if len(records) == 0 {
		return nil, ErrNoSNMPData
	}

	return records, nil
}

// interfaceColumn pairs a walked table column with its metric name.
type interfaceColumn struct {
	oid    string
	metric string
}

var interfaceColumns = []interfaceColumn{
	{oidIfAdminStatus, metricIfAdminStatus},
	{oidIfOperStatus, metricIfOperStatus},
	{oidIfSpeed, metricIfSpeed},
	{oidIfInOctets, metricIfInOctets},
	{oidIfOutOctets, metricIfOutOctets},
	{oidIfInErrors, metricIfInErrors},
	{oidIfOutErrors, metricIfOutErrors},
}

// collectInterfaces walks the interface table and correlates rows by
// interface index. Rows whose index has no ifDescr entry are dropped.
func (p *Poller) collectInterfaces(client SNMPClient, deviceID string, at time.Time) ([]*models.MetricRecord, error) {
	packet, err := client.Get([]string{oidIfNumber})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSNMPGetFailed, err)
	}

	count := int64(0)
	if len(packet.Variables) > 0 && packet.Variables[0].Type != gosnmp.NoSuchObject {
		count = gosnmp.ToBigInt(packet.Variables[0].Value).Int64()
	}

	if count == 0 {
		return nil, nil
	}

	descriptions := make(map[int]string)

	err = client.BulkWalk(oidIfDescr, func(pdu gosnmp.SnmpPDU) error {
		index, ok := tableIndex(oidIfDescr, pdu.Name)
		if !ok {
			return nil
		}

		if text, ok := pduString(pdu); ok {
			descriptions[index] = text
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSNMPWalkFailed, err)
	}

	var records []*models.MetricRecord

	for _, column := range interfaceColumns {
		column := column

		err = client.BulkWalk(column.oid, func(pdu gosnmp.SnmpPDU) error {
			index, ok := tableIndex(column.oid, pdu.Name)
			if !ok {
				return nil
			}

			descr, ok := descriptions[index]
			if !ok {
				// No matching description row: drop.
				return nil
			}

			value, ok := pduNumber(pdu)
			if !ok {
				return nil
			}

			records = append(records, &models.MetricRecord{
				DeviceID:  deviceID,
				Name:      column.metric,
				Value:     value,
				Timestamp: at,
				Tags: map[string]string{
					"if_index": strconv.Itoa(index),
					"if_descr": descr,
				},
			})

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSNMPWalkFailed, column.metric, err)
		}
	}

	return records, nil
}

// collectResources fetches CPU and memory utilization using the vendor's
// resource profile, falling back to the generic profile when the vendor
// one yields nothing. Returning no records at all is not an error.
func (p *Poller) collectResources(client SNMPClient, device *models.Device, at time.Time) ([]*models.MetricRecord, error) {
	profile := profileFor(device.Vendor)

	records, err := collectWithProfile(client, profile, device.ID, at)
	if err == nil && len(records) > 0 {
		return records, nil
	}

	if profile != genericResourceProfile {
		records, err = collectWithProfile(client, genericResourceProfile, device.ID, at)
		if err == nil && len(records) > 0 {
			return records, nil
		}
	}

	if err != nil {
		return nil, err
	}

	return nil, nil
}

func collectWithProfile(client SNMPClient, profile resourceProfile, deviceID string, at time.Time) ([]*models.MetricRecord, error) {
	var records []*models.MetricRecord

	if profile.cpuOID != "" {
		var sum float64

		var n int

		err := client.BulkWalk(profile.cpuOID, func(pdu gosnmp.SnmpPDU) error {
			if value, ok := pduNumber(pdu); ok {
				sum += value
				n++
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: cpu: %w", ErrSNMPWalkFailed, err)
		}

		if n > 0 {
			records = append(records, &models.MetricRecord{
				DeviceID: deviceID, Name: metricCPUUtilization, Value: sum / float64(n), Timestamp: at,
			})
		}
	}

	if memory, ok, err := collectMemory(client, profile); err != nil {
		return nil, err
	} else if ok {
		records = append(records, &models.MetricRecord{
			DeviceID: deviceID, Name: metricMemoryUtilization, Value: memory, Timestamp: at,
		})
	}

	return records, nil
}

func collectMemory(client SNMPClient, profile resourceProfile) (float64, bool, error) {
	if profile.memUsedOID == "" {
		return 0, false, nil
	}

	used, usedOK, err := walkSum(client, profile.memUsedOID)
	if err != nil {
		return 0, false, err
	}

	if !usedOK {
		return 0, false, nil
	}

	if profile.memIsPercent {
		return used, true, nil
	}

	free, freeOK, err := walkSum(client, profile.memFreeOID)
	if err != nil {
		return 0, false, err
	}

	if !freeOK || used+free == 0 {
		return 0, false, nil
	}

	return used / (used + free) * 100.0, true, nil
}

func walkSum(client SNMPClient, oid string) (float64, bool, error) {
	var sum float64

	var n int

	err := client.BulkWalk(oid, func(pdu gosnmp.SnmpPDU) error {
		if value, ok := pduNumber(pdu); ok {
			sum += value
			n++
		}

		return nil
	})
	if err != nil {
		return 0, false, fmt.Errorf("%w: memory: %w", ErrSNMPWalkFailed, err)
	}

	return sum, n > 0, nil
}

// tableIndex extracts the row index from a walked table OID name.
func tableIndex(columnOID, pduName string) (int, bool) {
	suffix := strings.TrimPrefix(pduName, columnOID+".")
	if suffix == pduName {
		// Some agents return names without the leading dot.
		suffix = strings.TrimPrefix(pduName, strings.TrimPrefix(columnOID, ".")+".")
		if suffix == pduName {
			return 0, false
		}
	}

	index, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}

	return index, true
}

// pduString extracts a string value from an OctetString PDU.
func pduString(v gosnmp.SnmpPDU) (string, bool) {
	if v.Type != gosnmp.OctetString {
		return "", false
	}

	bytes, ok := v.Value.([]byte)
	if !ok {
		return "", false
	}

	return string(bytes), true
}

// pduNumber extracts a numeric value from an integer-family PDU.
func pduNumber(v gosnmp.SnmpPDU) (float64, bool) {
	switch v.Type {
	case gosnmp.Integer, gosnmp.Counter32, gosnmp.Counter64,
		gosnmp.Gauge32, gosnmp.TimeTicks, gosnmp.Uinteger32:
		return float64(gosnmp.ToBigInt(v.Value).Int64()), true
	default:
		return 0, false
	}
}
