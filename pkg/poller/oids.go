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

// Common SNMP OIDs - defined as constants for clarity and maintainability
const (
	// System OIDs
	oidSysUptime   = ".1.3.6.1.2.1.1.3.0"
	oidSysName     = ".1.3.6.1.2.1.1.5.0"
	oidSysLocation = ".1.3.6.1.2.1.1.6.0"

	// Interface table OIDs
	oidIfNumber      = ".1.3.6.1.2.1.2.1.0"
	oidIfDescr       = ".1.3.6.1.2.1.2.2.1.2"
	oidIfSpeed       = ".1.3.6.1.2.1.2.2.1.5"
	oidIfAdminStatus = ".1.3.6.1.2.1.2.2.1.7"
	oidIfOperStatus  = ".1.3.6.1.2.1.2.2.1.8"
	oidIfInOctets    = ".1.3.6.1.2.1.2.2.1.10"
	oidIfInErrors    = ".1.3.6.1.2.1.2.2.1.14"
	oidIfOutOctets   = ".1.3.6.1.2.1.2.2.1.16"
	oidIfOutErrors   = ".1.3.6.1.2.1.2.2.1.20"

	// HOST-RESOURCES fallback
	oidHrProcessorLoad = ".1.3.6.1.2.1.25.3.3.1.2"

	// Cisco resource OIDs
	oidCiscoCPUTotal5Sec = ".1.3.6.1.4.1.9.9.109.1.1.1.1.7"
	oidCiscoMemPoolUsed  = ".1.3.6.1.4.1.9.9.48.1.1.1.5"
	oidCiscoMemPoolFree  = ".1.3.6.1.4.1.9.9.48.1.1.1.6"

	// Juniper resource OIDs
	oidJuniperCPU    = ".1.3.6.1.4.1.2636.3.1.13.1.8"
	oidJuniperMemory = ".1.3.6.1.4.1.2636.3.1.13.1.11"
)

// Canonical metric names emitted by the poll cycle.
const (
	metricSysUptime   = "sys_uptime"
	metricSysName     = "sys_name"
	metricSysLocation = "sys_location"

	metricIfAdminStatus = "if_admin_status"
	metricIfOperStatus  = "if_oper_status"
	metricIfSpeed       = "if_speed"
	metricIfInOctets    = "if_in_octets"
	metricIfOutOctets   = "if_out_octets"
	metricIfInErrors    = "if_in_errors"
	metricIfOutErrors   = "if_out_errors"

	metricCPUUtilization    = "cpu_utilization"
	metricMemoryUtilization = "memory_utilization"
)
