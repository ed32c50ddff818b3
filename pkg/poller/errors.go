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

import "errors"

var (
	ErrDeviceExists   = errors.New("device already registered")
	ErrDeviceNotFound = errors.New("device not registered")

	ErrSNMPConnect       = errors.New("snmp connect failed")
	ErrSNMPGetFailed     = errors.New("snmp get failed")
	ErrSNMPWalkFailed    = errors.New("snmp walk failed")
	ErrMalformedResponse = errors.New("malformed snmp response")
	ErrNoSNMPData        = errors.New("no snmp data returned")

	ErrUnsupportedSNMPVersion = errors.New("unsupported snmp version")
	ErrPollerStopped          = errors.New("poller is stopped")
)
