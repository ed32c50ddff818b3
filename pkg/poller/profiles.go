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

// resourceProfile names the OIDs used to fetch CPU and memory figures for
// one equipment vendor. Adding a vendor is a table entry, not a branch.
type resourceProfile struct {
	// cpuOID is walked; the mean of its rows is the utilization percent.
	cpuOID string
	// memUsedOID and memFreeOID are walked and summed; utilization is
	// used/(used+free). Empty OIDs skip the memory figure.
	memUsedOID string
	memFreeOID string
	// memIsPercent marks memUsedOID as already carrying a percentage
	// (no free counterpart needed).
	memIsPercent bool
}

// resourceProfiles maps a device's vendor tag to its profile. Lookups
// fall back to the generic HOST-RESOURCES profile.
var resourceProfiles = map[string]resourceProfile{
	"cisco": {
		cpuOID:     oidCiscoCPUTotal5Sec,
		memUsedOID: oidCiscoMemPoolUsed,
		memFreeOID: oidCiscoMemPoolFree,
	},
	"juniper": {
		cpuOID:       oidJuniperCPU,
		memUsedOID:   oidJuniperMemory,
		memIsPercent: true,
	},
}

var genericResourceProfile = resourceProfile{
	cpuOID: oidHrProcessorLoad,
}

// profileFor returns the vendor's resource profile, or the generic
// fallback when the vendor tag has no entry.
func profileFor(vendor string) resourceProfile {
	if profile, ok := resourceProfiles[vendor]; ok {
		return profile
	}

	return genericResourceProfile
}
