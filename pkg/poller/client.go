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
	"fmt"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/netwatch-io/netwatch/pkg/models"
)

const (
	defaultSNMPPort    = 161
	defaultSNMPTimeout = 5 * time.Second
	defaultSNMPRetries = 2
)

// gosnmpClient wraps *gosnmp.GoSNMP behind the SNMPClient interface.
type gosnmpClient struct {
	conn *gosnmp.GoSNMP
}

func (c *gosnmpClient) Connect() error {
	return c.conn.Connect()
}

func (c *gosnmpClient) Get(oids []string) (*gosnmp.SnmpPacket, error) {
	return c.conn.Get(oids)
}

func (c *gosnmpClient) BulkWalk(rootOid string, walkFn gosnmp.WalkFunc) error {
	return c.conn.BulkWalk(rootOid, walkFn)
}

func (c *gosnmpClient) Close() error {
	if c.conn.Conn == nil {
		return nil
	}

	return c.conn.Conn.Close()
}

// defaultClientFactory builds gosnmp clients from device descriptors.
// Timeouts and retries are enforced here, at the transport level only;
// a failed cycle waits for its next scheduled tick.
type defaultClientFactory struct{}

func (*defaultClientFactory) CreateClient(device *models.Device) (SNMPClient, error) {
	port := device.Port
	if port == 0 {
		port = defaultSNMPPort
	}

	conn := &gosnmp.GoSNMP{
		Target:             device.Host,
		Port:               port,
		Timeout:            defaultSNMPTimeout,
		Retries:            defaultSNMPRetries,
		MaxOids:            gosnmp.MaxOids,
		MaxRepetitions:     10,
		ExponentialTimeout: true,
	}

	if err := configureClientVersion(conn, device); err != nil {
		return nil, err
	}

	return &gosnmpClient{conn: conn}, nil
}

// configureClientVersion sets up the SNMP client based on the device's
// protocol version.
func configureClientVersion(conn *gosnmp.GoSNMP, device *models.Device) error {
	switch device.Version {
	case models.SNMPv1:
		conn.Version = gosnmp.Version1
		conn.Community = device.Community
	case models.SNMPv2c:
		conn.Version = gosnmp.Version2c
		conn.Community = device.Community
	case models.SNMPv3:
		conn.Version = gosnmp.Version3

		usm := &gosnmp.UsmSecurityParameters{
			UserName: device.SecurityName,
		}

		configureV3Authentication(usm, device)
		configureV3Privacy(usm, device)

		conn.SecurityModel = gosnmp.UserSecurityModel
		conn.SecurityParameters = usm
		conn.MsgFlags = v3MsgFlags(device)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedSNMPVersion, device.Version)
	}

	return nil
}

func configureV3Authentication(usm *gosnmp.UsmSecurityParameters, device *models.Device) {
	switch device.AuthProtocol {
	case "MD5":
		usm.AuthenticationProtocol = gosnmp.MD5
	case "SHA":
		usm.AuthenticationProtocol = gosnmp.SHA
	case "SHA256":
		usm.AuthenticationProtocol = gosnmp.SHA256
	default:
		usm.AuthenticationProtocol = gosnmp.NoAuth
	}

	usm.AuthenticationPassphrase = device.AuthPassword
}

func configureV3Privacy(usm *gosnmp.UsmSecurityParameters, device *models.Device) {
	switch device.PrivProtocol {
	case "DES":
		usm.PrivacyProtocol = gosnmp.DES
	case "AES":
		usm.PrivacyProtocol = gosnmp.AES
	case "AES256":
		usm.PrivacyProtocol = gosnmp.AES256
	default:
		usm.PrivacyProtocol = gosnmp.NoPriv
	}

	usm.PrivacyPassphrase = device.PrivPassword
}

func v3MsgFlags(device *models.Device) gosnmp.SnmpV3MsgFlags {
	switch {
	case device.AuthProtocol != "" && device.PrivProtocol != "":
		return gosnmp.AuthPriv
	case device.AuthProtocol != "":
		return gosnmp.AuthNoPriv
	default:
		return gosnmp.NoAuthNoPriv
	}
}
