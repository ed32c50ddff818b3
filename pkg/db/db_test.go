package db

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netwatch-io/netwatch/pkg/logger"
	"github.com/netwatch-io/netwatch/pkg/models"
)

func TestNew_RejectsBadDSN(t *testing.T) {
	cfg := &models.DatabaseConfig{DSN: "not a dsn ::"}

	_, err := New(context.Background(), cfg, logger.NewTestLogger())
	require.ErrorIs(t, err, ErrFailedOpenDB)
}

func TestUpsertDevice_Validation(t *testing.T) {
	database := NewWithPool(nil, logger.NewTestLogger())

	require.ErrorIs(t, database.UpsertDevice(context.Background(), nil), ErrDeviceNil)
	require.ErrorIs(t, database.UpsertDevice(context.Background(), &models.Device{}), ErrDeviceIDRequired)
}

func TestDeleteDevice_RequiresID(t *testing.T) {
	database := NewWithPool(nil, logger.NewTestLogger())

	require.ErrorIs(t, database.DeleteDevice(context.Background(), ""), ErrDeviceIDRequired)
}

func TestUpsertAlertRule_Validation(t *testing.T) {
	database := NewWithPool(nil, logger.NewTestLogger())

	require.ErrorIs(t, database.UpsertAlertRule(context.Background(), nil), ErrAlertRuleNil)
}

func TestSchemaStatements_CreateExpectedTables(t *testing.T) {
	for _, table := range []string{"devices", "alert_rules", "alerts", "users"} {
		found := false

		for _, stmt := range schemaStatements {
			if strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS "+table+" ") {
				found = true
				break
			}
		}

		assert.True(t, found, "no CREATE TABLE statement for %s", table)
	}
}
