package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	t.Run("duration string", func(t *testing.T) {
		var d Duration
		require.NoError(t, json.Unmarshal([]byte(`"30s"`), &d))
		assert.Equal(t, 30*time.Second, time.Duration(d))
	})

	t.Run("nanosecond number", func(t *testing.T) {
		var d Duration
		require.NoError(t, json.Unmarshal([]byte(`60000000000`), &d))
		assert.Equal(t, time.Minute, time.Duration(d))
	})

	t.Run("bad string", func(t *testing.T) {
		var d Duration
		require.Error(t, json.Unmarshal([]byte(`"thirty seconds"`), &d))
	})

	t.Run("wrong type", func(t *testing.T) {
		var d Duration
		require.ErrorIs(t, json.Unmarshal([]byte(`true`), &d), errInvalidDuration)
	})
}

func TestDuration_MarshalRoundTrip(t *testing.T) {
	original := Duration(90 * time.Second)

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(data))

	var decoded Duration
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestCoreConfig_Unmarshal(t *testing.T) {
	raw := `{
		"listen_addr": ":8090",
		"database": {"dsn": "postgres://localhost/netwatch", "max_conns": 10},
		"ingestion": {"batch_size": 500, "flush_interval": "5s", "alarm_threshold": 20000},
		"snapshot_interval": "30s",
		"heartbeat": {"interval": "30s", "timeout": "90s"},
		"shutdown_timeout": "15s",
		"logging": {"level": "debug"}
	}`

	var cfg CoreConfig
	require.NoError(t, json.Unmarshal([]byte(raw), &cfg))

	assert.Equal(t, ":8090", cfg.ListenAddr)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, 500, cfg.Ingestion.BatchSize)
	assert.Equal(t, 5*time.Second, time.Duration(cfg.Ingestion.FlushInterval))
	assert.Equal(t, 90*time.Second, time.Duration(cfg.Heartbeat.Timeout))
	require.NotNil(t, cfg.Logging)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
