package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStreamMessage(t *testing.T) {
	t.Run("nil payload leaves data empty", func(t *testing.T) {
		msg := NewStreamMessage(MessageTypePing, nil)
		assert.Equal(t, MessageTypePing, msg.Type)
		assert.Empty(t, msg.Data)
		assert.False(t, msg.Timestamp.IsZero())
	})

	t.Run("payload marshaled in place", func(t *testing.T) {
		msg := NewStreamMessage(MessageTypeConnect, ConnectPayload{ConnectionID: "c-1"})
		require.Equal(t, MessageTypeConnect, msg.Type)

		var payload ConnectPayload
		require.NoError(t, json.Unmarshal(msg.Data, &payload))
		assert.Equal(t, "c-1", payload.ConnectionID)
	})

	t.Run("unmarshalable payload becomes error message", func(t *testing.T) {
		msg := NewStreamMessage(MessageTypeMetricsData, func() {})
		assert.Equal(t, MessageTypeError, msg.Type)
		assert.NotEmpty(t, msg.Error)
	})
}

func TestMetricRecord_IsNumeric(t *testing.T) {
	numeric := &MetricRecord{Name: "sys_uptime", Value: 60}
	assert.True(t, numeric.IsNumeric())

	text := &MetricRecord{Name: "sys_name", StringValue: "core-sw1"}
	assert.False(t, text.IsNumeric())
}
