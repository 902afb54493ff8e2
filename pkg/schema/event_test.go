package schema

import (
	"testing"
	"time"

	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsEventV1(t *testing.T) {
	var eventSchema avro.Schema
	require.NotPanics(t, func() {
		eventSchema = AnalyticsEventV1Avro()
	})

	vMarshal := AnalyticsEventV1{
		Name:      "add_to_cart",
		SessionID: "testSessionID",
		Timestamp: time.UnixMilli(1705744800123).UTC(),
		Payload:   `{"productId":1,"quantity":2}`,
	}

	data, err := avro.Marshal(eventSchema, vMarshal)
	require.NoError(t, err)

	var vUnmarshal AnalyticsEventV1
	require.NoError(t, avro.Unmarshal(eventSchema, data, &vUnmarshal))

	assert.Equal(t, vMarshal.Name, vUnmarshal.Name)
	assert.Equal(t, vMarshal.SessionID, vUnmarshal.SessionID)
	assert.True(t, vMarshal.Timestamp.Equal(vUnmarshal.Timestamp))
	assert.JSONEq(t, vMarshal.Payload, vUnmarshal.Payload)
}
