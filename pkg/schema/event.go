package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const AnalyticsEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "shopsphere.analytics",
	"name": "event",
	"fields" : [
		{"name": "name", "type": "string"},
		{"name": "session_id", "type": "string"},
		{"name": "timestamp", "type": {"type": "long", "logicalType": "timestamp-millis"}},
		{"name": "payload", "type": "string"}
	]
}`

// AnalyticsEventV1 is the wire form of an analytics event.
// Payload holds the event payload as a JSON object.
type AnalyticsEventV1 struct {
	Name      string    `avro:"name"`
	SessionID string    `avro:"session_id"`
	Timestamp time.Time `avro:"timestamp"`
	Payload   string    `avro:"payload"`
}

// AnalyticsEventV1Avro panics on a malformed schema text.
func AnalyticsEventV1Avro() avro.Schema {
	return avro.MustParse(AnalyticsEventSchemaTextV1)
}
