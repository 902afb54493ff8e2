package schema

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/sr"
)

// A SchemaIdentifier returns the registry id of the schema text
// under subject.
type SchemaIdentifier interface {
	DetermineID(ctx context.Context, subject string, avroSchemaText string) (int, error)
}

type schemaCreater interface {
	CreateSchema(ctx context.Context, subject string, s sr.Schema) (sr.SubjectSchema, error)
}

var _ SchemaIdentifier = SchemaRegistry{}

type SchemaRegistry struct {
	cl schemaCreater
}

func NewSchemaRegistry(cl schemaCreater) SchemaRegistry {
	return SchemaRegistry{cl}
}

// DetermineID registers the schema when the subject lacks it. The
// registry answers with the existing id for a known schema.
func (r SchemaRegistry) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (int, error) {
	const op = "SchemaRegistry.DetermineID"

	ss, err := r.cl.CreateSchema(ctx, subject, sr.Schema{
		Schema: avroSchemaText,
		Type:   sr.TypeAvro,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: subject %q: %w", op, subject, err)
	}
	return ss.ID, nil
}
