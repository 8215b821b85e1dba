package engine

import "github.com/jhh-labs/relq/internal/schema"

// SchemaBuilder accumulates a schema definition through chained
// calls, sticking on the first error so callers can chain freely and
// check Err once at the end.
type SchemaBuilder struct {
	schema *schema.Schema
	err    error
}

func newSchemaBuilder() *SchemaBuilder {
	return &SchemaBuilder{schema: schema.New()}
}

// Attribute appends an attribute to the schema being built. Fails
// with DuplicateAttribute on a repeated name.
func (b *SchemaBuilder) Attribute(name string) *SchemaBuilder {
	if b.err != nil {
		return b
	}
	b.err = b.schema.AddAttribute(name)
	return b
}

// Key sets the primary-key attribute list. Each name must already
// have been added via Attribute.
func (b *SchemaBuilder) Key(names ...string) *SchemaBuilder {
	if b.err != nil {
		return b
	}
	b.err = b.schema.SetKey(names...)
	return b
}

// Err returns the first error encountered while building, if any.
func (b *SchemaBuilder) Err() error { return b.err }

// Schema returns the schema built so far, regardless of Err.
func (b *SchemaBuilder) Schema() *schema.Schema { return b.schema }
