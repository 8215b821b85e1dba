// Package record implements Record: a fixed-length, immutable tuple
// of values anchored to a Schema.
package record

import (
	"fmt"
	"strings"

	"github.com/jhh-labs/relq/internal/schema"
	"github.com/jhh-labs/relq/internal/value"
	"github.com/jhh-labs/relq/pkg/assert"
	"github.com/jhh-labs/relq/pkg/dberrors"
)

// Record is a fixed-length array of Values, parallel to its schema's
// positional attribute order. A Record is immutable after construction.
type Record struct {
	schema *schema.Schema
	values []value.Value
}

// New constructs a Record, failing with ArityMismatch if len(values)
// does not equal sch.Size().
func New(sch *schema.Schema, values ...value.Value) (*Record, error) {
	if len(values) != sch.Size() {
		return nil, dberrors.Newf(dberrors.ArityMismatch,
			"expected %d values, got %d", sch.Size(), len(values))
	}
	return newUnchecked(sch, values), nil
}

// newUnchecked builds a Record without an arity check, for call sites
// (operator output construction) that already guarantee the value
// count matches the schema by construction.
func newUnchecked(sch *schema.Schema, values []value.Value) *Record {
	assert.That(len(values) == sch.Size(), "record value count must match schema size")
	cp := make([]value.Value, len(values))
	copy(cp, values)
	return &Record{schema: sch, values: cp}
}

// NewUnchecked is the exported form of newUnchecked, for operators in
// sibling packages that build records whose arity they already
// guarantee (e.g. Projection and Aggregation output).
func NewUnchecked(sch *schema.Schema, values []value.Value) *Record {
	return newUnchecked(sch, values)
}

// Schema returns the Schema this Record is anchored to.
func (r *Record) Schema() *schema.Schema { return r.schema }

// Value returns the value at the given positional index.
func (r *Record) Value(index int) value.Value {
	return r.values[index]
}

// ValueByName returns the value of the named attribute, and false if
// the schema has no such attribute.
func (r *Record) ValueByName(name string) (value.Value, bool) {
	i, ok := r.schema.AttributeIndex(name)
	if !ok {
		return value.Value{}, false
	}
	return r.values[i], true
}

// Values returns the values of the named attributes, in the order
// given. Panics if any name is not an attribute of r's schema; callers
// resolve names against a schema ahead of time so this never fires on
// a well-formed pipeline.
func (r *Record) Values(names ...string) []value.Value {
	out := make([]value.Value, len(names))
	for i, name := range names {
		v, ok := r.ValueByName(name)
		assert.That(ok, fmt.Sprintf("record has no attribute %q", name))
		out[i] = v
	}
	return out
}

// Concatenate builds a Record over outSchema whose value at each
// attribute is r1's value if r1's schema holds that attribute,
// otherwise r2's. Natural join guarantees r1 and r2 agree on any
// attribute they share, so the "r1 wins" tie-break never surfaces a
// wrong value in practice.
func Concatenate(r1, r2 *Record, outSchema *schema.Schema) *Record {
	values := make([]value.Value, outSchema.Size())
	for i, name := range outSchema.AttributeNames() {
		if v, ok := r1.ValueByName(name); ok {
			values[i] = v
			continue
		}
		v, ok := r2.ValueByName(name)
		assert.That(ok, fmt.Sprintf("concatenation output attribute %q found in neither input", name))
		values[i] = v
	}
	return newUnchecked(outSchema, values)
}

// String renders the record as an ordered attribute=value map, the
// way the project has always rendered records.
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, name := range r.schema.AttributeNames() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%s", name, r.values[i].String())
	}
	b.WriteString("}")
	return b.String()
}
