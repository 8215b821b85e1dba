// Package operator implements the relational operator pipeline: Scan,
// NaturalJoin, Selection, Projection, and Aggregation. Every operator
// exposes its output schema eagerly at construction and a factory for
// a lazy, single-pass, finite sequence of records.
package operator

import (
	"iter"

	"github.com/jhh-labs/relq/internal/record"
	"github.com/jhh-labs/relq/internal/schema"
)

// Operator processes Records and produces Records.
type Operator interface {
	// OutputSchema returns the schema of the records this Operator
	// produces, computed eagerly at construction.
	OutputSchema() *schema.Schema
	// Stream returns a fresh, lazy, single-pass sequence of this
	// Operator's output records. Consuming code pulls; operators never
	// prefetch ahead of what a range loop asks for.
	Stream() iter.Seq[*record.Record]
}

// erroring is implemented by operators (Projection, Aggregation) whose
// Stream can end early because a per-record evaluation failed, in the
// style of bufio.Scanner's trailing Err method: range over Stream()
// until it stops yielding, then check Err.
type erroring interface {
	Err() error
}

// Err returns the error, if any, that caused op's most recently
// consumed Stream to end before its input was exhausted. It returns
// nil for operators that cannot fail mid-stream.
func Err(op Operator) error {
	if e, ok := op.(erroring); ok {
		return e.Err()
	}
	return nil
}
