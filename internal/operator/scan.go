package operator

import (
	"iter"

	"github.com/jhh-labs/relq/internal/record"
	"github.com/jhh-labs/relq/internal/schema"
	"github.com/jhh-labs/relq/internal/table"
)

// Scan provides the records stored in a Table, in the table's own key
// order. Unlike composed pipeline stages, a Scan can be consumed more
// than once: each Stream call re-reads the table.
type Scan struct {
	t *table.Table
}

// NewScan constructs a Scan over t.
func NewScan(t *table.Table) *Scan {
	return &Scan{t: t}
}

func (s *Scan) OutputSchema() *schema.Schema { return s.t.Schema() }

func (s *Scan) Stream() iter.Seq[*record.Record] {
	return s.t.All()
}
