package operator

import (
	"iter"

	"github.com/jhh-labs/relq/internal/record"
	"github.com/jhh-labs/relq/internal/schema"
	"github.com/jhh-labs/relq/internal/table"
)

// NaturalJoin finds, for each record from its input, every matching
// record in a referenced Table and produces a concatenation of the
// two. Its output schema is every attribute of the input, then every
// attribute of the referenced table not already present.
type NaturalJoin struct {
	input            Operator
	referencedTable  *table.Table
	commonAttributes []string
	outputSchema     *schema.Schema
}

// NewNaturalJoin constructs a NaturalJoin between input and referencedTable.
func NewNaturalJoin(input Operator, referencedTable *table.Table) *NaturalJoin {
	common := input.OutputSchema().CommonAttributeNames(referencedTable.Schema())
	return &NaturalJoin{
		input:            input,
		referencedTable:  referencedTable,
		commonAttributes: common,
		outputSchema:     schema.Combine(input.OutputSchema(), referencedTable.Schema()),
	}
}

func (j *NaturalJoin) OutputSchema() *schema.Schema { return j.outputSchema }

func (j *NaturalJoin) Stream() iter.Seq[*record.Record] {
	return func(yield func(*record.Record) bool) {
		for inputRecord := range j.input.Stream() {
			for _, match := range j.referencedTable.MatchingRecords(inputRecord, j.commonAttributes) {
				out := record.Concatenate(inputRecord, match, j.outputSchema)
				if !yield(out) {
					return
				}
			}
		}
	}
}
