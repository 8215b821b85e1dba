package operator

import (
	"iter"

	"github.com/jhh-labs/relq/internal/expr"
	"github.com/jhh-labs/relq/internal/record"
	"github.com/jhh-labs/relq/internal/schema"
)

// Selection outputs, among its input records, those that satisfy a
// predicate. A per-record evaluation failure (an unbound variable, a
// non-numeric string in a numeric context, and so on) is swallowed:
// the record is simply dropped rather than aborting the sequence.
type Selection struct {
	input     Operator
	evaluator *expr.Evaluator
}

// NewSelection parses predicate as a logical expression against
// input's output schema, failing with Parsing or UnboundVariable at
// construction time.
func NewSelection(input Operator, predicate string) (*Selection, error) {
	root, vars, err := expr.ParseLogical(predicate)
	if err != nil {
		return nil, err
	}
	ev, err := expr.New(root, vars, input.OutputSchema())
	if err != nil {
		return nil, err
	}
	return &Selection{input: input, evaluator: ev}, nil
}

func (s *Selection) OutputSchema() *schema.Schema { return s.input.OutputSchema() }

func (s *Selection) Stream() iter.Seq[*record.Record] {
	return func(yield func(*record.Record) bool) {
		for rec := range s.input.Stream() {
			out, err := s.evaluator.Evaluate(rec)
			if err != nil {
				continue
			}
			matched, ok := out.(bool)
			if !ok || !matched {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}
