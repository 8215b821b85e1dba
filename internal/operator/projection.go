package operator

import (
	"iter"

	"github.com/jhh-labs/relq/internal/expr"
	"github.com/jhh-labs/relq/internal/record"
	"github.com/jhh-labs/relq/internal/schema"
	"github.com/jhh-labs/relq/internal/value"
	"github.com/jhh-labs/relq/pkg/dberrors"
)

// AttributeDefinition names one output attribute of a Projection and
// the arithmetic expression that computes its value.
type AttributeDefinition struct {
	Name       string
	Expression string
}

// Projection converts each input record into an output record with
// exactly the attributes named in its attribute definitions, in order.
type Projection struct {
	input        Operator
	evaluators   []*expr.Evaluator
	outputSchema *schema.Schema
	err          error
}

// NewProjection parses each definition's expression against input's
// output schema, failing with Parsing/UnboundVariable, or
// DuplicateAttribute if two definitions share an output name.
func NewProjection(input Operator, defs []AttributeDefinition) (*Projection, error) {
	outSchema := schema.New()
	evaluators := make([]*expr.Evaluator, 0, len(defs))
	for _, def := range defs {
		if err := outSchema.AddAttribute(def.Name); err != nil {
			return nil, err
		}
		root, vars, err := expr.ParseArithmetic(def.Expression)
		if err != nil {
			return nil, err
		}
		ev, err := expr.New(root, vars, input.OutputSchema())
		if err != nil {
			return nil, err
		}
		evaluators = append(evaluators, ev)
	}
	return &Projection{input: input, evaluators: evaluators, outputSchema: outSchema}, nil
}

func (p *Projection) OutputSchema() *schema.Schema { return p.outputSchema }

// Err returns the error, if any, that ended the most recently consumed
// Stream early.
func (p *Projection) Err() error { return p.err }

func (p *Projection) Stream() iter.Seq[*record.Record] {
	return func(yield func(*record.Record) bool) {
		p.err = nil
		for rec := range p.input.Stream() {
			values := make([]value.Value, len(p.evaluators))
			ok := true
			for i, ev := range p.evaluators {
				out, err := ev.Evaluate(rec)
				if err != nil {
					p.err = err
					ok = false
					break
				}
				v, isValue := out.(value.Value)
				if !isValue {
					p.err = dberrors.New(dberrors.UnsupportedOperation, "projection expression did not produce a value")
					ok = false
					break
				}
				values[i] = v
			}
			if !ok {
				return
			}
			if !yield(record.NewUnchecked(p.outputSchema, values)) {
				return
			}
		}
	}
}
