package expr

import (
	"github.com/jhh-labs/relq/internal/record"
	"github.com/jhh-labs/relq/internal/schema"
	"github.com/jhh-labs/relq/pkg/dberrors"
)

// Evaluator binds a record's attribute values into an expression
// tree's Variable leaves and evaluates it. Because binding mutates the
// tree's Variable nodes in place, an Evaluator (and the Node tree it
// wraps) must not be shared across goroutines; a parallel pipeline
// needs one Evaluator, built from its own parse, per worker.
type Evaluator struct {
	root    *Node
	vars    []*Node
	indices []int
}

// New resolves each variable leaf of root against sch, failing with
// UnboundVariable if any name has no corresponding attribute.
func New(root *Node, vars []*Node, sch *schema.Schema) (*Evaluator, error) {
	indices := make([]int, len(vars))
	for i, v := range vars {
		idx, ok := sch.AttributeIndex(v.Name)
		if !ok {
			return nil, dberrors.Newf(dberrors.UnboundVariable, "variable %q is not an attribute of the input schema", v.Name)
		}
		indices[i] = idx
	}
	return &Evaluator{root: root, vars: vars, indices: indices}, nil
}

// Evaluate binds r's attribute values into the wrapped expression's
// Variable leaves and evaluates it. The result is a value.Value for an
// arithmetic-rooted expression or a Go bool for a logical/comparison
// root.
func (e *Evaluator) Evaluate(r *record.Record) (any, error) {
	for i, v := range e.vars {
		v.Bind(r.Value(e.indices[i]))
	}
	return e.root.Evaluate()
}
