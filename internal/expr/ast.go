package expr

import (
	"fmt"
	"strings"

	"github.com/jhh-labs/relq/internal/value"
	"github.com/jhh-labs/relq/pkg/dberrors"
)

// NodeKind tags which of the small set of expression-tree shapes a
// Node represents.
type NodeKind int

const (
	KindConstant NodeKind = iota
	KindVariable
	KindNegate
	KindArithmetic
	KindComparison
	KindLogical
)

// LogicalOp identifies AND/OR.
type LogicalOp int

const (
	And LogicalOp = iota
	Or
)

// Node is a single tagged node in an expression tree. Rather than a
// class per node shape, evaluation is a switch over Kind, per the
// small number of concrete shapes the grammar produces.
type Node struct {
	Kind NodeKind

	// KindConstant
	Const value.Value

	// KindVariable
	Name  string
	bound *value.Value // set by an Evaluator immediately before Evaluate

	// KindNegate, KindArithmetic, KindComparison, KindLogical
	ArithOp value.ArithOp
	CmpOp   value.CompareOp
	LogOp   LogicalOp
	Left    *Node
	Right   *Node
	Child   *Node
}

// Bind sets the value a Variable node evaluates to. Only meaningful on
// KindVariable nodes; an Evaluator calls this once per record for each
// distinct variable leaf before evaluating the tree that references
// it. Because this mutates the node in place, a single Node instance
// must not be evaluated concurrently from more than one goroutine —
// each concurrent task needs its own parse.
func (n *Node) Bind(v value.Value) {
	n.bound = &v
}

// Evaluate walks the tree rooted at n. The result is a value.Value for
// an arithmetic-rooted expression, or a Go bool for a logical- or
// comparison-rooted expression — mirroring the two result shapes the
// grammar in this package can produce.
func (n *Node) Evaluate() (any, error) {
	switch n.Kind {
	case KindConstant:
		return n.Const, nil
	case KindVariable:
		if n.bound == nil {
			return nil, dberrors.Newf(dberrors.UnboundVariable, "variable %q is not bound", n.Name)
		}
		return *n.bound, nil
	case KindNegate:
		cv, err := n.Child.evaluateValue()
		if err != nil {
			return nil, err
		}
		return value.Negate(cv)
	case KindArithmetic:
		lv, err := n.Left.evaluateValue()
		if err != nil {
			return nil, err
		}
		rv, err := n.Right.evaluateValue()
		if err != nil {
			return nil, err
		}
		return value.Arith(n.ArithOp, lv, rv)
	case KindComparison:
		lv, err := n.Left.evaluateValue()
		if err != nil {
			return nil, err
		}
		rv, err := n.Right.evaluateValue()
		if err != nil {
			return nil, err
		}
		return value.Compare(n.CmpOp, lv, rv)
	case KindLogical:
		lb, err := n.Left.evaluateBool()
		if err != nil {
			return nil, err
		}
		rb, err := n.Right.evaluateBool()
		if err != nil {
			return nil, err
		}
		if n.LogOp == And {
			return lb && rb, nil
		}
		return lb || rb, nil
	default:
		return nil, dberrors.Newf(dberrors.UnsupportedOperation, "unknown node kind %d", n.Kind)
	}
}

func (n *Node) evaluateValue() (value.Value, error) {
	out, err := n.Evaluate()
	if err != nil {
		return value.Value{}, err
	}
	v, ok := out.(value.Value)
	if !ok {
		return value.Value{}, dberrors.New(dberrors.UnsupportedOperation, "expected an arithmetic value")
	}
	return v, nil
}

func (n *Node) evaluateBool() (bool, error) {
	out, err := n.Evaluate()
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, dberrors.New(dberrors.UnsupportedOperation, "expected a boolean value")
	}
	return b, nil
}

// String renders a single node for debugging.
func (n *Node) String() string {
	switch n.Kind {
	case KindConstant:
		return n.Const.String()
	case KindVariable:
		if n.bound != nil {
			return fmt.Sprintf("%s=%s", n.Name, n.bound.String())
		}
		return n.Name
	case KindNegate:
		return "-"
	case KindArithmetic:
		return arithSymbol(n.ArithOp)
	case KindComparison:
		return cmpSymbol(n.CmpOp)
	case KindLogical:
		if n.LogOp == And {
			return "and"
		}
		return "or"
	default:
		return "?"
	}
}

// Debug writes an indented tree dump of the expression rooted at n.
func (n *Node) Debug(w *strings.Builder, indent int) {
	fmt.Fprintf(w, "%*s%s\n", indent, "", n.String())
	for _, child := range n.children() {
		child.Debug(w, indent+2)
	}
}

func (n *Node) children() []*Node {
	switch n.Kind {
	case KindNegate:
		return []*Node{n.Child}
	case KindArithmetic, KindComparison, KindLogical:
		return []*Node{n.Left, n.Right}
	default:
		return nil
	}
}

func arithSymbol(op value.ArithOp) string {
	switch op {
	case value.Add:
		return "+"
	case value.Sub:
		return "-"
	case value.Mul:
		return "*"
	case value.Div:
		return "/"
	default:
		return "?"
	}
}

func cmpSymbol(op value.CompareOp) string {
	switch op {
	case value.Eq:
		return "="
	case value.Neq:
		return "<>"
	case value.Lt:
		return "<"
	case value.Le:
		return "<="
	case value.Gt:
		return ">"
	case value.Ge:
		return ">="
	default:
		return "?"
	}
}
