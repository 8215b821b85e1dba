package expr

import (
	"strings"

	"github.com/jhh-labs/relq/internal/value"
	"github.com/jhh-labs/relq/pkg/dberrors"
)

// parser walks a fixed token slice with a single cursor, in the same
// hand-rolled recursive-descent style the project's query parser has
// always used, just over a token stream instead of raw bytes.
type parser struct {
	tokens []Token
	idx    int
	vars   map[string]*Node
	order  []*Node
}

// ParseArithmetic parses s as an arithmetic expression (the
// `arithmetic` grammar rule) and returns its AST root plus the ordered,
// de-duplicated list of Variable leaves encountered.
func ParseArithmetic(s string) (*Node, []*Node, error) {
	p, err := newParser(s)
	if err != nil {
		return nil, nil, err
	}
	node, err := p.parseArithmetic()
	if err != nil {
		return nil, nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, nil, err
	}
	return node, p.order, nil
}

// ParseLogical parses s as a logical expression (the `logical` grammar
// rule, i.e. starting at `or_expr`) and returns its AST root plus the
// ordered, de-duplicated list of Variable leaves encountered.
func ParseLogical(s string) (*Node, []*Node, error) {
	p, err := newParser(s)
	if err != nil {
		return nil, nil, err
	}
	node, err := p.parseLogical()
	if err != nil {
		return nil, nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, nil, err
	}
	return node, p.order, nil
}

func newParser(s string) (*parser, error) {
	tokens, err := Tokenize(s)
	if err != nil {
		return nil, err
	}
	return &parser{tokens: tokens, vars: map[string]*Node{}}, nil
}

func (p *parser) peek() Token { return p.tokens[p.idx] }

func (p *parser) advance() Token {
	t := p.tokens[p.idx]
	if t.Kind != TokEOF {
		p.idx++
	}
	return t
}

func (p *parser) expectEOF() error {
	if p.peek().Kind != TokEOF {
		return dberrors.Newf(dberrors.Parsing, "unexpected token %q", p.peek().Text)
	}
	return nil
}

func (p *parser) expectSymbol(sym string) bool {
	t := p.peek()
	if t.Kind == TokSymbol && t.Text == sym {
		p.idx++
		return true
	}
	return false
}

// parseLogical := or_expr
func (p *parser) parseLogical() (*Node, error) {
	return p.parseOr()
}

// or_expr := and_expr ( 'or' and_expr )*
func (p *parser) parseOr() (*Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: KindLogical, LogOp: Or, Left: left, Right: right}
	}
	return left, nil
}

// and_expr := comparison ( 'and' comparison )*
func (p *parser) parseAnd() (*Node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokAnd {
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: KindLogical, LogOp: And, Left: left, Right: right}
	}
	return left, nil
}

var comparisonOps = map[string]value.CompareOp{
	"<=": value.Le,
	">=": value.Ge,
	"<>": value.Neq,
	"=":  value.Eq,
	"<":  value.Lt,
	">":  value.Gt,
}

// comparison := arithmetic ( ('=' | '<>' | '<' | '<=' | '>' | '>=') arithmetic )?
func (p *parser) parseComparison() (*Node, error) {
	left, err := p.parseArithmetic()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.Kind != TokSymbol {
		return left, nil
	}
	op, ok := comparisonOps[t.Text]
	if !ok {
		return left, nil
	}
	p.advance()
	right, err := p.parseArithmetic()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KindComparison, CmpOp: op, Left: left, Right: right}, nil
}

// arithmetic := term ( ('+' | '-') term )*
func (p *parser) parseArithmetic() (*Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.Kind != TokSymbol || (t.Text != "+" && t.Text != "-") {
			return left, nil
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		op := value.Add
		if t.Text == "-" {
			op = value.Sub
		}
		left = &Node{Kind: KindArithmetic, ArithOp: op, Left: left, Right: right}
	}
}

// term := factor ( ('*' | '/') factor )*
func (p *parser) parseTerm() (*Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.Kind != TokSymbol || (t.Text != "*" && t.Text != "/") {
			return left, nil
		}
		p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		op := value.Mul
		if t.Text == "/" {
			op = value.Div
		}
		left = &Node{Kind: KindArithmetic, ArithOp: op, Left: left, Right: right}
	}
}

// factor := '-' factor | primary
func (p *parser) parseFactor() (*Node, error) {
	if p.expectSymbol("-") {
		child, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindNegate, Child: child}, nil
	}
	return p.parsePrimary()
}

// primary := number | string | identifier | '(' logical ')'
func (p *parser) parsePrimary() (*Node, error) {
	t := p.peek()
	switch t.Kind {
	case TokNumber:
		p.advance()
		return &Node{Kind: KindConstant, Const: value.ParseLexeme(t.Text)}, nil
	case TokString:
		p.advance()
		return &Node{Kind: KindConstant, Const: value.OfString(t.Text)}, nil
	case TokIdent:
		p.advance()
		return p.variable(t.Text), nil
	case TokSymbol:
		if t.Text == "(" {
			p.advance()
			node, err := p.parseLogical()
			if err != nil {
				return nil, err
			}
			if !p.expectSymbol(")") {
				return nil, dberrors.New(dberrors.Parsing, "expected closing parenthesis")
			}
			return node, nil
		}
	}
	return nil, dberrors.Newf(dberrors.Parsing, "unexpected token %q", describeToken(t))
}

// variable returns the Variable Node for name, reusing the existing
// instance for a name already seen so that a single Bind call updates
// every occurrence.
func (p *parser) variable(name string) *Node {
	if n, ok := p.vars[name]; ok {
		return n
	}
	n := &Node{Kind: KindVariable, Name: name}
	p.vars[name] = n
	p.order = append(p.order, n)
	return n
}

func describeToken(t Token) string {
	if t.Kind == TokEOF {
		return "end of input"
	}
	return strings.TrimSpace(t.Text)
}
