// Package value implements the engine's runtime value union: a
// tagged variant over integer, floating, and string data, together
// with the numeric coercion and comparison rules the rest of the
// engine relies on.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jhh-labs/relq/pkg/dberrors"
)

// Kind tags which variant a Value holds.
type Kind int

const (
	Int Kind = iota
	Float
	String
)

// Value is a runtime-tagged variant over {integer, floating, string}.
// The zero Value is the integer 0; use the constructors below to build
// one deliberately.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// OfInt constructs an integer Value.
func OfInt(i int64) Value { return Value{kind: Int, i: i} }

// OfFloat constructs a floating Value.
func OfFloat(f float64) Value { return Value{kind: Float, f: f} }

// OfString constructs a string Value.
func OfString(s string) Value { return Value{kind: String, s: s} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNumeric reports whether v is an integer or floating value.
func (v Value) IsNumeric() bool { return v.kind == Int || v.kind == Float }

// Int returns the integer payload of v. It is only meaningful when
// v.Kind() == Int.
func (v Value) Int() int64 { return v.i }

// Float returns the floating payload of v. It is only meaningful when
// v.Kind() == Float.
func (v Value) Float() float64 { return v.f }

// Str returns the string payload of v. It is only meaningful when
// v.Kind() == String.
func (v Value) Str() string { return v.s }

// String renders v the way records print their attribute values.
// Floating values follow the same decimal-vs-scientific threshold as
// the source's floating-point printing: plain decimal notation for
// magnitudes in [1e-3, 1e7), scientific notation outside that range.
func (v Value) String() string {
	switch v.kind {
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return formatFloat(v.f)
	case String:
		return v.s
	default:
		return fmt.Sprintf("<invalid value kind %d>", v.kind)
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	abs := math.Abs(f)
	if f == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	return formatScientific(f)
}

func formatScientific(f float64) string {
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, expPart, _ := strings.Cut(s, "e")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	sign := expPart[0]
	digits := strings.TrimLeft(expPart[1:], "0")
	if digits == "" {
		digits = "0"
	}
	if sign == '-' {
		return mantissa + "E-" + digits
	}
	return mantissa + "E" + digits
}

// From converts a host Go value into a Value, accepting the same
// shapes Table.InsertRecord is given by callers.
func From(x any) (Value, error) {
	switch t := x.(type) {
	case Value:
		return t, nil
	case int:
		return OfInt(int64(t)), nil
	case int32:
		return OfInt(int64(t)), nil
	case int64:
		return OfInt(t), nil
	case float32:
		return OfFloat(float64(t)), nil
	case float64:
		return OfFloat(t), nil
	case string:
		return OfString(t), nil
	default:
		return Value{}, dberrors.Newf(dberrors.NumberFormat, "cannot represent %T as a value", x)
	}
}

// ParseLexeme converts a token's lexeme into a Value using the same
// lexical rule numeric literals follow: all-digits is an integer,
// exactly one embedded '.' is floating, anything else is a string.
func ParseLexeme(lexeme string) Value {
	if isAllDigits(lexeme) {
		i, err := strconv.ParseInt(lexeme, 10, 64)
		if err == nil {
			return OfInt(i)
		}
	} else if isFloatLexeme(lexeme) {
		f, err := strconv.ParseFloat(lexeme, 64)
		if err == nil {
			return OfFloat(f)
		}
	}
	return OfString(lexeme)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isFloatLexeme(s string) bool {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return false
	}
	whole, frac := s[:dot], s[dot+1:]
	return whole != "" && frac != "" && isAllDigits(whole) && isAllDigits(frac)
}

// AsNumber parses a Value into a numeric Value using the same lexical
// rules as numeric literals, failing with NumberFormat if it cannot.
func AsNumber(v Value) (Value, error) {
	switch v.kind {
	case Int, Float:
		return v, nil
	case String:
		if isAllDigits(v.s) {
			if i, err := strconv.ParseInt(v.s, 10, 64); err == nil {
				return OfInt(i), nil
			}
		}
		if isFloatLexeme(v.s) {
			if f, err := strconv.ParseFloat(v.s, 64); err == nil {
				return OfFloat(f), nil
			}
		}
		return Value{}, dberrors.Newf(dberrors.NumberFormat, "%q is not a number", v.s)
	default:
		return Value{}, dberrors.Newf(dberrors.NumberFormat, "invalid value kind %d", v.kind)
	}
}

// Negate returns -v, coercing a string operand to numeric first.
func Negate(v Value) (Value, error) {
	n, err := AsNumber(v)
	if err != nil {
		return Value{}, err
	}
	if n.kind == Int {
		return OfInt(-n.i), nil
	}
	return OfFloat(-n.f), nil
}

// ArithOp identifies a binary arithmetic operator.
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
)

// Arith applies op to l and r, coercing both to numeric first and
// following the integer/floating promotion rule: the result is
// integer only if both operands are integer.
func Arith(op ArithOp, l, r Value) (Value, error) {
	ln, err := AsNumber(l)
	if err != nil {
		return Value{}, err
	}
	rn, err := AsNumber(r)
	if err != nil {
		return Value{}, err
	}
	if ln.kind == Int && rn.kind == Int {
		switch op {
		case Add:
			return OfInt(ln.i + rn.i), nil
		case Sub:
			return OfInt(ln.i - rn.i), nil
		case Mul:
			return OfInt(ln.i * rn.i), nil
		case Div:
			if rn.i == 0 {
				return Value{}, dberrors.New(dberrors.UnsupportedOperation, "integer division by zero")
			}
			return OfInt(ln.i / rn.i), nil
		}
	}
	lf, rf := toFloat(ln), toFloat(rn)
	switch op {
	case Add:
		return OfFloat(lf + rf), nil
	case Sub:
		return OfFloat(lf - rf), nil
	case Mul:
		return OfFloat(lf * rf), nil
	case Div:
		return OfFloat(lf / rf), nil
	}
	return Value{}, dberrors.New(dberrors.UnsupportedOperation, "unknown arithmetic operator")
}

func toFloat(v Value) float64 {
	if v.kind == Int {
		return float64(v.i)
	}
	return v.f
}

// CompareOp identifies a binary comparison operator.
type CompareOp int

const (
	Eq CompareOp = iota
	Neq
	Lt
	Le
	Gt
	Ge
)

// Compare evaluates l op r. If either operand is a string, Eq/Neq
// compare as strings (true only when both operands are strings with
// equal contents); every other comparison coerces both operands to
// numeric first.
func Compare(op CompareOp, l, r Value) (bool, error) {
	if op == Eq || op == Neq {
		if l.kind == String || r.kind == String {
			eq := l.kind == String && r.kind == String && l.s == r.s
			if op == Neq {
				return !eq, nil
			}
			return eq, nil
		}
	}
	ln, err := AsNumber(l)
	if err != nil {
		return false, err
	}
	rn, err := AsNumber(r)
	if err != nil {
		return false, err
	}
	c := compareNumeric(ln, rn)
	switch op {
	case Eq:
		return c == 0, nil
	case Neq:
		return c != 0, nil
	case Lt:
		return c < 0, nil
	case Le:
		return c <= 0, nil
	case Gt:
		return c > 0, nil
	case Ge:
		return c >= 0, nil
	default:
		return false, dberrors.New(dberrors.UnsupportedOperation, "unknown comparison operator")
	}
}

func compareNumeric(l, r Value) int {
	if l.kind == Int && r.kind == Int {
		switch {
		case l.i < r.i:
			return -1
		case l.i > r.i:
			return 1
		default:
			return 0
		}
	}
	lf, rf := toFloat(l), toFloat(r)
	switch {
	case lf < rf:
		return -1
	case lf > rf:
		return 1
	default:
		return 0
	}
}

// TotalCompare imposes the total order used by a Table's key index and
// by min/max accumulators: numerics compare numerically, strings
// compare lexicographically. Comparing a string against a numeric
// Value is undefined behavior in principle (mixed keys are the
// caller's responsibility); this falls back to comparing their
// String() forms rather than panicking.
func TotalCompare(l, r Value) int {
	if l.kind == String && r.kind == String {
		return strings.Compare(l.s, r.s)
	}
	if l.IsNumeric() && r.IsNumeric() {
		return compareNumeric(l, r)
	}
	return strings.Compare(l.String(), r.String())
}

// Equal reports whether two values represent the same value for the
// purposes of natural-join attribute matching (exact kind and payload
// equality after promoting mixed numerics).
func Equal(l, r Value) bool {
	if l.kind == String || r.kind == String {
		return l.kind == String && r.kind == String && l.s == r.s
	}
	return compareNumeric(l, r) == 0
}
