package operator

import (
	"iter"
	"strings"

	"github.com/jhh-labs/relq/internal/record"
	"github.com/jhh-labs/relq/internal/schema"
	"github.com/jhh-labs/relq/internal/value"
	"github.com/jhh-labs/relq/pkg/dberrors"
)

// AggregateFunc names one of the five built-in aggregate functions.
type AggregateFunc int

const (
	Count AggregateFunc = iota
	Sum
	Avg
	Min
	Max
)

// AggregateSpec names an aggregate function applied to an input
// attribute, and the output attribute it produces.
type AggregateSpec struct {
	Func       AggregateFunc
	Argument   string
	OutputName string
}

// Accumulator ingests Values one at a time and produces a single
// result. Merge combines two accumulators' states as if they had
// each processed the other's inputs, for a hypothetical parallel
// collector.
type Accumulator interface {
	Update(v value.Value)
	Merge(other Accumulator)
	Result() value.Value
}

type countAcc struct{ n int64 }

func (a *countAcc) Update(value.Value)     { a.n++ }
func (a *countAcc) Merge(other Accumulator) { a.n += other.(*countAcc).n }
func (a *countAcc) Result() value.Value    { return value.OfInt(a.n) }

type sumAcc struct {
	set   bool
	i     int64
	f     float64
	float bool
}

func (a *sumAcc) Update(v value.Value) {
	if !a.set {
		a.set = true
		if v.Kind() == value.Float {
			a.float = true
			a.f = v.Float()
		} else {
			a.i = v.Int()
		}
		return
	}
	if a.float || v.Kind() == value.Float {
		if !a.float {
			a.f = float64(a.i)
			a.float = true
		}
		a.f += toFloatValue(v)
		return
	}
	a.i += v.Int()
}

func (a *sumAcc) Merge(other Accumulator) {
	o := other.(*sumAcc)
	if !o.set {
		return
	}
	a.Update(o.Result())
}

func (a *sumAcc) Result() value.Value {
	if !a.set {
		return value.OfInt(0)
	}
	if a.float {
		return value.OfFloat(a.f)
	}
	return value.OfInt(a.i)
}

func toFloatValue(v value.Value) float64 {
	if v.Kind() == value.Float {
		return v.Float()
	}
	return float64(v.Int())
}

type avgAcc struct {
	sum   sumAcc
	count int64
}

func (a *avgAcc) Update(v value.Value) {
	a.sum.Update(v)
	a.count++
}

func (a *avgAcc) Merge(other Accumulator) {
	o := other.(*avgAcc)
	a.sum.Merge(&o.sum)
	a.count += o.count
}

func (a *avgAcc) Result() value.Value {
	if a.count == 0 {
		return value.OfInt(0)
	}
	sum := a.sum.Result()
	if sum.Kind() == value.Int {
		return value.OfInt(sum.Int() / a.count)
	}
	return value.OfFloat(sum.Float() / float64(a.count))
}

type extremeAcc struct {
	set    bool
	best   value.Value
	wantMax bool
}

func (a *extremeAcc) Update(v value.Value) {
	if !a.set {
		a.set = true
		a.best = v
		return
	}
	cmp := value.TotalCompare(v, a.best)
	if (a.wantMax && cmp > 0) || (!a.wantMax && cmp < 0) {
		a.best = v
	}
}

func (a *extremeAcc) Merge(other Accumulator) {
	o := other.(*extremeAcc)
	if !o.set {
		return
	}
	a.Update(o.best)
}

func (a *extremeAcc) Result() value.Value {
	if !a.set {
		return value.OfInt(0)
	}
	return a.best
}

func newAccumulator(fn AggregateFunc) Accumulator {
	switch fn {
	case Count:
		return &countAcc{}
	case Sum:
		return &sumAcc{}
	case Avg:
		return &avgAcc{}
	case Min:
		return &extremeAcc{wantMax: false}
	case Max:
		return &extremeAcc{wantMax: true}
	default:
		return &countAcc{}
	}
}

// Aggregation partitions its input into groups keyed by a tuple of
// grouping-attribute values and emits one output record per group,
// carrying the group key followed by each aggregate spec's result.
// When grouping is empty, all input falls into a single group.
type Aggregation struct {
	input        Operator
	groupBy      []string
	specs        []AggregateSpec
	outputSchema *schema.Schema
	err          error
}

// NewAggregation builds an Aggregation over input, grouping by
// groupBy (may be empty) and computing specs per group. Fails with
// DuplicateAttribute if an output schema name repeats, or
// UnboundVariable if a grouping or aggregate-argument name is absent
// from input's schema.
func NewAggregation(input Operator, groupBy []string, specs []AggregateSpec) (*Aggregation, error) {
	inSchema := input.OutputSchema()
	outSchema := schema.New()
	for _, name := range groupBy {
		if !inSchema.HasAttribute(name) {
			return nil, dberrors.Newf(dberrors.UnboundVariable, "grouping attribute %q not found in input schema", name)
		}
		if err := outSchema.AddAttribute(name); err != nil {
			return nil, err
		}
	}
	for _, spec := range specs {
		if !inSchema.HasAttribute(spec.Argument) {
			return nil, dberrors.Newf(dberrors.UnboundVariable, "aggregate argument %q not found in input schema", spec.Argument)
		}
		if err := outSchema.AddAttribute(spec.OutputName); err != nil {
			return nil, err
		}
	}
	return &Aggregation{input: input, groupBy: groupBy, specs: specs, outputSchema: outSchema}, nil
}

func (a *Aggregation) OutputSchema() *schema.Schema { return a.outputSchema }

// Err returns the error, if any, that ended the most recently
// consumed Stream early.
func (a *Aggregation) Err() error { return a.err }

type group struct {
	key   []value.Value
	accs  []Accumulator
}

func (a *Aggregation) Stream() iter.Seq[*record.Record] {
	return func(yield func(*record.Record) bool) {
		a.err = nil
		inSchema := a.input.OutputSchema()

		order := make([]string, 0, len(a.groupBy))
		groups := make(map[string]*group)

		for rec := range a.input.Stream() {
			key := make([]value.Value, len(a.groupBy))
			for i, name := range a.groupBy {
				v, ok := rec.ValueByName(name)
				if !ok {
					a.err = dberrors.Newf(dberrors.UnboundVariable, "grouping attribute %q not found in record", name)
					return
				}
				key[i] = v
			}
			groupKey := groupKeyString(key)
			g, exists := groups[groupKey]
			if !exists {
				g = &group{key: key, accs: make([]Accumulator, len(a.specs))}
				for i, spec := range a.specs {
					g.accs[i] = newAccumulator(spec.Func)
				}
				groups[groupKey] = g
				order = append(order, groupKey)
			}
			for i, spec := range a.specs {
				v, ok := rec.ValueByName(spec.Argument)
				if !ok {
					a.err = dberrors.Newf(dberrors.UnboundVariable, "aggregate argument %q not found in record", spec.Argument)
					return
				}
				g.accs[i].Update(v)
			}
		}
		_ = inSchema

		for _, groupKey := range order {
			g := groups[groupKey]
			values := make([]value.Value, 0, len(g.key)+len(g.accs))
			values = append(values, g.key...)
			for _, acc := range g.accs {
				values = append(values, acc.Result())
			}
			if !yield(record.NewUnchecked(a.outputSchema, values)) {
				return
			}
		}
	}
}

func groupKeyString(key []value.Value) string {
	var b strings.Builder
	for i, v := range key {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(v.String())
	}
	return b.String()
}
