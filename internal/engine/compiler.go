package engine

import (
	"iter"
	"strings"

	"github.com/jhh-labs/relq/internal/operator"
	"github.com/jhh-labs/relq/internal/record"
	"github.com/jhh-labs/relq/pkg/dberrors"
)

var aggregateFunctionNames = map[string]operator.AggregateFunc{
	"count": operator.Count,
	"sum":   operator.Sum,
	"avg":   operator.Avg,
	"min":   operator.Min,
	"max":   operator.Max,
}

// query compiles the three textual fragments plus an optional
// grouping fragment into an operator pipeline and returns its
// output sequence.
func (db *Database) query(attributeDefinitions, tableNames, predicate string, groupingAttributes []string) (iter.Seq[*record.Record], error) {
	attributeDescriptions := splitTrimmed(attributeDefinitions, ",")
	tableNameList := splitTrimmed(tableNames, "natural join")

	if len(tableNameList) == 0 || tableNameList[0] == "" {
		return nil, dberrors.New(dberrors.Parsing, "no table specified")
	}
	first := db.tables[tableNameList[0]]
	if first == nil {
		return nil, dberrors.Newf(dberrors.Parsing, "unknown table %q", tableNameList[0])
	}

	var op operator.Operator = operator.NewScan(first)
	for _, name := range tableNameList[1:] {
		t := db.tables[name]
		if t == nil {
			return nil, dberrors.Newf(dberrors.Parsing, "unknown table %q", name)
		}
		op = operator.NewNaturalJoin(op, t)
	}

	if predicate != "" {
		sel, err := operator.NewSelection(op, predicate)
		if err != nil {
			return nil, err
		}
		op = sel
	}

	if groupingAttributes != nil {
		agg, err := operator.NewAggregation(op, groupingAttributes, aggregationDescriptions(attributeDescriptions))
		if err != nil {
			return nil, err
		}
		op = agg
	} else if hasAggregateFunctions(attributeDescriptions) {
		agg, err := operator.NewAggregation(op, nil, aggregationDescriptions(attributeDescriptions))
		if err != nil {
			return nil, err
		}
		op = agg
	} else if len(attributeDescriptions) == 1 && attributeDescriptions[0] == "*" {
		// projection is a no-op: use the pipeline's current output directly
	} else {
		defs, err := attributeDefinitionList(attributeDescriptions)
		if err != nil {
			return nil, err
		}
		proj, err := operator.NewProjection(op, defs)
		if err != nil {
			return nil, err
		}
		op = proj
	}

	return operatorSequence(op), nil
}

// operatorSequence returns op's output sequence. A per-record error
// surfaced deep in the pipeline (Projection or Aggregation) simply
// ends the sequence early, in keeping with iter.Seq's lack of an
// error channel; see operator.Err for callers that hold a reference
// to the terminal operator directly.
func operatorSequence(op operator.Operator) iter.Seq[*record.Record] {
	return op.Stream()
}

// aggregationDescriptions parses each fragment as "expression as
// name", keeping the entries whose left side is an aggregate spec
// func(arg). Malformed or non-aggregate fragments are silently
// skipped. Insertion order follows first occurrence; a repeated left
// side overwrites its output name but keeps its original position.
func aggregationDescriptions(descriptions []string) []operator.AggregateSpec {
	order := make([]string, 0, len(descriptions))
	outputNames := make(map[string]string)
	for _, description := range descriptions {
		tokens := strings.Split(description, " as ")
		if len(tokens) != 2 {
			continue
		}
		left := strings.TrimSpace(tokens[0])
		right := strings.TrimSpace(tokens[1])
		if _, exists := outputNames[left]; !exists {
			order = append(order, left)
		}
		outputNames[left] = right
	}
	specs := make([]operator.AggregateSpec, 0, len(order))
	for _, left := range order {
		fn, arg, ok := parseAggregateSpec(left)
		if !ok {
			continue
		}
		specs = append(specs, operator.AggregateSpec{Func: fn, Argument: arg, OutputName: outputNames[left]})
	}
	return specs
}

// parseAggregateSpec parses a literal "func(arg)" fragment.
func parseAggregateSpec(s string) (fn operator.AggregateFunc, arg string, ok bool) {
	open := strings.IndexByte(s, '(')
	closeIdx := strings.IndexByte(s, ')')
	if open < 0 || closeIdx < 0 || closeIdx < open {
		return 0, "", false
	}
	name := strings.TrimSpace(s[:open])
	fn, known := aggregateFunctionNames[name]
	if !known {
		return 0, "", false
	}
	return fn, strings.TrimSpace(s[open+1 : closeIdx]), true
}

// attributeDefinitionList parses each fragment as "expression as
// name" or a bare expression whose output name is the fragment
// itself, trimmed.
func attributeDefinitionList(descriptions []string) ([]operator.AttributeDefinition, error) {
	defs := make([]operator.AttributeDefinition, 0, len(descriptions))
	for _, description := range descriptions {
		tokens := strings.SplitN(description, " as ", 2)
		var name, expr string
		if len(tokens) == 2 {
			expr = strings.TrimSpace(tokens[0])
			name = strings.TrimSpace(tokens[1])
		} else {
			name = strings.TrimSpace(description)
			expr = description
		}
		defs = append(defs, operator.AttributeDefinition{Name: name, Expression: expr})
	}
	return defs, nil
}

// hasAggregateFunctions reports whether any fragment contains an
// aggregate function name immediately followed by "(".
func hasAggregateFunctions(descriptions []string) bool {
	for _, d := range descriptions {
		for name := range aggregateFunctionNames {
			if strings.Contains(d, name+"(") {
				return true
			}
		}
	}
	return false
}
