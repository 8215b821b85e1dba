package operator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhh-labs/relq/internal/operator"
	"github.com/jhh-labs/relq/internal/record"
	"github.com/jhh-labs/relq/internal/schema"
	"github.com/jhh-labs/relq/internal/table"
)

func projectsTable(t *testing.T) *table.Table {
	t.Helper()
	s := schema.New()
	require.NoError(t, s.AddAttribute("projectName"))
	require.NoError(t, s.AddAttribute("budget"))
	require.NoError(t, s.SetKey("projectName"))
	tbl := table.New(s)
	_, err := tbl.InsertRecord("P00", 1000000.0)
	require.NoError(t, err)
	_, err = tbl.InsertRecord("P01", 2000000.0)
	require.NoError(t, err)
	_, err = tbl.InsertRecord("P02", 3000000.0)
	require.NoError(t, err)
	return tbl
}

func employeesTable(t *testing.T) *table.Table {
	t.Helper()
	s := schema.New()
	require.NoError(t, s.AddAttribute("employeeNumber"))
	require.NoError(t, s.AddAttribute("zipCode"))
	require.NoError(t, s.AddAttribute("projectName"))
	require.NoError(t, s.SetKey("employeeNumber"))
	tbl := table.New(s)
	rows := [][3]any{
		{"E00", 12222, "P00"},
		{"E01", 12223, "P00"},
		{"E02", 12222, "P01"},
		{"E03", 12223, "P02"},
	}
	for _, r := range rows {
		_, err := tbl.InsertRecord(r[0], r[1], r[2])
		require.NoError(t, err)
	}
	return tbl
}

func collect(t *testing.T, seq func(func(*record.Record) bool)) []*record.Record {
	t.Helper()
	var out []*record.Record
	for r := range seq {
		out = append(out, r)
	}
	return out
}

func TestScanEmitsKeyOrder(t *testing.T) {
	scan := operator.NewScan(projectsTable(t))
	rows := collect(t, scan.Stream())
	require.Len(t, rows, 3)
	assert.Equal(t, "P00", rows[0].Value(0).Str())
	assert.Equal(t, "P02", rows[2].Value(0).Str())
}

func TestNaturalJoinMatchesOnCommonAttribute(t *testing.T) {
	scan := operator.NewScan(employeesTable(t))
	join := operator.NewNaturalJoin(scan, projectsTable(t))
	rows := collect(t, join.Stream())
	require.Len(t, rows, 4)
	for _, r := range rows {
		employeeProject, _ := r.ValueByName("projectName")
		budget, ok := r.ValueByName("budget")
		require.True(t, ok)
		assert.True(t, budget.IsNumeric())
		assert.NotEmpty(t, employeeProject.Str())
	}
}

func TestSelectionKeepsOnlyMatchingRecords(t *testing.T) {
	scan := operator.NewScan(projectsTable(t))
	sel, err := operator.NewSelection(scan, "budget > 1000000")
	require.NoError(t, err)
	rows := collect(t, sel.Stream())
	require.Len(t, rows, 2)
	assert.Equal(t, "P01", rows[0].Value(0).Str())
	assert.Equal(t, "P02", rows[1].Value(0).Str())
}

func TestSelectionSwallowsEvaluationErrors(t *testing.T) {
	scan := operator.NewScan(employeesTable(t))
	sel, err := operator.NewSelection(scan, "zipCode > projectName")
	require.NoError(t, err)
	rows := collect(t, sel.Stream())
	assert.Empty(t, rows)
}

func TestProjectionRenamesAndComputes(t *testing.T) {
	scan := operator.NewScan(projectsTable(t))
	proj, err := operator.NewProjection(scan, []operator.AttributeDefinition{
		{Name: "name", Expression: "projectName"},
		{Name: "doubled", Expression: "budget * 2"},
	})
	require.NoError(t, err)
	rows := collect(t, proj.Stream())
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"name", "doubled"}, proj.OutputSchema().AttributeNames())
	v, ok := rows[0].ValueByName("doubled")
	require.True(t, ok)
	assert.Equal(t, 2000000.0, v.Float())
}

func TestProjectionRejectsDuplicateOutputNames(t *testing.T) {
	scan := operator.NewScan(projectsTable(t))
	_, err := operator.NewProjection(scan, []operator.AttributeDefinition{
		{Name: "x", Expression: "projectName"},
		{Name: "x", Expression: "budget"},
	})
	require.Error(t, err)
}

func TestAggregationWithoutGroupingProducesOneRow(t *testing.T) {
	scan := operator.NewScan(employeesTable(t))
	agg, err := operator.NewAggregation(scan, nil, []operator.AggregateSpec{
		{Func: operator.Count, Argument: "employeeNumber", OutputName: "count"},
	})
	require.NoError(t, err)
	rows := collect(t, agg.Stream())
	require.Len(t, rows, 1)
	v, ok := rows[0].ValueByName("count")
	require.True(t, ok)
	assert.Equal(t, int64(4), v.Int())
}

func TestAggregationGroupsByAttribute(t *testing.T) {
	scan := operator.NewScan(employeesTable(t))
	agg, err := operator.NewAggregation(scan, []string{"zipCode"}, []operator.AggregateSpec{
		{Func: operator.Count, Argument: "employeeNumber", OutputName: "employeeCount"},
	})
	require.NoError(t, err)
	rows := collect(t, agg.Stream())
	total := int64(0)
	for _, r := range rows {
		c, ok := r.ValueByName("employeeCount")
		require.True(t, ok)
		total += c.Int()
	}
	assert.Equal(t, int64(4), total)
}

func TestAggregationSumPromotesToFloat(t *testing.T) {
	scan := operator.NewScan(projectsTable(t))
	agg, err := operator.NewAggregation(scan, nil, []operator.AggregateSpec{
		{Func: operator.Sum, Argument: "budget", OutputName: "sumBudget"},
	})
	require.NoError(t, err)
	rows := collect(t, agg.Stream())
	require.Len(t, rows, 1)
	v, ok := rows[0].ValueByName("sumBudget")
	require.True(t, ok)
	assert.Equal(t, "6000000.0", v.String())
}
