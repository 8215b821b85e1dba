package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhh-labs/relq/internal/engine"
	"github.com/jhh-labs/relq/internal/record"
	"github.com/jhh-labs/relq/internal/enginetest"
	"github.com/jhh-labs/relq/pkg/dberrors"
)

func collect(seq func(func(*record.Record) bool)) []*record.Record {
	var out []*record.Record
	for r := range seq {
		out = append(out, r)
	}
	return out
}

func TestCreateTableAndInsert(t *testing.T) {
	db := engine.New("sample")
	b := db.CreateTable("projects").Attribute("projectName").Attribute("budget").Key("projectName")
	require.NoError(t, b.Err())

	tbl := db.Table("projects")
	require.NotNil(t, tbl)
	_, err := tbl.InsertRecord("P10", 1000000.0)
	require.NoError(t, err)
	_, err = tbl.InsertRecord("P10", 1000000.0)
	require.Error(t, err)
	assert.True(t, dberrors.Is(err, dberrors.DuplicateKey))

	assert.Nil(t, db.Table("nope"))
}

func TestSchemaBuilderStickyError(t *testing.T) {
	db := engine.New("sample")
	b := db.CreateTable("t").Attribute("a").Attribute("a")
	assert.Error(t, b.Err())
}

func TestSelectStarReturnsAllRecordsInKeyOrder(t *testing.T) {
	db := enginetest.BuildCompany(6)
	seq, err := db.Select("*", "projects")
	require.NoError(t, err)
	rows := collect(seq)
	require.Len(t, rows, 6)
	assert.Equal(t, "P00", rows[0].Value(0).Str())
	assert.Equal(t, "P05", rows[5].Value(0).Str())
}

func TestSelectWhereFiltersByPredicate(t *testing.T) {
	db := enginetest.BuildCompany(6)
	seq, err := db.SelectWhere("*", "projects", "budget > 1000000")
	require.NoError(t, err)
	rows := collect(seq)
	require.Len(t, rows, 4)
	assert.Equal(t, "P01", rows[0].Value(0).Str())
	assert.Equal(t, "P05", rows[len(rows)-1].Value(0).Str())
}

func TestSelectAcrossNaturalJoin(t *testing.T) {
	db := enginetest.BuildCompany(6)
	seq, err := db.Select("employeeNumber, budget", "employees natural join projects")
	require.NoError(t, err)
	rows := collect(seq)
	require.Len(t, rows, 19)
	assert.Equal(t, "E00", rows[0].Value(0).Str())
	assert.Equal(t, "1000000.0", rows[0].Value(1).String())
	assert.Equal(t, "E18", rows[len(rows)-1].Value(0).Str())
}

func TestSelectWhereOnJoinedPredicate(t *testing.T) {
	db := enginetest.BuildCompany(6)
	seq, err := db.SelectWhere("budget", "employees natural join projects", `employeeNumber = "E15"`)
	require.NoError(t, err)
	rows := collect(seq)
	require.Len(t, rows, 1)
	assert.Equal(t, "3000000.0", rows[0].Value(0).String())
}

func TestSelectTopLevelCount(t *testing.T) {
	db := enginetest.BuildCompany(6)
	seq, err := db.Select("count(employeeNumber) as count", "employees")
	require.NoError(t, err)
	rows := collect(seq)
	require.Len(t, rows, 1)
	assert.Equal(t, "19", rows[0].Value(0).String())
}

func TestSelectTopLevelSum(t *testing.T) {
	db := enginetest.BuildCompany(6)
	seq, err := db.Select("sum(budget) as sumBudget", "projects")
	require.NoError(t, err)
	rows := collect(seq)
	require.Len(t, rows, 1)
	assert.Equal(t, "1.2E7", rows[0].Value(0).String())
}

func TestSelectGroupByZipCode(t *testing.T) {
	db := enginetest.BuildCompany(6)
	seq, err := db.SelectGroupBy("zipCode, count(employeeNumber) as employeeCount", "employees", "zipCode")
	require.NoError(t, err)
	rows := collect(seq)
	require.Len(t, rows, 4)
	total := int64(0)
	for _, r := range rows {
		total += r.Value(1).Int()
	}
	assert.Equal(t, int64(19), total)
}

func TestSelectGroupByBudgetAcrossJoin(t *testing.T) {
	db := enginetest.BuildCompany(6)
	seq, err := db.SelectGroupBy("budget, count(employeeNumber) as employeeCount", "employees natural join projects", "budget")
	require.NoError(t, err)
	rows := collect(seq)
	require.Len(t, rows, 3)
	total := int64(0)
	for _, r := range rows {
		total += r.Value(1).Int()
	}
	assert.Equal(t, int64(19), total)
}

func TestSelfJoinOnFullKeyIsIdentity(t *testing.T) {
	db := enginetest.BuildCompany(6)
	direct, err := db.Select("*", "projects")
	require.NoError(t, err)
	joined, err := db.Select("*", "projects natural join projects")
	require.NoError(t, err)

	directRows := collect(direct)
	joinedRows := collect(joined)
	require.Len(t, joinedRows, len(directRows))
	for i := range directRows {
		assert.Equal(t, directRows[i].String(), joinedRows[i].String())
	}
}
