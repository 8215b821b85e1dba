package table_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhh-labs/relq/internal/schema"
	"github.com/jhh-labs/relq/internal/table"
	"github.com/jhh-labs/relq/internal/value"
	"github.com/jhh-labs/relq/pkg/dberrors"
)

func newProjects(t *testing.T) *table.Table {
	t.Helper()
	s := schema.New()
	require.NoError(t, s.AddAttribute("projectName"))
	require.NoError(t, s.AddAttribute("budget"))
	require.NoError(t, s.SetKey("projectName"))
	return table.New(s)
}

func TestInsertRecordRejectsDuplicateKey(t *testing.T) {
	tbl := newProjects(t)
	_, err := tbl.InsertRecord("P00", 1000000.0)
	require.NoError(t, err)
	_, err = tbl.InsertRecord("P00", 2000000.0)
	require.Error(t, err)
	assert.True(t, dberrors.Is(err, dberrors.DuplicateKey))
}

func TestAllTraversesInKeyOrder(t *testing.T) {
	tbl := newProjects(t)
	_, _ = tbl.InsertRecord("P02", 3000000.0)
	_, _ = tbl.InsertRecord("P00", 1000000.0)
	_, _ = tbl.InsertRecord("P01", 2000000.0)

	var names []string
	for r := range tbl.All() {
		names = append(names, r.Value(0).Str())
	}
	assert.Equal(t, []string{"P00", "P01", "P02"}, names)
}

func TestFindByKey(t *testing.T) {
	tbl := newProjects(t)
	_, err := tbl.InsertRecord("P00", 1000000.0)
	require.NoError(t, err)

	rec, ok := tbl.Find(value.OfString("P00"))
	require.True(t, ok)
	assert.Equal(t, "P00", rec.Value(0).Str())

	_, ok = tbl.Find(value.OfString("P99"))
	assert.False(t, ok)
}
