package record_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhh-labs/relq/internal/record"
	"github.com/jhh-labs/relq/internal/schema"
	"github.com/jhh-labs/relq/internal/value"
	"github.com/jhh-labs/relq/pkg/dberrors"
)

func projectSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s := schema.New()
	require.NoError(t, s.AddAttribute("projectName"))
	require.NoError(t, s.AddAttribute("budget"))
	require.NoError(t, s.SetKey("projectName"))
	return s
}

func TestNewRejectsArityMismatch(t *testing.T) {
	s := projectSchema(t)
	_, err := record.New(s, value.OfString("P00"))
	require.Error(t, err)
	assert.True(t, dberrors.Is(err, dberrors.ArityMismatch))
}

func TestValueByNameAndString(t *testing.T) {
	s := projectSchema(t)
	r, err := record.New(s, value.OfString("P00"), value.OfFloat(1000000.0))
	require.NoError(t, err)

	v, ok := r.ValueByName("budget")
	require.True(t, ok)
	assert.Equal(t, value.OfFloat(1000000.0), v)
	assert.Equal(t, "{projectName=P00, budget=1000000.0}", r.String())
}

func TestConcatenatePrefersLeftOnSharedAttribute(t *testing.T) {
	left := schema.New()
	require.NoError(t, left.AddAttribute("employeeNumber"))
	require.NoError(t, left.AddAttribute("projectName"))
	right := schema.New()
	require.NoError(t, right.AddAttribute("projectName"))
	require.NoError(t, right.AddAttribute("budget"))

	lr, err := record.New(left, value.OfString("E00"), value.OfString("P00"))
	require.NoError(t, err)
	rr, err := record.New(right, value.OfString("P00"), value.OfFloat(1000000.0))
	require.NoError(t, err)

	out := schema.Combine(left, right)
	combined := record.Concatenate(lr, rr, out)
	assert.Equal(t, "{employeeNumber=E00, projectName=P00, budget=1000000.0}", combined.String())
}
