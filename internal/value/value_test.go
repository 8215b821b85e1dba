package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhh-labs/relq/internal/value"
	"github.com/jhh-labs/relq/pkg/dberrors"
)

func TestParseLexeme(t *testing.T) {
	assert.Equal(t, value.OfInt(42), value.ParseLexeme("42"))
	assert.Equal(t, value.OfFloat(3.5), value.ParseLexeme("3.5"))
	assert.Equal(t, value.OfString("P00"), value.ParseLexeme("P00"))
	assert.Equal(t, value.OfString("3."), value.ParseLexeme("3."))
	assert.Equal(t, value.OfString(".5"), value.ParseLexeme(".5"))
}

func TestAsNumber(t *testing.T) {
	v, err := value.AsNumber(value.OfString("12"))
	require.NoError(t, err)
	assert.Equal(t, value.OfInt(12), v)

	v, err = value.AsNumber(value.OfString("1.25"))
	require.NoError(t, err)
	assert.Equal(t, value.OfFloat(1.25), v)

	_, err = value.AsNumber(value.OfString("abc"))
	require.Error(t, err)
	assert.True(t, dberrors.Is(err, dberrors.NumberFormat))
}

func TestArithPromotion(t *testing.T) {
	sum, err := value.Arith(value.Add, value.OfInt(2), value.OfInt(3))
	require.NoError(t, err)
	assert.Equal(t, value.OfInt(5), sum)

	sum, err = value.Arith(value.Add, value.OfInt(2), value.OfFloat(3.5))
	require.NoError(t, err)
	assert.Equal(t, value.OfFloat(5.5), sum)

	_, err = value.Arith(value.Div, value.OfInt(1), value.OfInt(0))
	require.Error(t, err)
	assert.True(t, dberrors.Is(err, dberrors.UnsupportedOperation))
}

func TestCompareStringEquality(t *testing.T) {
	eq, err := value.Compare(value.Eq, value.OfString("E15"), value.OfString("E15"))
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = value.Compare(value.Eq, value.OfString("E15"), value.OfString("E16"))
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestCompareNumericCoercion(t *testing.T) {
	gt, err := value.Compare(value.Gt, value.OfString("2000000"), value.OfInt(1000000))
	require.NoError(t, err)
	assert.True(t, gt)
}

func TestTotalCompareOrdersNumericAscending(t *testing.T) {
	assert.True(t, value.TotalCompare(value.OfInt(1), value.OfInt(2)) < 0)
	assert.True(t, value.TotalCompare(value.OfString("a"), value.OfString("b")) < 0)
}

func TestFloatStringDecimalVsScientific(t *testing.T) {
	assert.Equal(t, "1000000.0", value.OfFloat(1000000.0).String())
	assert.Equal(t, "3000000.0", value.OfFloat(3000000.0).String())
	assert.Equal(t, "1.2E7", value.OfFloat(12000000.0).String())
}

func TestNegateCoercesStrings(t *testing.T) {
	n, err := value.Negate(value.OfString("5"))
	require.NoError(t, err)
	assert.Equal(t, value.OfInt(-5), n)
}
