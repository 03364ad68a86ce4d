package evalexpr

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forktale/forktale/internal/value"
)

func TestEvalArithmeticAndPrecedence(t *testing.T) {
	e := New()
	v, err := e.Eval("2 + 3 * 4")
	require.NoError(t, err)
	require.Equal(t, value.Decimal, v.Kind())
	assert.Equal(t, "14", v.String())
}

func TestEvalUnaryMinus(t *testing.T) {
	e := New()
	v, err := e.Eval("5 + -2")
	require.NoError(t, err)
	assert.Equal(t, "3", v.String())
}

func TestEvalModulo(t *testing.T) {
	e := New()
	v, err := e.Eval("7 % 3")
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())
}

func TestEvalModuloByZero(t *testing.T) {
	e := New()
	_, err := e.Eval("7 % 0")
	assert.Error(t, err)
}

func TestEvalDivisionByZero(t *testing.T) {
	e := New()
	_, err := e.Eval("1 / 0")
	assert.Error(t, err)
}

func TestEvalComparisonAndBoolOps(t *testing.T) {
	e := New()
	v, err := e.Eval("1 < 2 and not false")
	require.NoError(t, err)
	require.Equal(t, value.Bool, v.Kind())
	assert.True(t, v.Bool())
}

func TestEvalBoundIdentifier(t *testing.T) {
	e := New()
	e.Bind("gold", value.NewDecimal(decimal.RequireFromString("10")))
	v, err := e.Eval("gold >= 5")
	require.NoError(t, err)
	assert.True(t, v.Bool())
}

func TestEvalUnknownIdentifierCoercesFalse(t *testing.T) {
	e := New()
	v, err := e.Eval("nosuchvar")
	require.NoError(t, err)
	assert.Equal(t, value.Unknown, v.Kind())
	assert.False(t, v.AsBool())
}

func TestEvalParentheses(t *testing.T) {
	e := New()
	v, err := e.Eval("(1 + 2) * 3")
	require.NoError(t, err)
	assert.Equal(t, "9", v.String())
}

func TestEvalResetClearsBindings(t *testing.T) {
	e := New()
	e.Bind("x", value.NewBool(true))
	e.Reset()
	v, err := e.Eval("x")
	require.NoError(t, err)
	assert.Equal(t, value.Unknown, v.Kind())
}

func TestEvalTrailingGarbageIsError(t *testing.T) {
	e := New()
	_, err := e.Eval("1 + 2 3")
	assert.Error(t, err)
}

func TestEvalOrderingRequiresDecimals(t *testing.T) {
	e := New()
	_, err := e.Eval("true < false")
	assert.Error(t, err)
}
