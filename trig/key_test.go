package trig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gopoisson/symbols"
	"github.com/njchilds90/gopoisson/trig"
)

var xy = symbols.New("x", "y")

func TestKey_String(t *testing.T) {
	assert.Equal(t, "cos(2*x - y)", trig.Cos(2, -1).String(xy))
	assert.Equal(t, "sin(-x + 3*y)", trig.Sin(-1, 3).String(xy))
	assert.Equal(t, "cos(0)", trig.Cos(0, 0).String(xy))
	assert.Equal(t, `\sin\left(2 x - y\right)`, trig.Sin(2, -1).LaTeX(xy))
}

func TestKey_Canonicalize(t *testing.T) {
	k, changed := trig.Sin(0, -2, 1).Canonicalize()
	assert.True(t, changed)
	assert.Equal(t, []int64{0, 2, -1}, k.Multipliers())
	assert.False(t, k.IsCos())

	k, changed = trig.Cos(1, -1).Canonicalize()
	assert.False(t, changed)
	assert.Equal(t, []int64{1, -1}, k.Multipliers())

	_, changed = trig.Cos(0, 0).Canonicalize()
	assert.False(t, changed)
}

func TestKey_UnitaryAndIgnorable(t *testing.T) {
	assert.True(t, trig.Cos(0, 0).IsUnitary())
	assert.False(t, trig.Sin(0, 0).IsUnitary())
	assert.True(t, trig.Sin(0, 0).IsIgnorable())
	assert.False(t, trig.Cos(1, 0).IsIgnorable())
	assert.True(t, trig.Cos().IsUnitary())
}

func TestKey_Integrate(t *testing.T) {
	n, k := trig.Cos(3, -1).Integrate("x", xy)
	assert.Equal(t, int64(3), n)
	assert.False(t, k.IsCos())
	assert.Equal(t, []int64{3, -1}, k.Multipliers())

	n, k = trig.Sin(3, -1).Integrate("y", xy)
	assert.Equal(t, int64(1), n)
	assert.True(t, k.IsCos())

	n, _ = trig.Cos(0, 2).Integrate("x", xy)
	assert.Equal(t, int64(0), n)

	n, _ = trig.Cos(1, 2).Integrate("z", xy)
	assert.Equal(t, int64(0), n)
}

func TestKey_MergeArgs(t *testing.T) {
	k, err := trig.Sin(1, 2).MergeArgs(symbols.New("x", "z"), symbols.New("x", "y", "z"))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 0, 2}, k.Multipliers())
	assert.False(t, k.IsCos())

	_, err = trig.Sin(1, 2).MergeArgs(symbols.New("x"), xy)
	assert.Error(t, err)
}

func TestKey_CanonicalAndHash(t *testing.T) {
	assert.NotEqual(t, trig.Cos(1, 2).Canonical(), trig.Sin(1, 2).Canonical())
	assert.Equal(t, trig.Cos(1, 2).Hash(), trig.New([]int64{1, 2}, true).Hash())
	assert.NotEqual(t, trig.Cos(1, 2).Hash(), trig.Cos(2, 1).Hash())
}
