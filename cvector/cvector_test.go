package cvector

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gopoisson/settings"
)

var errBudget = errors.New("construction budget exhausted")

// tracked counts live instances so tests can verify that rollback
// destroys exactly what was built.
type tracked struct {
	value int
}

type lifecycle struct {
	made  atomic.Int64
	live  atomic.Int64
	limit int64
	panic bool
}

func (l *lifecycle) ctor() (tracked, error) {
	if l.limit > 0 && l.made.Add(1) > l.limit {
		if l.panic {
			panic("constructor panicked")
		}
		return tracked{}, errBudget
	}
	l.live.Add(1)
	return tracked{value: 1}, nil
}

func (l *lifecycle) copier(x tracked) (tracked, error) {
	if l.limit > 0 && l.made.Add(1) > l.limit {
		return tracked{}, errBudget
	}
	l.live.Add(1)
	return x, nil
}

func (l *lifecycle) dtor(*tracked) { l.live.Add(-1) }

func (l *lifecycle) options() []Option[tracked] {
	return []Option[tracked]{
		WithConstructor(l.ctor),
		WithCopier(l.copier),
		WithDestructor(l.dtor),
	}
}

func withThreads(t *testing.T, n, threshold int) {
	t.Helper()
	require.NoError(t, settings.SetNThreads(n))
	require.NoError(t, settings.SetParallelThreshold(threshold))
	t.Cleanup(func() {
		settings.ResetNThreads()
		_ = settings.SetParallelThreshold(settings.DefaultParallelThreshold)
	})
}

func TestNew_ZeroValues(t *testing.T) {
	v, err := New[int](100)
	require.NoError(t, err)
	assert.Equal(t, 100, v.Len())
	for _, x := range v.All() {
		assert.Equal(t, 0, x)
	}
}

func TestNew_Empty(t *testing.T) {
	v, err := New[int](0)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Len())
	count := 0
	for range v.All() {
		count++
	}
	assert.Equal(t, 0, count)
}

func TestNew_NegativeSize(t *testing.T) {
	_, err := New[int](-1)
	assert.Error(t, err)
}

func TestNew_ParallelConstruction(t *testing.T) {
	withThreads(t, 4, 1000)
	var l lifecycle
	v, err := New(100000, l.options()...)
	require.NoError(t, err)
	assert.Equal(t, 100000, v.Len())
	assert.Equal(t, int64(100000), l.live.Load())
	for _, x := range v.All() {
		require.Equal(t, 1, x.value)
	}

	v.Clear()
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, int64(0), l.live.Load())
}

func TestNew_FailingConstructorRollsBack(t *testing.T) {
	withThreads(t, 4, settings.DefaultParallelThreshold)
	l := lifecycle{limit: 10000}

	v, err := New(1000000, l.options()...)
	assert.ErrorIs(t, err, errBudget)
	assert.Nil(t, v)
	assert.Equal(t, int64(0), l.live.Load())

	// A fresh instance without the budget still builds.
	var ok lifecycle
	v, err = New(1000000, ok.options()...)
	require.NoError(t, err)
	assert.Equal(t, 1000000, v.Len())
}

func TestNew_PanickingConstructorRollsBack(t *testing.T) {
	withThreads(t, 4, 1000)
	l := lifecycle{limit: 5000, panic: true}

	assert.PanicsWithValue(t, "constructor panicked", func() {
		_, _ = New(50000, l.options()...)
	})
	assert.Equal(t, int64(0), l.live.Load())
}

func TestNew_SerialPanicRollsBack(t *testing.T) {
	withThreads(t, 1, settings.DefaultParallelThreshold)
	l := lifecycle{limit: 10, panic: true}

	assert.Panics(t, func() {
		_, _ = New(100, l.options()...)
	})
	assert.Equal(t, int64(0), l.live.Load())
}

func TestResize_FailureLeavesVectorUnchanged(t *testing.T) {
	withThreads(t, 4, settings.DefaultParallelThreshold)
	l := lifecycle{limit: 10000}

	v, err := New(9000, l.options()...)
	require.NoError(t, err)

	err = v.Resize(10100)
	assert.ErrorIs(t, err, errBudget)
	assert.Equal(t, 9000, v.Len())
	assert.Equal(t, int64(9000), l.live.Load())
}

func TestResize_ParallelFailureLeavesVectorUnchanged(t *testing.T) {
	withThreads(t, 4, 100)
	l := lifecycle{limit: 3000}

	v, err := New(1000, l.options()...)
	require.NoError(t, err)

	err = v.Resize(10000)
	assert.ErrorIs(t, err, errBudget)
	assert.Equal(t, 1000, v.Len())
	assert.Equal(t, int64(1000), l.live.Load())
}

func TestResize_UpThenDown(t *testing.T) {
	v, err := New[int](10)
	require.NoError(t, err)
	for i := 0; i < v.Len(); i++ {
		*v.At(i) = i
	}

	require.NoError(t, v.Resize(1000))
	assert.Equal(t, 1000, v.Len())
	assert.Equal(t, 0, *v.At(999))

	require.NoError(t, v.Resize(10))
	assert.Equal(t, 10, v.Len())
	for i := 0; i < v.Len(); i++ {
		assert.Equal(t, i, *v.At(i))
	}

	// Regrowing into spare capacity yields fresh zero elements.
	require.NoError(t, v.Resize(20))
	assert.Equal(t, 0, *v.At(15))
}

func TestResize_GrowsGeometrically(t *testing.T) {
	var v Vector[int]
	for i := 1; i <= 100; i++ {
		require.NoError(t, v.Resize(i))
	}
	assert.Equal(t, 100, v.Len())
	assert.GreaterOrEqual(t, v.Cap(), 100)
	assert.Less(t, v.Cap(), 400)
}

func TestResize_ShrinkRunsDestructors(t *testing.T) {
	withThreads(t, 4, 100)
	var l lifecycle
	v, err := New(5000, l.options()...)
	require.NoError(t, err)

	require.NoError(t, v.Resize(10))
	assert.Equal(t, int64(10), l.live.Load())
}

func TestClone_DeepCopies(t *testing.T) {
	withThreads(t, 4, 100)
	var l lifecycle
	v, err := New(1000, l.options()...)
	require.NoError(t, err)

	c, err := v.Clone()
	require.NoError(t, err)
	assert.Equal(t, v.Len(), c.Len())
	assert.Equal(t, int64(2000), l.live.Load())

	c.At(0).value = 7
	assert.Equal(t, 1, v.At(0).value)
}

func TestClone_FailureProducesNothing(t *testing.T) {
	withThreads(t, 4, 100)
	l := lifecycle{limit: 1500}
	v, err := New(1000, l.options()...)
	require.NoError(t, err)

	c, err := v.Clone()
	assert.ErrorIs(t, err, errBudget)
	assert.Nil(t, c)
	assert.Equal(t, int64(1000), l.live.Load())
}

func TestAssign(t *testing.T) {
	var l lifecycle
	dst, err := New(5, l.options()...)
	require.NoError(t, err)
	src, err := New(8, l.options()...)
	require.NoError(t, err)
	src.At(3).value = 42

	require.NoError(t, dst.Assign(src))
	assert.Equal(t, 8, dst.Len())
	assert.Equal(t, 42, dst.At(3).value)
	assert.Equal(t, int64(16), l.live.Load())

	require.NoError(t, dst.Assign(dst))
	assert.Equal(t, 8, dst.Len())
}

func TestAssign_FailureLeavesTargetUnchanged(t *testing.T) {
	l := lifecycle{limit: 12}
	dst, err := New(2, l.options()...)
	require.NoError(t, err)
	src, err := New(8, l.options()...)
	require.NoError(t, err)

	err = dst.Assign(src)
	assert.ErrorIs(t, err, errBudget)
	assert.Equal(t, 2, dst.Len())
	assert.Equal(t, int64(10), l.live.Load())
}

func TestMoveFrom(t *testing.T) {
	src, err := New[int](3)
	require.NoError(t, err)
	*src.At(1) = 5

	var dst Vector[int]
	dst.MoveFrom(src)
	assert.Equal(t, 3, dst.Len())
	assert.Equal(t, 5, *dst.At(1))
	assert.Equal(t, 0, src.Len())
}

func TestSwap(t *testing.T) {
	a, err := New[int](2)
	require.NoError(t, err)
	b, err := New[int](5)
	require.NoError(t, err)
	*a.At(0) = 1
	*b.At(4) = 9

	a.Swap(b)
	assert.Equal(t, 5, a.Len())
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, 9, *a.At(4))
	assert.Equal(t, 1, *b.At(0))
}

func TestMoveFrom_CarriesDestructor(t *testing.T) {
	var la, lb lifecycle
	dst, err := New(2, la.options()...)
	require.NoError(t, err)
	src, err := New(3, lb.options()...)
	require.NoError(t, err)

	dst.MoveFrom(src)
	assert.Equal(t, int64(0), la.live.Load())
	assert.Equal(t, int64(3), lb.live.Load())

	dst.Clear()
	assert.Equal(t, int64(0), la.live.Load())
	assert.Equal(t, int64(0), lb.live.Load())

	// src keeps its hooks and builds with them again.
	require.NoError(t, src.Resize(1))
	assert.Equal(t, int64(1), lb.live.Load())
	src.Clear()
	assert.Equal(t, int64(0), lb.live.Load())
}

func TestSwap_CarriesDestructors(t *testing.T) {
	var la, lb lifecycle
	a, err := New(2, la.options()...)
	require.NoError(t, err)
	b, err := New(4, lb.options()...)
	require.NoError(t, err)

	a.Swap(b)
	a.Clear()
	assert.Equal(t, int64(2), la.live.Load())
	assert.Equal(t, int64(0), lb.live.Load())
	b.Clear()
	assert.Equal(t, int64(0), la.live.Load())
}

func TestAssign_TakesOverHooks(t *testing.T) {
	var la, lb lifecycle
	dst, err := New(2, la.options()...)
	require.NoError(t, err)
	src, err := New(3, lb.options()...)
	require.NoError(t, err)

	require.NoError(t, dst.Assign(src))
	assert.Equal(t, int64(0), la.live.Load())
	assert.Equal(t, int64(6), lb.live.Load())

	dst.Clear()
	src.Clear()
	assert.Equal(t, int64(0), lb.live.Load())
}

func TestAll_Restartable(t *testing.T) {
	v, err := New[int](4)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		*v.At(i) = i * i
	}

	collect := func() []int {
		var out []int
		for _, x := range v.All() {
			out = append(out, x)
		}
		return out
	}
	assert.Equal(t, []int{0, 1, 4, 9}, collect())
	assert.Equal(t, collect(), collect())

	var first []int
	for i, x := range v.All() {
		if i == 2 {
			break
		}
		first = append(first, x)
	}
	assert.Equal(t, []int{0, 1}, first)
}
