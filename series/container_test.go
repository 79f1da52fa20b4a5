package series_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gopoisson/algebra"
	"github.com/njchilds90/gopoisson/series"
)

type name string

func (n name) Canonical() string { return string(n) }

func term(cf int64, k string) series.Term[name] {
	return series.Term[name]{Cf: algebra.R(cf), Key: name(k)}
}

func keys(c *series.Container[name]) []string {
	var out []string
	for _, t := range c.Terms() {
		out = append(out, string(t.Key))
	}
	return out
}

func TestContainer_InsertMergesDuplicates(t *testing.T) {
	c := series.NewContainer[name]()
	c.Insert(term(1, "a"))
	c.Insert(term(2, "b"))
	c.Insert(term(3, "a"))

	require.Equal(t, 2, c.Len())
	cf, ok := c.Find("a")
	require.True(t, ok)
	assert.True(t, cf.Equal(algebra.R(4)))
	assert.Equal(t, []string{"a", "b"}, keys(c))
}

func TestContainer_ZeroCoefficientIgnored(t *testing.T) {
	c := series.NewContainer[name]()
	c.Insert(term(0, "a"))
	assert.Equal(t, 0, c.Len())
}

func TestContainer_CancellationErases(t *testing.T) {
	c := series.NewContainer[name]()
	c.Insert(term(1, "a"))
	c.Insert(term(2, "b"))
	c.Insert(term(5, "c"))
	c.Insert(term(-2, "b"))

	assert.Equal(t, []string{"a", "c"}, keys(c))
	_, ok := c.Find("b")
	assert.False(t, ok)

	// Indices stay consistent after the shift.
	c.Insert(term(1, "c"))
	cf, _ := c.Find("c")
	assert.True(t, cf.Equal(algebra.R(6)))
}

func TestContainer_CloneIsIndependent(t *testing.T) {
	c := series.NewContainer[name]()
	c.Insert(term(1, "a"))

	d := c.Clone()
	d.Insert(term(1, "b"))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, d.Len())
}

func TestContainer_EqualIgnoresOrder(t *testing.T) {
	c := series.NewContainer[name]()
	c.Insert(term(1, "a"))
	c.Insert(term(2, "b"))

	d := series.NewContainer[name]()
	d.Insert(term(2, "b"))
	d.Insert(term(1, "a"))
	assert.True(t, c.Equal(d))

	d.Insert(term(1, "b"))
	assert.False(t, c.Equal(d))
}

func TestContainer_ManyTerms(t *testing.T) {
	c := series.NewContainer[name]()
	for i := 0; i < 5000; i++ {
		c.Insert(series.Term[name]{Cf: algebra.R(int64(i + 1)), Key: name(strconv.Itoa(i))})
	}
	assert.Equal(t, 5000, c.Len())
}
