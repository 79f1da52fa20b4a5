// Package series provides the sparse term container shared by every series
// type: polynomials, divisor series and Poisson series all store their
// (coefficient, key) pairs in a Container.
package series

import (
	"github.com/njchilds90/gopoisson/algebra"
	"github.com/njchilds90/gopoisson/cvector"
)

// Key is a series key. Two keys are the same term slot exactly when their
// canonical strings are equal.
type Key interface {
	Canonical() string
}

// Term is one (coefficient, key) pair.
type Term[K Key] struct {
	Cf  algebra.Coefficient
	Key K
}

// Container holds terms with unique keys in insertion order. Inserting a
// term whose key is already present adds the coefficients; terms whose
// coefficient becomes zero are removed.
//
// The zero value is not usable; call NewContainer.
type Container[K Key] struct {
	terms *cvector.Vector[Term[K]]
	index map[string]int
}

// NewContainer returns an empty container.
func NewContainer[K Key]() *Container[K] {
	v, _ := cvector.New[Term[K]](0)
	return &Container[K]{terms: v, index: map[string]int{}}
}

func (c *Container[K]) Len() int { return c.terms.Len() }

// Insert adds t to the container. Zero coefficients are ignored.
func (c *Container[K]) Insert(t Term[K]) {
	if t.Cf == nil || t.Cf.IsZero() {
		return
	}
	id := t.Key.Canonical()
	if i, ok := c.index[id]; ok {
		slot := c.terms.At(i)
		sum := slot.Cf.Add(t.Cf)
		if sum.IsZero() {
			c.erase(i)
			return
		}
		slot.Cf = sum
		return
	}
	n := c.terms.Len()
	// Resize cannot fail without a fallible constructor.
	if err := c.terms.Resize(n + 1); err != nil {
		panic("series: " + err.Error())
	}
	*c.terms.At(n) = t
	c.index[id] = n
}

// erase removes term i, shifting the later terms down to keep insertion order.
func (c *Container[K]) erase(i int) {
	n := c.terms.Len()
	delete(c.index, c.terms.At(i).Key.Canonical())
	for j := i; j < n-1; j++ {
		*c.terms.At(j) = *c.terms.At(j + 1)
		c.index[c.terms.At(j).Key.Canonical()] = j
	}
	_ = c.terms.Resize(n - 1)
}

// Terms returns a copy of the terms in insertion order.
func (c *Container[K]) Terms() []Term[K] {
	out := make([]Term[K], 0, c.terms.Len())
	for _, t := range c.terms.All() {
		out = append(out, t)
	}
	return out
}

// Find returns the coefficient stored under k.
func (c *Container[K]) Find(k K) (algebra.Coefficient, bool) {
	i, ok := c.index[k.Canonical()]
	if !ok {
		return nil, false
	}
	return c.terms.At(i).Cf, true
}

// Clone returns an independent copy. Coefficients and keys are immutable
// and are shared.
func (c *Container[K]) Clone() *Container[K] {
	v, err := c.terms.Clone()
	if err != nil {
		panic("series: " + err.Error())
	}
	index := make(map[string]int, len(c.index))
	for k, i := range c.index {
		index[k] = i
	}
	return &Container[K]{terms: v, index: index}
}

// Equal reports whether both containers hold the same set of terms,
// regardless of insertion order.
func (c *Container[K]) Equal(other *Container[K]) bool {
	if c.Len() != other.Len() {
		return false
	}
	for _, t := range c.terms.All() {
		cf, ok := other.Find(t.Key)
		if !ok || !cf.Equal(t.Cf) {
			return false
		}
	}
	return true
}
