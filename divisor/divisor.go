// Package divisor implements the canonical divisor: a product of linear
// denominators 1/(a·ν)^e kept in a normal form so that two divisors
// describing the same product compare and hash equal.
//
// Every tuple a stored in a divisor is non-zero, primitive (the gcd of its
// components is 1) and has a positive first nonzero component; every
// exponent is positive. Entries form a set keyed by the tuple: inserting an
// existing tuple adds to its exponent. Failed insertions leave the divisor
// unchanged.
package divisor

import (
	"encoding/binary"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/njchilds90/gopoisson/algebra"
	"github.com/njchilds90/gopoisson/symbols"
)

// Signed is the set of component and exponent types a divisor can use.
type Signed interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// Entry is one factor 1/(Values·ν)^Exponent.
type Entry[T Signed] struct {
	Values   []T
	Exponent T
}

// Divisor is a canonical divisor with components and exponents of type T.
// The zero value is the empty divisor, which represents 1.
type Divisor[T Signed] struct {
	entries []Entry[T]
	index   map[string]int
}

// Short is the divisor produced by time integration.
type Short = Divisor[int16]

// New returns an empty divisor.
func New[T Signed]() *Divisor[T] { return &Divisor[T]{} }

func (d *Divisor[T]) Len() int { return len(d.entries) }

// Clear removes every entry.
func (d *Divisor[T]) Clear() {
	d.entries = nil
	d.index = nil
}

// Entries returns a copy of the entries in insertion order.
func (d *Divisor[T]) Entries() []Entry[T] {
	out := make([]Entry[T], len(d.entries))
	for i, e := range d.entries {
		out[i] = Entry[T]{Values: append([]T(nil), e.Values...), Exponent: e.Exponent}
	}
	return out
}

// Clone returns an independent copy of d.
func (d *Divisor[T]) Clone() *Divisor[T] {
	out := &Divisor[T]{entries: d.Entries()}
	out.reindex()
	return out
}

func (d *Divisor[T]) reindex() {
	d.index = make(map[string]int, len(d.entries))
	for i, e := range d.entries {
		d.index[tupleKey(e.Values)] = i
	}
}

// ============================================================
// Insertion
// ============================================================

// safeAbs is the largest power of two whose negation is also representable
// in T. Components are bounded by it so negation and gcd cannot overflow.
func safeAbs[T Signed]() int64 {
	v := T(1)
	for v<<1 > 0 {
		v <<= 1
	}
	return int64(v)
}

func maxOf[T Signed]() int64 {
	s := safeAbs[T]()
	return s - 1 + s
}

func fits[T Signed](v int64) bool { return int64(T(v)) == v }

// Insert adds the factor 1/(values·ν)^exponent.
func (d *Divisor[T]) Insert(values []int64, exponent int64) error {
	if !fits[T](exponent) {
		return algebra.InvalidArgument("divisor exponent %d is out of range", exponent)
	}
	if exponent <= 0 {
		return algebra.InvalidArgument("a divisor exponent must be positive, got %d", exponent)
	}
	if len(values) == 0 {
		return algebra.InvalidArgument("cannot insert an empty tuple into a divisor")
	}
	if len(d.entries) > 0 && len(d.entries[0].Values) != len(values) {
		return algebra.InvalidArgument("divisor tuple has %d components, existing tuples have %d",
			len(values), len(d.entries[0].Values))
	}
	bound := safeAbs[T]()
	tuple := make([]T, len(values))
	var g int64
	first := int64(0)
	for i, v := range values {
		if !fits[T](v) || v > bound || v < -bound {
			return algebra.InvalidArgument("divisor component %d is out of range", v)
		}
		tuple[i] = T(v)
		if first == 0 {
			first = v
		}
		g = gcd(g, v)
	}
	switch {
	case first == 0:
		return algebra.InvalidArgument("cannot insert a tuple of zeroes into a divisor")
	case first < 0:
		return algebra.InvalidArgument("the first nonzero component of a divisor tuple must be positive")
	case g != 1:
		return algebra.InvalidArgument("the components of a divisor tuple must be coprime, gcd is %d", g)
	}

	key := tupleKey(tuple)
	if i, ok := d.index[key]; ok {
		cur := int64(d.entries[i].Exponent)
		if cur > maxOf[T]()-exponent {
			return algebra.InvalidArgument("divisor exponent overflow: %d + %d", cur, exponent)
		}
		d.entries[i].Exponent = T(cur + exponent)
		return nil
	}
	if d.index == nil {
		d.index = map[string]int{}
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, Entry[T]{Values: tuple, Exponent: T(exponent)})
	return nil
}

// InsertBig is Insert for arbitrary precision input. Values that do not fit
// the component type are rejected before anything is modified.
func (d *Divisor[T]) InsertBig(values []*big.Int, exponent *big.Int) error {
	if !exponent.IsInt64() {
		return algebra.InvalidArgument("divisor exponent %s is out of range", exponent)
	}
	small := make([]int64, len(values))
	for i, v := range values {
		if !v.IsInt64() {
			return algebra.InvalidArgument("divisor component %s is out of range", v)
		}
		small[i] = v.Int64()
	}
	return d.Insert(small, exponent.Int64())
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func tupleKey[T Signed](values []T) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(v), 10))
	}
	return b.String()
}

// ============================================================
// Identity
// ============================================================

// Equal reports set equality of the (tuple, exponent) entries.
func (d *Divisor[T]) Equal(o *Divisor[T]) bool {
	if d.Len() != o.Len() {
		return false
	}
	for _, e := range d.entries {
		i, ok := o.index[tupleKey(e.Values)]
		if !ok || o.entries[i].Exponent != e.Exponent {
			return false
		}
	}
	return true
}

// Hash is the sum of the hashes of the tuples. Exponents do not take part,
// and the empty divisor hashes to 0.
func (d *Divisor[T]) Hash() uint64 {
	var h uint64
	for _, e := range d.entries {
		h += hashTuple(e.Values)
	}
	return h
}

func hashTuple[T Signed](values []T) uint64 {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[8*i:], uint64(int64(v)))
	}
	return xxhash.Sum64(buf)
}

// Canonical implements series.Key. It does not depend on insertion order.
func (d *Divisor[T]) Canonical() string {
	parts := make([]string, len(d.entries))
	for i, e := range d.entries {
		parts[i] = tupleKey(e.Values) + "^" + strconv.FormatInt(int64(e.Exponent), 10)
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

// ============================================================
// Symbol set predicates
// ============================================================

// IsCompatible reports whether every tuple has one component per symbol.
func (d *Divisor[T]) IsCompatible(ss symbols.Set) bool {
	for _, e := range d.entries {
		if len(e.Values) != ss.Size() {
			return false
		}
	}
	return true
}

// IsIgnorable is always false: a divisor never vanishes.
func (d *Divisor[T]) IsIgnorable(symbols.Set) bool { return false }

// IsUnitary reports whether d is the empty divisor. It fails when d is not
// compatible with ss.
func (d *Divisor[T]) IsUnitary(ss symbols.Set) (bool, error) {
	if !d.IsCompatible(ss) {
		return false, algebra.InvalidArgument("divisor is not compatible with symbol set %s", ss)
	}
	return d.Len() == 0, nil
}

// MergeArgs returns d re-expressed over to, with zero components for the
// symbols of to missing from from. from must be a subset of to; equal sets
// are accepted and yield a copy. An empty divisor always succeeds.
func (d *Divisor[T]) MergeArgs(from, to symbols.Set) (*Divisor[T], error) {
	if d.Len() == 0 {
		return New[T](), nil
	}
	if !d.IsCompatible(from) {
		return nil, algebra.InvalidArgument("divisor is not compatible with symbol set %s", from)
	}
	if !from.IsSubsetOf(to) {
		return nil, algebra.InvalidArgument("symbol set %s is not a subset of %s", from, to)
	}
	pos := make([]int, from.Size())
	for i := range pos {
		pos[i], _ = to.Index(from.Name(i))
	}
	out := &Divisor[T]{entries: make([]Entry[T], len(d.entries))}
	for i, e := range d.entries {
		vals := make([]T, to.Size())
		for j, v := range e.Values {
			vals[pos[j]] = v
		}
		out.entries[i] = Entry[T]{Values: vals, Exponent: e.Exponent}
	}
	out.reindex()
	return out, nil
}

// ============================================================
// Printing
// ============================================================

// String renders d over ss as 1/[(a·ν)^e*...].
func (d *Divisor[T]) String(ss symbols.Set) string {
	if d.Len() == 0 {
		return "1"
	}
	parts := make([]string, len(d.entries))
	for i, e := range d.entries {
		parts[i] = "(" + linear(e.Values, ss, "*") + ")"
		if e.Exponent != 1 {
			parts[i] += "^" + strconv.FormatInt(int64(e.Exponent), 10)
		}
	}
	return "1/[" + strings.Join(parts, "*") + "]"
}

func (d *Divisor[T]) LaTeX(ss symbols.Set) string {
	if d.Len() == 0 {
		return "1"
	}
	var b strings.Builder
	for _, e := range d.entries {
		b.WriteString("\\left(" + linear(e.Values, ss, " ") + "\\right)")
		if e.Exponent != 1 {
			b.WriteString("^{" + strconv.FormatInt(int64(e.Exponent), 10) + "}")
		}
	}
	return "\\frac{1}{" + b.String() + "}"
}

func linear[T Signed](values []T, ss symbols.Set, mulSep string) string {
	var b strings.Builder
	for i, v := range values {
		if v == 0 {
			continue
		}
		n := int64(v)
		switch {
		case b.Len() == 0 && n < 0:
			b.WriteString("-")
		case b.Len() > 0 && n < 0:
			b.WriteString(" - ")
		case b.Len() > 0:
			b.WriteString(" + ")
		}
		if n < 0 {
			n = -n
		}
		if n != 1 {
			b.WriteString(strconv.FormatInt(n, 10) + mulSep)
		}
		if i < ss.Size() {
			b.WriteString(ss.Name(i))
		} else {
			b.WriteString("?")
		}
	}
	return b.String()
}
