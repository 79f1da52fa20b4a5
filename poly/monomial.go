package poly

import (
	"strconv"
	"strings"

	"github.com/njchilds90/gopoisson/algebra"
	"github.com/njchilds90/gopoisson/symbols"
)

// Monomial is a product of symbols raised to signed integer exponents,
// stored positionally against a symbol set.
type Monomial struct{ exps []int64 }

// NewMonomial returns the monomial with the given exponents.
func NewMonomial(exps ...int64) Monomial { return Monomial{exps: append([]int64(nil), exps...)} }

func (m Monomial) Exponents() []int64 { return append([]int64(nil), m.exps...) }
func (m Monomial) Len() int           { return len(m.exps) }

// Canonical implements series.Key.
func (m Monomial) Canonical() string {
	var b strings.Builder
	for i, e := range m.exps {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(e, 10))
	}
	return b.String()
}

// IsUnitary reports whether every exponent is zero.
func (m Monomial) IsUnitary() bool {
	for _, e := range m.exps {
		if e != 0 {
			return false
		}
	}
	return true
}

// MergeArgs re-expresses m, defined over from, against the larger set to.
// Symbols of to that are not in from get a zero exponent.
func (m Monomial) MergeArgs(from, to symbols.Set) (Monomial, error) {
	if len(m.exps) != from.Size() {
		return Monomial{}, algebra.InvalidArgument("monomial of size %d is incompatible with symbol set %s", len(m.exps), from)
	}
	if !from.IsSubsetOf(to) {
		return Monomial{}, algebra.InvalidArgument("symbol set %s is not a subset of %s", from, to)
	}
	out := make([]int64, to.Size())
	for i, e := range m.exps {
		j, _ := to.Index(from.Name(i))
		out[j] = e
	}
	return Monomial{exps: out}, nil
}

func (m Monomial) mul(o Monomial) Monomial {
	out := make([]int64, len(m.exps))
	for i := range m.exps {
		out[i] = m.exps[i] + o.exps[i]
	}
	return Monomial{exps: out}
}

func (m Monomial) shift(i int, delta int64) Monomial {
	out := m.Exponents()
	out[i] += delta
	return Monomial{exps: out}
}

func (m Monomial) render(ss symbols.Set, latex bool) string {
	var parts []string
	for i, e := range m.exps {
		if e == 0 {
			continue
		}
		name := ss.Name(i)
		switch {
		case e == 1:
			parts = append(parts, name)
		case latex:
			parts = append(parts, name+"^{"+strconv.FormatInt(e, 10)+"}")
		case e < 0:
			parts = append(parts, name+"^("+strconv.FormatInt(e, 10)+")")
		default:
			parts = append(parts, name+"^"+strconv.FormatInt(e, 10))
		}
	}
	if latex {
		return strings.Join(parts, " ")
	}
	return strings.Join(parts, "*")
}
