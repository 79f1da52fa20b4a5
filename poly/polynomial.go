// Package poly implements multivariate polynomials with exact rational
// coefficients and signed integer exponents. Polynomials are the leaf
// coefficient kind on which the Poisson series calculus linearises sine and
// cosine and performs integration by parts.
package poly

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/njchilds90/gopoisson/algebra"
	"github.com/njchilds90/gopoisson/series"
	"github.com/njchilds90/gopoisson/symbols"
)

// ============================================================
// Polynomial
// ============================================================

// Polynomial is an immutable sum of rational multiples of monomials.
// The zero value is the zero polynomial.
type Polynomial struct {
	ss    symbols.Set
	terms *series.Container[Monomial]
}

func empty(ss symbols.Set) Polynomial {
	return Polynomial{ss: ss, terms: series.NewContainer[Monomial]()}
}

// Var returns the polynomial consisting of the symbol name.
func Var(name string) Polynomial {
	p := empty(symbols.New(name))
	p.insert(algebra.R(1), NewMonomial(1))
	return p
}

// Const returns the constant polynomial r.
func Const(r algebra.Rational) Polynomial {
	p := empty(symbols.Set{})
	p.insert(r, NewMonomial())
	return p
}

// FromExponents returns the single term cf * prod name^e.
func FromExponents(cf algebra.Rational, exps map[string]int64) Polynomial {
	names := make([]string, 0, len(exps))
	for n := range exps {
		names = append(names, n)
	}
	p := empty(symbols.New(names...))
	m := make([]int64, p.ss.Size())
	for i := range m {
		m[i] = exps[p.ss.Name(i)]
	}
	p.insert(cf, Monomial{exps: m})
	return p
}

// insert is only used while a polynomial is being built.
func (p Polynomial) insert(cf algebra.Rational, m Monomial) {
	p.terms.Insert(series.Term[Monomial]{Cf: cf, Key: m})
}

func (p Polynomial) Symbols() symbols.Set { return p.ss }
func (p Polynomial) Len() int {
	if p.terms == nil {
		return 0
	}
	return p.terms.Len()
}

// Terms returns the terms in insertion order.
func (p Polynomial) Terms() []series.Term[Monomial] {
	if p.terms == nil {
		return nil
	}
	return p.terms.Terms()
}

// PolynomialTag marks Polynomial as the polynomial coefficient kind.
func (Polynomial) PolynomialTag() {}

func (p Polynomial) Zero() algebra.Coefficient { return empty(symbols.Set{}) }
func (p Polynomial) One() algebra.Coefficient  { return Const(algebra.R(1)) }
func (p Polynomial) IsZero() bool              { return p.Len() == 0 }

func mustPoly(c algebra.Coefficient) Polynomial {
	o, ok := c.(Polynomial)
	if !ok {
		panic("poly: mismatched coefficient kinds: want poly.Polynomial, got " + typeName(c))
	}
	return o
}

// remap re-expresses p over the superset ss.
func (p Polynomial) remap(ss symbols.Set) Polynomial {
	if p.ss.Equal(ss) && p.terms != nil {
		return p
	}
	out := empty(ss)
	for _, t := range p.Terms() {
		m, err := t.Key.MergeArgs(p.ss, ss)
		if err != nil {
			panic("poly: " + err.Error())
		}
		out.terms.Insert(series.Term[Monomial]{Cf: t.Cf, Key: m})
	}
	return out
}

// ============================================================
// Arithmetic
// ============================================================

func (p Polynomial) Add(other algebra.Coefficient) algebra.Coefficient {
	return p.Plus(mustPoly(other))
}

// Plus returns p + o.
func (p Polynomial) Plus(o Polynomial) Polynomial {
	ss := p.ss.Merge(o.ss)
	a, b := p.remap(ss), o.remap(ss)
	out := empty(ss)
	for _, t := range a.Terms() {
		out.terms.Insert(t)
	}
	for _, t := range b.Terms() {
		out.terms.Insert(t)
	}
	return out
}

// Sub returns p - o.
func (p Polynomial) Sub(o Polynomial) Polynomial { return p.Plus(o.negate()) }

func (p Polynomial) Neg() algebra.Coefficient { return p.negate() }

func (p Polynomial) negate() Polynomial {
	out := empty(p.ss)
	for _, t := range p.Terms() {
		out.terms.Insert(series.Term[Monomial]{Cf: t.Cf.Neg(), Key: t.Key})
	}
	return out
}

func (p Polynomial) Scale(r *big.Rat) algebra.Coefficient { return p.ScaleRat(r) }

// ScaleRat returns r*p.
func (p Polynomial) ScaleRat(r *big.Rat) Polynomial {
	out := empty(p.ss)
	for _, t := range p.Terms() {
		out.terms.Insert(series.Term[Monomial]{Cf: t.Cf.Scale(r), Key: t.Key})
	}
	return out
}

// Mul returns p*o.
func (p Polynomial) Mul(o Polynomial) Polynomial {
	ss := p.ss.Merge(o.ss)
	a, b := p.remap(ss), o.remap(ss)
	out := empty(ss)
	for _, x := range a.Terms() {
		for _, y := range b.Terms() {
			cf := x.Cf.(algebra.Rational).Mul(y.Cf.(algebra.Rational))
			out.terms.Insert(series.Term[Monomial]{Cf: cf, Key: x.Key.mul(y.Key)})
		}
	}
	return out
}

func (p Polynomial) Equal(other algebra.Coefficient) bool {
	o, ok := other.(Polynomial)
	if !ok {
		return false
	}
	ss := p.ss.Merge(o.ss)
	return p.remap(ss).terms.Equal(o.remap(ss).terms)
}

// ============================================================
// Calculus
// ============================================================

// Partial returns the partial derivative of p with respect to name.
func (p Polynomial) Partial(name string) algebra.Coefficient {
	i, ok := p.ss.Index(name)
	out := empty(p.ss)
	if !ok {
		return out
	}
	for _, t := range p.Terms() {
		e := t.Key.exps[i]
		if e == 0 {
			continue
		}
		out.terms.Insert(series.Term[Monomial]{Cf: t.Cf.Scale(big.NewRat(e, 1)), Key: t.Key.shift(i, -1)})
	}
	return out
}

// Integrate returns an antiderivative of p with respect to name. It fails
// when a term carries name to the power -1.
func (p Polynomial) Integrate(name string) (algebra.Coefficient, error) {
	q := p.remap(p.ss.Add(name))
	i, _ := q.ss.Index(name)
	out := empty(q.ss)
	for _, t := range q.Terms() {
		e := t.Key.exps[i]
		if e == -1 {
			return nil, algebra.InvalidArgument("unable to integrate a polynomial term with exponent -1 in %q", name)
		}
		out.terms.Insert(series.Term[Monomial]{Cf: t.Cf.Scale(algebra.Quo(e + 1)), Key: t.Key.shift(i, 1)})
	}
	return out, nil
}

// Degree returns the highest exponent of name in p. The zero polynomial and
// polynomials without name have degree 0. Negative degrees are rejected.
func (p Polynomial) Degree(name string) (int64, error) {
	i, ok := p.ss.Index(name)
	if !ok || p.Len() == 0 {
		return 0, nil
	}
	var deg int64
	for k, t := range p.Terms() {
		if e := t.Key.exps[i]; k == 0 || e > deg {
			deg = e
		}
	}
	if deg < 0 {
		return 0, algebra.InvalidArgument("polynomial has negative degree %d in %q", deg, name)
	}
	return deg, nil
}

// IntegralCombination reads p as sum n_i*x_i with integer n_i. Every term
// must be a single symbol to the first power with an integral coefficient.
func (p Polynomial) IntegralCombination() ([]algebra.LinearTerm, error) {
	var out []algebra.LinearTerm
	for _, t := range p.Terms() {
		idx := -1
		for i, e := range t.Key.exps {
			switch {
			case e == 0:
			case e == 1 && idx < 0:
				idx = i
			default:
				return nil, algebra.InvalidArgument("polynomial term %s is not linear in a single symbol", p.termString(t, false))
			}
		}
		if idx < 0 {
			return nil, algebra.InvalidArgument("polynomial has a constant term")
		}
		n, ok := t.Cf.(algebra.Rational).Int()
		if !ok {
			return nil, algebra.InvalidArgument("coefficient %s of %q is not an integer", t.Cf, p.ss.Name(idx))
		}
		out = append(out, algebra.LinearTerm{Name: p.ss.Name(idx), Multiplier: n})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}

// ============================================================
// Single coefficient view
// ============================================================

// IsSingleCoefficient reports whether p is a constant.
func (p Polynomial) IsSingleCoefficient() bool {
	switch p.Len() {
	case 0:
		return true
	case 1:
		return p.Terms()[0].Key.IsUnitary()
	}
	return false
}

// SingleCoefficient returns the constant value of p. Only meaningful when
// IsSingleCoefficient holds.
func (p Polynomial) SingleCoefficient() algebra.Coefficient {
	if p.Len() == 0 {
		return algebra.R(0)
	}
	return p.Terms()[0].Cf
}

func (p Polynomial) InnerProto() algebra.Coefficient { return algebra.R(0) }

func (p Polynomial) Sin() (algebra.Coefficient, error) { return p.sinCos(false) }
func (p Polynomial) Cos() (algebra.Coefficient, error) { return p.sinCos(true) }

func (p Polynomial) sinCos(cos bool) (algebra.Coefficient, error) {
	v, err := algebra.NestedSinCos(p, cos)
	if err != nil {
		return nil, err
	}
	return Const(v.(algebra.Rational)), nil
}

// ============================================================
// Printing
// ============================================================

func (p Polynomial) String() string { return p.render(false) }
func (p Polynomial) LaTeX() string  { return p.render(true) }

func (p Polynomial) render(latex bool) string {
	terms := p.Terms()
	if len(terms) == 0 {
		return "0"
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = p.termString(t, latex)
	}
	return strings.Join(parts, " + ")
}

func (p Polynomial) termString(t series.Term[Monomial], latex bool) string {
	mono := t.Key.render(p.ss, latex)
	cf := t.Cf.(algebra.Rational)
	cfs := cf.String()
	if latex {
		cfs = cf.LaTeX()
	}
	sep := "*"
	if latex {
		sep = " "
	}
	switch {
	case mono == "":
		return cfs
	case cf.Equal(algebra.R(1)):
		return mono
	case cf.Equal(algebra.R(-1)):
		return "-" + mono
	}
	return cfs + sep + mono
}

func typeName(c algebra.Coefficient) string {
	if c == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", c)
}
