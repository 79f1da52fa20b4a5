// Package divseries implements divisor series: sums of coefficients times
// canonical divisors. They are the coefficients of echeloned Poisson series,
// the result of time integration.
package divseries

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/njchilds90/gopoisson/algebra"
	"github.com/njchilds90/gopoisson/divisor"
	"github.com/njchilds90/gopoisson/series"
	"github.com/njchilds90/gopoisson/symbols"
)

// Series is a divisor series over an inner coefficient kind. The symbol set
// names the frequencies the divisors are expressed in.
//
// Series values are immutable: Insert returns a new series and leaves the
// receiver untouched.
type Series struct {
	ss    symbols.Set
	proto algebra.Coefficient
	terms *series.Container[*divisor.Short]
}

// New returns an empty series whose coefficients are of the same kind as
// proto.
func New(proto algebra.Coefficient, ss symbols.Set) Series {
	if proto == nil {
		panic("divseries: nil coefficient prototype")
	}
	return Series{ss: ss, proto: proto.Zero(), terms: series.NewContainer[*divisor.Short]()}
}

func (s Series) Symbols() symbols.Set            { return s.ss }
func (s Series) Proto() algebra.Coefficient      { return s.proto }
func (s Series) InnerProto() algebra.Coefficient { return s.proto }
func (s Series) Len() int                        { return s.container().Len() }

// Terms returns the terms in insertion order.
func (s Series) Terms() []series.Term[*divisor.Short] { return s.container().Terms() }

func (s Series) container() *series.Container[*divisor.Short] {
	if s.terms == nil {
		return series.NewContainer[*divisor.Short]()
	}
	return s.terms
}

// Insert returns a copy of s with cf/d added. The divisor must be
// compatible with the symbol set and cf must be of the series coefficient
// kind. s is not modified.
func (s Series) Insert(cf algebra.Coefficient, d *divisor.Short) (Series, error) {
	if s.terms == nil {
		return Series{}, algebra.InvalidArgument("cannot insert into an uninitialised divisor series")
	}
	if !algebra.SameKind(cf, s.proto) {
		return Series{}, algebra.InvalidArgument("coefficient of type %T does not match divisor series of %T", cf, s.proto)
	}
	if !d.IsCompatible(s.ss) {
		return Series{}, algebra.InvalidArgument("divisor is not compatible with symbol set %s", s.ss)
	}
	out := Series{ss: s.ss, proto: s.proto, terms: s.terms.Clone()}
	out.terms.Insert(series.Term[*divisor.Short]{Cf: cf, Key: d.Clone()})
	return out, nil
}

func (s Series) with(ss symbols.Set) Series {
	return Series{ss: ss, proto: s.proto, terms: series.NewContainer[*divisor.Short]()}
}

func (s Series) remap(ss symbols.Set) Series {
	if s.ss.Equal(ss) {
		return s
	}
	out := s.with(ss)
	for _, t := range s.Terms() {
		d, err := t.Key.MergeArgs(s.ss, ss)
		if err != nil {
			panic("divseries: " + err.Error())
		}
		out.terms.Insert(series.Term[*divisor.Short]{Cf: t.Cf, Key: d})
	}
	return out
}

// mapCoefficients applies f to every coefficient.
func (s Series) mapCoefficients(f func(algebra.Coefficient) algebra.Coefficient) Series {
	out := s.with(s.ss)
	for _, t := range s.Terms() {
		out.terms.Insert(series.Term[*divisor.Short]{Cf: f(t.Cf), Key: t.Key})
	}
	return out
}

func mustSeries(c algebra.Coefficient) Series {
	o, ok := c.(Series)
	if !ok {
		panic(fmt.Sprintf("divseries: mismatched coefficient kinds: want divseries.Series, got %T", c))
	}
	return o
}

// ============================================================
// Coefficient
// ============================================================

func (s Series) Zero() algebra.Coefficient { return s.with(s.ss) }

func (s Series) One() algebra.Coefficient {
	out := s.with(s.ss)
	out.terms.Insert(series.Term[*divisor.Short]{Cf: s.proto.One(), Key: divisor.New[int16]()})
	return out
}

func (s Series) IsZero() bool { return s.Len() == 0 }

func (s Series) Add(other algebra.Coefficient) algebra.Coefficient {
	o := mustSeries(other)
	ss := s.ss.Merge(o.ss)
	a, b := s.remap(ss), o.remap(ss)
	out := s.with(ss)
	for _, t := range a.Terms() {
		out.terms.Insert(t)
	}
	for _, t := range b.Terms() {
		out.terms.Insert(t)
	}
	return out
}

func (s Series) Neg() algebra.Coefficient {
	return s.mapCoefficients(func(c algebra.Coefficient) algebra.Coefficient { return c.Neg() })
}

func (s Series) Scale(r *big.Rat) algebra.Coefficient {
	return s.mapCoefficients(func(c algebra.Coefficient) algebra.Coefficient { return c.Scale(r) })
}

func (s Series) Equal(other algebra.Coefficient) bool {
	o, ok := other.(Series)
	if !ok {
		return false
	}
	ss := s.ss.Merge(o.ss)
	return s.remap(ss).container().Equal(o.remap(ss).container())
}

// ============================================================
// Calculus
// ============================================================

// Partial differentiates the coefficients. Frequencies are independent of
// every symbol, so the divisors are left alone. Coefficient kinds without
// derivatives differentiate to zero.
func (s Series) Partial(name string) algebra.Coefficient {
	return s.mapCoefficients(func(c algebra.Coefficient) algebra.Coefficient {
		d, ok := c.(algebra.Differentiable)
		if !ok {
			return c.Zero()
		}
		return d.Partial(name)
	})
}

// Integrate integrates the coefficients with respect to name. Integrating
// with respect to a frequency that appears in a divisor is not supported.
func (s Series) Integrate(name string) (algebra.Coefficient, error) {
	if i, ok := s.ss.Index(name); ok {
		for _, t := range s.Terms() {
			for _, e := range t.Key.Entries() {
				if e.Values[i] != 0 {
					return nil, algebra.InvalidArgument("unable to integrate a divisor series with respect to %q, which appears in a divisor", name)
				}
			}
		}
	}
	out := s.with(s.ss)
	for _, t := range s.Terms() {
		ig, ok := t.Cf.(algebra.Integrable)
		if !ok {
			return nil, algebra.InvalidArgument("unable to integrate a divisor series: coefficient type %T is not integrable", t.Cf)
		}
		v, err := ig.Integrate(name)
		if err != nil {
			return nil, err
		}
		out.terms.Insert(series.Term[*divisor.Short]{Cf: v, Key: t.Key})
	}
	return out, nil
}

// ============================================================
// Single coefficient view
// ============================================================

// IsSingleCoefficient reports whether s is empty or consists of one term
// over the empty divisor.
func (s Series) IsSingleCoefficient() bool {
	switch s.Len() {
	case 0:
		return true
	case 1:
		return s.Terms()[0].Key.Len() == 0
	}
	return false
}

func (s Series) SingleCoefficient() algebra.Coefficient {
	if s.Len() == 0 {
		return s.proto.Zero()
	}
	return s.Terms()[0].Cf
}

func (s Series) Sin() (algebra.Coefficient, error) { return s.sinCos(false) }
func (s Series) Cos() (algebra.Coefficient, error) { return s.sinCos(true) }

func (s Series) sinCos(cos bool) (algebra.Coefficient, error) {
	v, err := algebra.NestedSinCos(s, cos)
	if err != nil {
		return nil, err
	}
	out, err := s.with(s.ss).Insert(v, divisor.New[int16]())
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ============================================================
// Printing
// ============================================================

func (s Series) String() string { return s.render(false) }
func (s Series) LaTeX() string  { return s.render(true) }

func (s Series) render(latex bool) string {
	terms := s.Terms()
	if len(terms) == 0 {
		return "0"
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		cf := t.Cf.String()
		div := t.Key.String(s.ss)
		sep := "*"
		if latex {
			cf, div, sep = t.Cf.LaTeX(), t.Key.LaTeX(s.ss), " "
		}
		if strings.Contains(cf, " + ") {
			if latex {
				cf = "\\left(" + cf + "\\right)"
			} else {
				cf = "(" + cf + ")"
			}
		}
		if t.Key.Len() == 0 {
			parts[i] = cf
		} else {
			parts[i] = cf + sep + div
		}
	}
	return strings.Join(parts, " + ")
}
