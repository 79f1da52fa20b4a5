// Package poisson implements Poisson series, sums of coefficients times
// cosines and sines of integral linear combinations of symbols, together
// with their calculus: sine and cosine of a series, integration with respect
// to a symbol and time integration into echeloned form.
//
// All operations are pure functions of their receiver. A Series is never
// modified once it has been returned to the caller, so independent series
// may be used from any number of goroutines.
package poisson

import (
	"math/big"
	"strings"

	"github.com/njchilds90/gopoisson/algebra"
	"github.com/njchilds90/gopoisson/series"
	"github.com/njchilds90/gopoisson/symbols"
	"github.com/njchilds90/gopoisson/trig"
)

// Series is a Poisson series. Every key is stored against the symbol set of
// the series and every coefficient is of the kind of the prototype.
type Series struct {
	ss    symbols.Set
	proto algebra.Coefficient
	terms *series.Container[trig.Key]
}

// New returns an empty series over ss with coefficients of the kind of proto.
func New(proto algebra.Coefficient, ss symbols.Set) *Series {
	if proto == nil {
		panic("poisson: nil coefficient prototype")
	}
	return &Series{ss: ss, proto: proto.Zero(), terms: series.NewContainer[trig.Key]()}
}

// FromCoefficient returns the series consisting of c alone.
func FromCoefficient(c algebra.Coefficient) *Series {
	s := New(c, symbols.Set{})
	s.terms.Insert(series.Term[trig.Key]{Cf: c, Key: trig.Cos()})
	return s
}

// Insert adds cf times the function of key. Keys are canonicalised first;
// sine keys with an all-zero argument vanish and are dropped.
func (s *Series) Insert(cf algebra.Coefficient, key trig.Key) error {
	if !key.IsCompatible(s.ss) {
		return algebra.InvalidArgument("trigonometric key of size %d is incompatible with symbol set %s", key.Len(), s.ss)
	}
	if !algebra.SameKind(cf, s.proto) {
		return algebra.InvalidArgument("coefficient of type %T does not match a Poisson series over %T", cf, s.proto)
	}
	s.insert(cf, key)
	return nil
}

func (s *Series) insert(cf algebra.Coefficient, key trig.Key) {
	key, flipped := key.Canonicalize()
	if key.IsIgnorable() {
		return
	}
	if flipped && !key.IsCos() {
		cf = cf.Neg()
	}
	s.terms.Insert(series.Term[trig.Key]{Cf: cf, Key: key})
}

func (s *Series) Len() int                   { return s.terms.Len() }
func (s *Series) Symbols() symbols.Set       { return s.ss }
func (s *Series) Proto() algebra.Coefficient { return s.proto }

// Terms returns the terms in insertion order.
func (s *Series) Terms() []series.Term[trig.Key] { return s.terms.Terms() }

// IsSingleCoefficient reports whether s is empty or made of one term with a
// unitary key.
func (s *Series) IsSingleCoefficient() bool {
	switch s.Len() {
	case 0:
		return true
	case 1:
		return s.Terms()[0].Key.IsUnitary()
	}
	return false
}

// SingleCoefficient returns the lone coefficient of s, or zero when s is
// empty. Only meaningful when IsSingleCoefficient holds.
func (s *Series) SingleCoefficient() algebra.Coefficient {
	if s.Len() == 0 {
		return s.proto.Zero()
	}
	return s.Terms()[0].Cf
}

func (s *Series) Clone() *Series {
	return &Series{ss: s.ss, proto: s.proto, terms: s.terms.Clone()}
}

// remap re-expresses s over the superset ss.
func (s *Series) remap(ss symbols.Set) (*Series, error) {
	if s.ss.Equal(ss) {
		return s, nil
	}
	out := New(s.proto, ss)
	for _, t := range s.Terms() {
		k, err := t.Key.MergeArgs(s.ss, ss)
		if err != nil {
			return nil, err
		}
		out.insert(t.Cf, k)
	}
	return out, nil
}

// ============================================================
// Arithmetic
// ============================================================

// Add returns s + o. The symbol sets are merged first.
func (s *Series) Add(o *Series) (*Series, error) {
	if !algebra.SameKind(s.proto, o.proto) {
		return nil, algebra.InvalidArgument("cannot add Poisson series over %T and %T", s.proto, o.proto)
	}
	ss := s.ss.Merge(o.ss)
	a, err := s.remap(ss)
	if err != nil {
		return nil, err
	}
	b, err := o.remap(ss)
	if err != nil {
		return nil, err
	}
	out := a.Clone()
	for _, t := range b.Terms() {
		out.insert(t.Cf, t.Key)
	}
	return out, nil
}

func (s *Series) Neg() *Series {
	out := New(s.proto, s.ss)
	for _, t := range s.Terms() {
		out.insert(t.Cf.Neg(), t.Key)
	}
	return out
}

// Equal reports whether s and o hold the same terms once their symbol sets
// are reconciled.
func (s *Series) Equal(o *Series) bool {
	if !algebra.SameKind(s.proto, o.proto) {
		return false
	}
	ss := s.ss.Merge(o.ss)
	a, err := s.remap(ss)
	if err != nil {
		return false
	}
	b, err := o.remap(ss)
	if err != nil {
		return false
	}
	return a.terms.Equal(b.terms)
}

// Partial differentiates s with respect to name, through both the
// coefficients and the trigonometric arguments.
func (s *Series) Partial(name string) (*Series, error) {
	out := New(s.proto, s.ss)
	i, inKey := s.ss.Index(name)
	for _, t := range s.Terms() {
		d, ok := t.Cf.(algebra.Differentiable)
		if !ok {
			return nil, algebra.InvalidArgument("coefficient type %T is not differentiable", t.Cf)
		}
		out.insert(d.Partial(name), t.Key)
		if !inKey {
			continue
		}
		n := t.Key.Multipliers()[i]
		if n == 0 {
			continue
		}
		// d/dx cos(n x) = -n sin(n x), d/dx sin(n x) = n cos(n x).
		f := new(big.Rat).SetInt64(n)
		if t.Key.IsCos() {
			f.Neg(f)
		}
		out.insert(t.Cf.Scale(f), t.Key.WithFlavour(!t.Key.IsCos()))
	}
	return out, nil
}

// ============================================================
// Printing
// ============================================================

func (s *Series) String() string { return s.render(false) }
func (s *Series) LaTeX() string  { return s.render(true) }

func (s *Series) render(latex bool) string {
	terms := s.Terms()
	if len(terms) == 0 {
		return "0"
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		cf, fn, sep := t.Cf.String(), t.Key.String(s.ss), "*"
		if latex {
			cf, fn, sep = t.Cf.LaTeX(), t.Key.LaTeX(s.ss), " "
		}
		switch {
		case t.Key.IsUnitary():
			parts[i] = cf
			continue
		case cf == "1":
			parts[i] = fn
			continue
		case cf == "-1":
			parts[i] = "-" + fn
			continue
		}
		if strings.Contains(cf, " + ") {
			if latex {
				cf = "\\left(" + cf + "\\right)"
			} else {
				cf = "(" + cf + ")"
			}
		}
		parts[i] = cf + sep + fn
	}
	return strings.Join(parts, " + ")
}
