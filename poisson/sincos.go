package poisson

import (
	"github.com/njchilds90/gopoisson/algebra"
	"github.com/njchilds90/gopoisson/symbols"
	"github.com/njchilds90/gopoisson/trig"
)

// FallbackReason names why the linearised sine/cosine could not be used.
type FallbackReason int

const (
	NoFallback FallbackReason = iota
	// NoPolynomial: no polynomial appears in the coefficient hierarchy.
	NoPolynomial
	EmptySeries
	NotSingleCoefficient
	// NotIntegralCombination: the polynomial is not sum n_i*x_i with integer n_i.
	NotIntegralCombination
	DepthExceeded
)

func (r FallbackReason) String() string {
	switch r {
	case NoFallback:
		return "none"
	case NoPolynomial:
		return "no polynomial in the coefficient hierarchy"
	case EmptySeries:
		return "empty series"
	case NotSingleCoefficient:
		return "series is not a single coefficient"
	case NotIntegralCombination:
		return "not an integral linear combination of symbols"
	case DepthExceeded:
		return "coefficient hierarchy too deep"
	}
	return "unknown"
}

// Sin returns the sine of s.
func (s *Series) Sin() (*Series, error) { return s.sinCos(false) }

// Cos returns the cosine of s.
func (s *Series) Cos() (*Series, error) { return s.sinCos(true) }

func (s *Series) sinCos(cos bool) (*Series, error) {
	if out, reason := s.Linearize(cos); reason == NoFallback {
		return out, nil
	}
	return s.genericSinCos(cos)
}

// Linearize tries to read s as an integral linear combination of symbols
// a·x and returns the one-term series cos(a·x) or sin(a·x). On failure it
// returns the reason and a nil series; it never fails otherwise.
func (s *Series) Linearize(cos bool) (*Series, FallbackReason) {
	if !algebra.HasPolynomial(s.proto) {
		return nil, NoPolynomial
	}
	if s.Len() == 0 {
		return nil, EmptySeries
	}
	if !s.IsSingleCoefficient() {
		return nil, NotSingleCoefficient
	}
	c := s.SingleCoefficient()
	for depth := 0; !algebra.IsPolynomial(c); depth++ {
		if depth >= algebra.MaxDepth {
			return nil, DepthExceeded
		}
		n, ok := c.(algebra.Nested)
		if !ok || !n.IsSingleCoefficient() {
			return nil, NotSingleCoefficient
		}
		c = n.SingleCoefficient()
		if c.IsZero() {
			return nil, EmptySeries
		}
	}
	lc, ok := c.(algebra.LinearCombiner)
	if !ok {
		return nil, NotIntegralCombination
	}
	comb, err := lc.IntegralCombination()
	if err != nil || len(comb) == 0 {
		return nil, NotIntegralCombination
	}

	names := make([]string, len(comb))
	mults := make([]int64, len(comb))
	for i, t := range comb {
		if !t.Multiplier.IsInt64() {
			return nil, NotIntegralCombination
		}
		names[i], mults[i] = t.Name, t.Multiplier.Int64()
	}
	cf := s.proto.One()
	if mults[0] < 0 {
		for i := range mults {
			mults[i] = -mults[i]
		}
		// sin(-a) = -sin(a), cos(-a) = cos(a).
		if !cos {
			cf = cf.Neg()
		}
	}
	out := New(s.proto, symbols.New(names...))
	out.insert(cf, trig.New(mults, cos))
	return out, NoFallback
}

// genericSinCos is only defined for series that reduce to one coefficient.
func (s *Series) genericSinCos(cos bool) (*Series, error) {
	if !s.IsSingleCoefficient() {
		return nil, algebra.InvalidArgument("cannot compute the %s of a Poisson series which is not a single coefficient", fnName(cos))
	}
	v, err := algebra.SinCos(s.SingleCoefficient(), cos)
	if err != nil {
		return nil, err
	}
	out := New(s.proto, symbols.Set{})
	if err := out.Insert(v, trig.Cos()); err != nil {
		return nil, err
	}
	return out, nil
}

func fnName(cos bool) string {
	if cos {
		return "cosine"
	}
	return "sine"
}
