package poisson

import (
	"github.com/njchilds90/gopoisson/algebra"
	"github.com/njchilds90/gopoisson/divisor"
	"github.com/njchilds90/gopoisson/divseries"
	"github.com/njchilds90/gopoisson/symbols"
)

// FrequencyName is the name of the frequency symbol associated with the
// angle name in the divisors produced by TimeIntegrate.
func FrequencyName(name string) string { return "\\nu_{" + name + "}" }

// TimeIntegrate integrates s with respect to time, reading every symbol x as
// the linear function nu_x*t. Each term a*cos(k·x) becomes
// a/g * 1/(k/g·nu) * sin(k·x), with g the gcd of the multipliers, and each
// sine term becomes the matching cosine with the opposite sign. The result
// is an echeloned series whose coefficients are divisor series.
func (s *Series) TimeIntegrate() (*Series, error) {
	if _, ok := s.proto.(divseries.Series); ok {
		return nil, algebra.InvalidArgument("cannot time-integrate a Poisson series whose coefficients are already divisor series")
	}
	freqs := make([]string, s.ss.Size())
	for i := range freqs {
		freqs[i] = FrequencyName(s.ss.Name(i))
	}
	nu := symbols.New(freqs...)
	// pos maps a position in s.ss to the position of its frequency in nu.
	pos := make([]int, len(freqs))
	for i, f := range freqs {
		pos[i], _ = nu.Index(f)
	}

	proto := divseries.New(s.proto, nu)
	out := New(proto, s.ss)
	for _, t := range s.Terms() {
		mults := t.Key.Multipliers()
		var g int64
		for _, m := range mults {
			g = gcd(g, m)
		}
		if g == 0 {
			return nil, algebra.InvalidArgument("an invalid trigonometric term was encountered while attempting a time integration")
		}
		tuple := make([]int64, len(mults))
		for i, m := range mults {
			tuple[pos[i]] = m / g
		}
		sign := int64(1)
		if !t.Key.IsCos() {
			sign = -1
		}
		if leadingNegative(tuple) {
			for i := range tuple {
				tuple[i] = -tuple[i]
			}
			sign = -sign
		}
		d := divisor.New[int16]()
		if err := d.Insert(tuple, 1); err != nil {
			return nil, err
		}
		cf, err := divseries.New(s.proto, nu).Insert(t.Cf.Scale(algebra.Quo(sign*g)), d)
		if err != nil {
			return nil, err
		}
		out.insert(cf, t.Key.WithFlavour(!t.Key.IsCos()))
	}
	return out, nil
}

func leadingNegative(tuple []int64) bool {
	for _, v := range tuple {
		if v != 0 {
			return v < 0
		}
	}
	return false
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
