package poisson

import (
	"fmt"

	"github.com/njchilds90/gopoisson/algebra"
	"github.com/njchilds90/gopoisson/trig"
)

// Integrate returns an antiderivative of s with respect to name.
//
// Terms whose argument does not contain name integrate through their
// coefficient. Terms whose coefficient does not contain name integrate
// through their key. When both contain name the coefficient must be a
// polynomial and the term is integrated by parts, once per power of name.
func (s *Series) Integrate(name string) (*Series, error) {
	out := New(s.proto, s.ss)
	for _, t := range s.Terms() {
		if err := integrateTerm(out, t.Cf, t.Key, name); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// integrateTerm adds the integral of cf times the function of key to out.
func integrateTerm(out *Series, cf algebra.Coefficient, key trig.Key, name string) error {
	n, ikey := key.Integrate(name, out.ss)
	if n == 0 {
		ig, ok := cf.(algebra.Integrable)
		if !ok {
			return algebra.InvalidArgument("unable to perform Poisson series integration: coefficient type is not integrable")
		}
		v, err := ig.Integrate(name)
		if err != nil {
			return err
		}
		out.insert(v, key)
		return nil
	}

	d, ok := cf.(algebra.Differentiable)
	if !ok {
		return algebra.InvalidArgument("unable to perform Poisson series integration: coefficient type is not differentiable")
	}
	if d.Partial(name).IsZero() {
		out.insert(cf.Scale(algebra.Quo(n)), ikey)
		return nil
	}

	if !algebra.IsPolynomial(cf) {
		return algebra.InvalidArgument("unable to perform Poisson series integration: coefficient type is not a polynomial")
	}
	deg, err := cf.(algebra.HasDegree).Degree(name)
	if err != nil {
		return algebra.InvalidArgument("unable to perform Poisson series integration: %v", err)
	}

	pcf := cf.Scale(algebra.Quo(n))
	out.insert(pcf, ikey)
	for i := int64(1); i <= deg; i++ {
		n, ikey = ikey.Integrate(name, out.ss)
		if n == 0 {
			panic(fmt.Sprintf("poisson: zero multiplier for %q at step %d of integration by parts", name, i))
		}
		pcf = pcf.(algebra.Differentiable).Partial(name).Neg().Scale(algebra.Quo(n))
		out.insert(pcf, ikey)
	}
	return nil
}
