package gopoisson

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/njchilds90/gopoisson/algebra"
	"github.com/njchilds90/gopoisson/divisor"
	"github.com/njchilds90/gopoisson/divseries"
	"github.com/njchilds90/gopoisson/poisson"
	"github.com/njchilds90/gopoisson/poly"
	"github.com/njchilds90/gopoisson/symbols"
	"github.com/njchilds90/gopoisson/trig"
)

// ============================================================
// JSON Decoding
// ============================================================

// MaxExponent bounds the absolute value of polynomial exponents accepted from
// JSON. Integration by parts runs once per unit of degree.
const MaxExponent = 1024

// PolynomialFromJSON reads
// {"type":"polynomial","terms":[{"coefficient":"p/q","exponents":{"x":1}}]}.
func PolynomialFromJSON(data map[string]interface{}) (poly.Polynomial, error) {
	terms, err := termsOf(data, "polynomial")
	if err != nil {
		return poly.Polynomial{}, err
	}
	var p poly.Polynomial
	for i, t := range terms {
		cf, err := rationalField(t, "coefficient")
		if err != nil {
			return poly.Polynomial{}, fmt.Errorf("polynomial: terms[%d]: %w", i, err)
		}
		exps, err := intMap(t, "exponents")
		if err != nil {
			return poly.Polynomial{}, fmt.Errorf("polynomial: terms[%d]: %w", i, err)
		}
		for name, e := range exps {
			if e > MaxExponent || e < -MaxExponent {
				return poly.Polynomial{}, fmt.Errorf("polynomial: terms[%d]: exponent of %s is %d, the limit is %d", i, name, e, MaxExponent)
			}
		}
		p = p.Plus(poly.FromExponents(cf, exps))
	}
	return p, nil
}

// PoissonFromJSON reads
// {"type":"poisson_series","terms":[{"coefficient":..,"flavour":"cos","multipliers":{"x":1}}]}.
// Coefficients are rationals ("p/q"), polynomial objects or divisor series
// objects; all terms must use the same kind.
func PoissonFromJSON(data map[string]interface{}) (*poisson.Series, error) {
	terms, err := termsOf(data, "poisson_series")
	if err != nil {
		return nil, err
	}
	type parsed struct {
		cf    algebra.Coefficient
		cos   bool
		mults map[string]int64
	}
	rows := make([]parsed, len(terms))
	var names []string
	for i, t := range terms {
		cf, err := coefficientFromJSON(t["coefficient"])
		if err != nil {
			return nil, fmt.Errorf("poisson_series: terms[%d]: %w", i, err)
		}
		cos := true
		switch f := t["flavour"]; f {
		case nil, "cos":
		case "sin":
			cos = false
		default:
			return nil, fmt.Errorf("poisson_series: terms[%d]: flavour must be \"cos\" or \"sin\", got %v", i, f)
		}
		mults, err := intMap(t, "multipliers")
		if err != nil {
			return nil, fmt.Errorf("poisson_series: terms[%d]: %w", i, err)
		}
		for n := range mults {
			names = append(names, n)
		}
		rows[i] = parsed{cf: cf, cos: cos, mults: mults}
	}

	var proto algebra.Coefficient = poly.Polynomial{}
	if len(rows) > 0 {
		proto = rows[0].cf
	}
	ss := symbols.New(names...)
	s := poisson.New(proto, ss)
	for i, r := range rows {
		m := make([]int64, ss.Size())
		for n, v := range r.mults {
			j, _ := ss.Index(n)
			m[j] = v
		}
		if err := s.Insert(r.cf, trig.New(m, r.cos)); err != nil {
			return nil, fmt.Errorf("poisson_series: terms[%d]: %w", i, err)
		}
	}
	return s, nil
}

// DivisorSeriesFromJSON reads
// {"type":"divisor_series","symbols":[..],"terms":[{"coefficient":..,"divisor":{"entries":[..]}}]}.
func DivisorSeriesFromJSON(data map[string]interface{}) (divseries.Series, error) {
	terms, err := termsOf(data, "divisor_series")
	if err != nil {
		return divseries.Series{}, err
	}
	names, err := stringList(data["symbols"])
	if err != nil {
		return divseries.Series{}, fmt.Errorf("divisor_series: symbols: %w", err)
	}
	var proto algebra.Coefficient = poly.Polynomial{}
	cfs := make([]algebra.Coefficient, len(terms))
	for i, t := range terms {
		if cfs[i], err = coefficientFromJSON(t["coefficient"]); err != nil {
			return divseries.Series{}, fmt.Errorf("divisor_series: terms[%d]: %w", i, err)
		}
		if i == 0 {
			proto = cfs[0]
		}
	}
	s := divseries.New(proto, symbols.New(names...))
	for i, t := range terms {
		d, err := DivisorFromJSON(t["divisor"])
		if err != nil {
			return divseries.Series{}, fmt.Errorf("divisor_series: terms[%d]: %w", i, err)
		}
		if s, err = s.Insert(cfs[i], d); err != nil {
			return divseries.Series{}, fmt.Errorf("divisor_series: terms[%d]: %w", i, err)
		}
	}
	return s, nil
}

// DivisorFromJSON decodes a divisor object through the divisor wire format,
// so every entry is validated as on insertion.
func DivisorFromJSON(v interface{}) (*divisor.Short, error) {
	if v == nil {
		return divisor.New[int16](), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	d := divisor.New[int16]()
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, err
	}
	return d, nil
}

func coefficientFromJSON(v interface{}) (algebra.Coefficient, error) {
	switch c := v.(type) {
	case string:
		return algebra.ParseRational(c)
	case float64:
		return algebra.ParseRational(fmt.Sprint(c))
	case map[string]interface{}:
		switch c["type"] {
		case "polynomial":
			return PolynomialFromJSON(c)
		case "divisor_series":
			return DivisorSeriesFromJSON(c)
		}
		return nil, fmt.Errorf("unknown coefficient type: %v", c["type"])
	case nil:
		return nil, fmt.Errorf("missing coefficient")
	}
	return nil, fmt.Errorf("invalid coefficient %v", v)
}

func termsOf(data map[string]interface{}, typ string) ([]map[string]interface{}, error) {
	if data == nil {
		return nil, fmt.Errorf("%s must be an object", typ)
	}
	if t, ok := data["type"]; ok && t != typ {
		return nil, fmt.Errorf("expected type %q, got %v", typ, t)
	}
	v, ok := data["terms"]
	if !ok {
		return nil, nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: \"terms\" must be an array", typ)
	}
	out := make([]map[string]interface{}, len(raw))
	for i, it := range raw {
		m, ok := it.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: \"terms\"[%d] must be an object", typ, i)
		}
		out[i] = m
	}
	return out, nil
}

func rationalField(t map[string]interface{}, field string) (algebra.Rational, error) {
	switch v := t[field].(type) {
	case string:
		return algebra.ParseRational(v)
	case float64:
		return algebra.ParseRational(fmt.Sprint(v))
	}
	return algebra.Rational{}, fmt.Errorf("%q must be a rational string", field)
}

func intMap(t map[string]interface{}, field string) (map[string]int64, error) {
	v, ok := t[field]
	if !ok {
		return map[string]int64{}, nil
	}
	raw, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%q must be an object", field)
	}
	out := make(map[string]int64, len(raw))
	for k, x := range raw {
		n, err := asInt(x)
		if err != nil {
			return nil, fmt.Errorf("%q.%s: %w", field, k, err)
		}
		out[k] = n
	}
	return out, nil
}

func asInt(v interface{}) (int64, error) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, fmt.Errorf("%v is not an integer", v)
	}
	return int64(f), nil
}

func stringList(v interface{}) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("must be an array")
	}
	out := make([]string, len(raw))
	for i, r := range raw {
		s, ok := r.(string)
		if !ok {
			return nil, fmt.Errorf("[%d] must be a string", i)
		}
		out[i] = s
	}
	return out, nil
}

// ============================================================
// JSON Encoding
// ============================================================

// PolynomialToJSON is the inverse of PolynomialFromJSON.
func PolynomialToJSON(p poly.Polynomial) map[string]interface{} {
	ss := p.Symbols()
	terms := []interface{}{}
	for _, t := range p.Terms() {
		exps := map[string]interface{}{}
		for i, e := range t.Key.Exponents() {
			if e != 0 {
				exps[ss.Name(i)] = e
			}
		}
		terms = append(terms, map[string]interface{}{"coefficient": t.Cf.String(), "exponents": exps})
	}
	return map[string]interface{}{"type": "polynomial", "terms": terms}
}

// PoissonToJSON is the inverse of PoissonFromJSON.
func PoissonToJSON(s *poisson.Series) map[string]interface{} {
	ss := s.Symbols()
	terms := []interface{}{}
	for _, t := range s.Terms() {
		mults := map[string]interface{}{}
		for i, m := range t.Key.Multipliers() {
			if m != 0 {
				mults[ss.Name(i)] = m
			}
		}
		flavour := "sin"
		if t.Key.IsCos() {
			flavour = "cos"
		}
		terms = append(terms, map[string]interface{}{
			"coefficient": coefficientToJSON(t.Cf),
			"flavour":     flavour,
			"multipliers": mults,
		})
	}
	return map[string]interface{}{"type": "poisson_series", "terms": terms}
}

// DivisorSeriesToJSON is the inverse of DivisorSeriesFromJSON.
func DivisorSeriesToJSON(s divseries.Series) map[string]interface{} {
	terms := []interface{}{}
	for _, t := range s.Terms() {
		terms = append(terms, map[string]interface{}{
			"coefficient": coefficientToJSON(t.Cf),
			"divisor":     t.Key,
		})
	}
	return map[string]interface{}{"type": "divisor_series", "symbols": s.Symbols().Names(), "terms": terms}
}

func coefficientToJSON(c algebra.Coefficient) interface{} {
	switch v := c.(type) {
	case poly.Polynomial:
		return PolynomialToJSON(v)
	case divseries.Series:
		return DivisorSeriesToJSON(v)
	}
	return c.String()
}
