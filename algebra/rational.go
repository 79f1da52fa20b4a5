package algebra

import (
	"fmt"
	"math/big"
)

// ============================================================
// Rational — exact rational coefficient
// ============================================================

// Rational is an exact rational number. The zero value is 0.
type Rational struct{ val *big.Rat }

func R(n int64) Rational { return Rational{val: new(big.Rat).SetInt64(n)} }
func Q(p, q int64) Rational {
	if q == 0 {
		panic("algebra: denominator is zero")
	}
	return Rational{val: new(big.Rat).SetFrac64(p, q)}
}
func RatOf(r *big.Rat) Rational { return Rational{val: new(big.Rat).Set(r)} }

// ParseRational reads "p", "p/q" or a decimal literal.
func ParseRational(s string) (Rational, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Rational{}, InvalidArgument("cannot parse %q as a rational number", s)
	}
	return Rational{val: r}, nil
}

func (r Rational) rat() *big.Rat {
	if r.val == nil {
		return new(big.Rat)
	}
	return r.val
}

func (r Rational) Rat() *big.Rat              { return new(big.Rat).Set(r.rat()) }
func (r Rational) Zero() Coefficient          { return R(0) }
func (r Rational) One() Coefficient           { return R(1) }
func (r Rational) IsZero() bool               { return r.rat().Sign() == 0 }
func (r Rational) IsInteger() bool            { return r.rat().IsInt() }
func (r Rational) Sign() int                  { return r.rat().Sign() }
func (r Rational) Neg() Coefficient           { return Rational{val: new(big.Rat).Neg(r.rat())} }
func (r Rational) Partial(string) Coefficient { return R(0) }

func (r Rational) Add(other Coefficient) Coefficient {
	o, ok := other.(Rational)
	if !ok {
		panic(mismatch("rational", other))
	}
	return Rational{val: new(big.Rat).Add(r.rat(), o.rat())}
}

func (r Rational) Mul(o Rational) Rational {
	return Rational{val: new(big.Rat).Mul(r.rat(), o.rat())}
}

func (r Rational) Scale(f *big.Rat) Coefficient {
	return Rational{val: new(big.Rat).Mul(r.rat(), f)}
}

func (r Rational) Equal(other Coefficient) bool {
	o, ok := other.(Rational)
	return ok && r.rat().Cmp(o.rat()) == 0
}

// Int returns the value as an integer when it is one.
func (r Rational) Int() (*big.Int, bool) {
	if !r.IsInteger() {
		return nil, false
	}
	return new(big.Int).Set(r.rat().Num()), true
}

func (r Rational) String() string {
	v := r.rat()
	if v.IsInt() {
		return v.Num().String()
	}
	return v.RatString()
}

func (r Rational) LaTeX() string {
	v := new(big.Rat).Set(r.rat())
	if v.IsInt() {
		return v.Num().String()
	}
	sign := ""
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

// Sin is only defined exactly at zero.
func (r Rational) Sin() (Coefficient, error) {
	if r.IsZero() {
		return R(0), nil
	}
	return nil, InvalidArgument("cannot compute the sine of the non-zero rational %s", r)
}

// Cos is only defined exactly at zero.
func (r Rational) Cos() (Coefficient, error) {
	if r.IsZero() {
		return R(1), nil
	}
	return nil, InvalidArgument("cannot compute the cosine of the non-zero rational %s", r)
}

func kindName(c Coefficient) string {
	if c == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", c)
}
