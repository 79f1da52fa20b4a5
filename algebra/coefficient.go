// Package algebra defines the coefficient model shared by every series type.
//
// Coefficients form a runtime hierarchy: a Poisson series may carry divisor
// series coefficients, which in turn carry polynomials, which carry exact
// rationals. Rather than fixing that hierarchy in the type system, each level
// advertises what it can do through small capability interfaces, and the
// series algorithms query those capabilities at the point of use.
//
// All coefficient values are immutable. Every operation returns a new value.
package algebra

import (
	"math/big"
	"reflect"
)

// MaxDepth bounds the recursion through nested coefficient kinds.
const MaxDepth = 16

// ============================================================
// Core interface
// ============================================================

// Coefficient is a ring element usable as the coefficient of a series term.
// Binary operations require both operands to be of the same kind; mixing
// kinds is a programming error and panics.
type Coefficient interface {
	Zero() Coefficient
	One() Coefficient
	Add(other Coefficient) Coefficient
	Neg() Coefficient
	Scale(r *big.Rat) Coefficient
	IsZero() bool
	Equal(other Coefficient) bool
	String() string
	LaTeX() string
}

// ============================================================
// Capabilities
// ============================================================

// Differentiable coefficients support partial differentiation.
type Differentiable interface {
	Partial(name string) Coefficient
}

// Integrable coefficients support antiderivatives with respect to a symbol.
type Integrable interface {
	Integrate(name string) (Coefficient, error)
}

// HasDegree coefficients report their degree in a symbol.
type HasDegree interface {
	Degree(name string) (int64, error)
}

// LinearTerm is one addend n*name of an integral linear combination.
type LinearTerm struct {
	Name       string
	Multiplier *big.Int
}

// LinearCombiner coefficients can be read back as an integral linear
// combination of symbols, sorted by symbol name.
type LinearCombiner interface {
	IntegralCombination() ([]LinearTerm, error)
}

// Nested coefficients are themselves series over an inner coefficient kind.
type Nested interface {
	IsSingleCoefficient() bool
	SingleCoefficient() Coefficient
	InnerProto() Coefficient
}

// Trigonometric coefficients provide sine and cosine.
type Trigonometric interface {
	Sin() (Coefficient, error)
	Cos() (Coefficient, error)
}

// PolynomialKind marks polynomial coefficients.
type PolynomialKind interface {
	PolynomialTag()
}

// ============================================================
// Hierarchy queries
// ============================================================

// IsPolynomial reports whether c is a polynomial coefficient.
func IsPolynomial(c Coefficient) bool {
	_, ok := c.(PolynomialKind)
	return ok
}

// HasPolynomial reports whether a polynomial appears anywhere in the
// coefficient hierarchy rooted at proto. The walk follows InnerProto and
// stops after MaxDepth levels.
func HasPolynomial(proto Coefficient) bool {
	c := proto
	for depth := 0; depth < MaxDepth && c != nil; depth++ {
		if IsPolynomial(c) {
			return true
		}
		n, ok := c.(Nested)
		if !ok {
			return false
		}
		c = n.InnerProto()
	}
	return false
}

// SameKind reports whether a and b are coefficients of the same concrete kind.
func SameKind(a, b Coefficient) bool {
	return a != nil && b != nil && reflect.TypeOf(a) == reflect.TypeOf(b)
}

// SinCos dispatches to the sine or cosine of c.
func SinCos(c Coefficient, cos bool) (Coefficient, error) {
	t, ok := c.(Trigonometric)
	if !ok {
		return nil, InvalidArgument("coefficient type %T does not support sine and cosine", c)
	}
	if cos {
		return t.Cos()
	}
	return t.Sin()
}

// NestedSinCos is the generic sine/cosine of a series coefficient: it is only
// defined when the series reduces to its single coefficient.
func NestedSinCos(n Nested, cos bool) (Coefficient, error) {
	if !n.IsSingleCoefficient() {
		return nil, InvalidArgument("cannot compute the %s of a series which is not a single coefficient", trigName(cos))
	}
	return SinCos(n.SingleCoefficient(), cos)
}

func trigName(cos bool) string {
	if cos {
		return "cosine"
	}
	return "sine"
}

// Quo returns the rational 1/n. n must be nonzero.
func Quo(n int64) *big.Rat {
	if n == 0 {
		panic("algebra: division by zero")
	}
	return new(big.Rat).SetFrac64(1, n)
}

func mismatch(want string, got Coefficient) string {
	return "algebra: mismatched coefficient kinds: want " + want + ", got " + kindName(got)
}
