// Package trig implements the trigonometric key of Poisson series: an
// integral linear combination of symbols inside a cosine or a sine.
package trig

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/njchilds90/gopoisson/algebra"
	"github.com/njchilds90/gopoisson/symbols"
)

// Key is cos(n·x) or sin(n·x) for an integer vector n stored positionally
// against a symbol set. Keys are immutable.
type Key struct {
	mults []int64
	cos   bool
}

func New(mults []int64, cos bool) Key { return Key{mults: append([]int64(nil), mults...), cos: cos} }
func Cos(mults ...int64) Key          { return New(mults, true) }
func Sin(mults ...int64) Key          { return New(mults, false) }

func (k Key) Multipliers() []int64     { return append([]int64(nil), k.mults...) }
func (k Key) IsCos() bool              { return k.cos }
func (k Key) WithFlavour(cos bool) Key { return Key{mults: k.mults, cos: cos} }
func (k Key) Len() int                 { return len(k.mults) }

// Canonicalize negates the multipliers when the first nonzero one is
// negative, so that equal arguments share one key. The boolean reports
// whether a sign change happened; a sine term must then have its
// coefficient negated.
func (k Key) Canonicalize() (Key, bool) {
	for _, m := range k.mults {
		if m == 0 {
			continue
		}
		if m > 0 {
			return k, false
		}
		out := make([]int64, len(k.mults))
		for i, v := range k.mults {
			out[i] = -v
		}
		return Key{mults: out, cos: k.cos}, true
	}
	return k, false
}

func (k Key) isZeroArg() bool {
	for _, m := range k.mults {
		if m != 0 {
			return false
		}
	}
	return true
}

// IsUnitary reports whether the key is cos(0) = 1.
func (k Key) IsUnitary() bool { return k.cos && k.isZeroArg() }

// IsIgnorable reports whether the key is sin(0) = 0.
func (k Key) IsIgnorable() bool { return !k.cos && k.isZeroArg() }

// IsCompatible reports whether k has one multiplier per symbol of ss.
func (k Key) IsCompatible(ss symbols.Set) bool { return len(k.mults) == ss.Size() }

// Integrate integrates the key with respect to name. It returns the
// multiplier n of name and the key of the antiderivative, such that the
// integral of k is the returned key divided by n: cos(n·x) integrates to
// sin(n·x)/n and sin(n·x) to cos(n·x)/(-n). A zero multiplier means k does
// not depend on name.
func (k Key) Integrate(name string, ss symbols.Set) (int64, Key) {
	i, ok := ss.Index(name)
	if !ok || i >= len(k.mults) || k.mults[i] == 0 {
		return 0, Key{}
	}
	n := k.mults[i]
	if k.cos {
		return n, k.WithFlavour(false)
	}
	return -n, k.WithFlavour(true)
}

// MergeArgs re-expresses k, defined over from, against the superset to.
func (k Key) MergeArgs(from, to symbols.Set) (Key, error) {
	if !k.IsCompatible(from) {
		return Key{}, algebra.InvalidArgument("trigonometric key of size %d is incompatible with symbol set %s", len(k.mults), from)
	}
	if !from.IsSubsetOf(to) {
		return Key{}, algebra.InvalidArgument("symbol set %s is not a subset of %s", from, to)
	}
	out := make([]int64, to.Size())
	for i, m := range k.mults {
		j, _ := to.Index(from.Name(i))
		out[j] = m
	}
	return Key{mults: out, cos: k.cos}, nil
}

// Canonical implements series.Key.
func (k Key) Canonical() string {
	var b strings.Builder
	if k.cos {
		b.WriteString("c:")
	} else {
		b.WriteString("s:")
	}
	for i, m := range k.mults {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(m, 10))
	}
	return b.String()
}

func (k Key) Hash() uint64 { return xxhash.Sum64String(k.Canonical()) }

// Argument renders the linear combination inside the function, e.g. "2*x - y".
func (k Key) Argument(ss symbols.Set) string { return k.argument(ss, "*") }

func (k Key) argument(ss symbols.Set, mulSep string) string {
	var b strings.Builder
	for i, m := range k.mults {
		if m == 0 {
			continue
		}
		switch {
		case b.Len() == 0 && m < 0:
			b.WriteString("-")
		case b.Len() > 0 && m < 0:
			b.WriteString(" - ")
		case b.Len() > 0:
			b.WriteString(" + ")
		}
		if a := abs(m); a != 1 {
			b.WriteString(strconv.FormatInt(a, 10))
			b.WriteString(mulSep)
		}
		b.WriteString(ss.Name(i))
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

func (k Key) String(ss symbols.Set) string {
	return k.fn() + "(" + k.argument(ss, "*") + ")"
}

func (k Key) LaTeX(ss symbols.Set) string {
	return "\\" + k.fn() + "\\left(" + k.argument(ss, " ") + "\\right)"
}

func (k Key) fn() string {
	if k.cos {
		return "cos"
	}
	return "sin"
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
