// Package symbols implements the ordered symbol sets every series is defined over.
//
// A Set is kept sorted and duplicate free, so two series built from the same
// names always agree on the position of each symbol. Keys (monomials,
// trigonometric keys, divisors) store their components positionally against
// the Set of the series that owns them.
package symbols

import (
	"sort"
	"strings"
)

// Set is an immutable, sorted collection of distinct symbol names.
// The zero value is the empty set.
type Set struct{ names []string }

// New builds a set from names, sorting them and dropping duplicates.
func New(names ...string) Set {
	if len(names) == 0 {
		return Set{}
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	out := sorted[:1]
	for _, n := range sorted[1:] {
		if n != out[len(out)-1] {
			out = append(out, n)
		}
	}
	return Set{names: out}
}

func (s Set) Size() int         { return len(s.names) }
func (s Set) Names() []string   { return append([]string(nil), s.names...) }
func (s Set) Name(i int) string { return s.names[i] }

// Contains reports whether name is in the set.
func (s Set) Contains(name string) bool {
	_, ok := s.Index(name)
	return ok
}

// Index returns the position of name in the set.
func (s Set) Index(name string) (int, bool) {
	i := sort.SearchStrings(s.names, name)
	if i < len(s.names) && s.names[i] == name {
		return i, true
	}
	return i, false
}

// Add returns a new set containing name as well.
func (s Set) Add(name string) Set {
	if s.Contains(name) {
		return s
	}
	return New(append(s.Names(), name)...)
}

// Merge returns the union of s and other.
func (s Set) Merge(other Set) Set {
	return New(append(s.Names(), other.names...)...)
}

// IsSubsetOf reports whether every symbol of s is in other. Both sets are
// sorted, so this is the same as s being a subsequence of other.
func (s Set) IsSubsetOf(other Set) bool {
	j := 0
	for _, n := range s.names {
		for j < len(other.names) && other.names[j] != n {
			j++
		}
		if j == len(other.names) {
			return false
		}
		j++
	}
	return true
}

func (s Set) Equal(other Set) bool {
	if len(s.names) != len(other.names) {
		return false
	}
	for i := range s.names {
		if s.names[i] != other.names[i] {
			return false
		}
	}
	return true
}

func (s Set) String() string { return "{" + strings.Join(s.names, ", ") + "}" }
