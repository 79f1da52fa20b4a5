package divisor

import (
	"encoding/json"
	"fmt"

	"github.com/njchilds90/gopoisson/algebra"
)

type wireEntry struct {
	Values   []int64 `json:"values"`
	Exponent int64   `json:"exponent"`
}

type wireDivisor struct {
	Entries []wireEntry `json:"entries"`
}

// MarshalJSON writes {"entries":[{"values":[...],"exponent":e}, ...]}.
func (d *Divisor[T]) MarshalJSON() ([]byte, error) {
	w := wireDivisor{Entries: make([]wireEntry, len(d.entries))}
	for i, e := range d.entries {
		vals := make([]int64, len(e.Values))
		for j, v := range e.Values {
			vals[j] = int64(v)
		}
		w.Entries[i] = wireEntry{Values: vals, Exponent: int64(e.Exponent)}
	}
	return json.Marshal(w)
}

// UnmarshalJSON replays every entry through Insert on a fresh divisor, so a
// stream violating any divisor invariant is rejected and d is left as it was.
func (d *Divisor[T]) UnmarshalJSON(data []byte) error {
	var w wireDivisor
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: malformed divisor: %v", algebra.ErrInvalidArgument, err)
	}
	fresh := New[T]()
	for i, e := range w.Entries {
		if err := fresh.Insert(e.Values, e.Exponent); err != nil {
			return fmt.Errorf("divisor entry %d: %w", i, err)
		}
	}
	*d = *fresh
	return nil
}
