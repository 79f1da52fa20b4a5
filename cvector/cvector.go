// Package cvector provides Vector, a contiguous buffer whose bulk element
// construction, copying and destruction may be split across worker goroutines.
//
// Population is all-or-nothing: when an element constructor or copier fails
// (or panics) partway through a batch, every element already built by any
// worker is destroyed before the failure reaches the caller, and the vector's
// length is left as it was before the call. A panicking constructor is
// recovered on its worker and re-raised on the caller's goroutine after
// rollback.
//
// The worker count and the batch size from which work is split come from the
// settings package. Small batches, and batches of types without a fallible
// constructor or copier, are always populated on the calling goroutine.
//
// A Vector is owned by one goroutine at a time. Only its internal population
// phase is concurrent.
package cvector

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/njchilds90/gopoisson/algebra"
	"github.com/njchilds90/gopoisson/settings"
)

// Vector is a contiguous buffer of T. The zero value is an empty vector
// whose elements are zero-value constructed.
type Vector[T any] struct {
	data   []T
	ctor   func() (T, error)
	copier func(T) (T, error)
	dtor   func(*T)
}

// Option configures the element lifecycle hooks of a Vector.
type Option[T any] func(*Vector[T])

// WithConstructor installs a fallible element constructor used whenever new
// elements are created. Without it new elements are zero values.
func WithConstructor[T any](f func() (T, error)) Option[T] {
	return func(v *Vector[T]) { v.ctor = f }
}

// WithCopier installs a fallible deep-copy function used by Clone and
// Assign. Without it elements are copied by assignment.
func WithCopier[T any](f func(T) (T, error)) Option[T] {
	return func(v *Vector[T]) { v.copier = f }
}

// WithDestructor installs a hook run on every live element before it is
// released. Destructors must not fail.
func WithDestructor[T any](f func(*T)) Option[T] {
	return func(v *Vector[T]) { v.dtor = f }
}

// New returns a vector of n constructed elements.
func New[T any](n int, opts ...Option[T]) (*Vector[T], error) {
	if n < 0 {
		return nil, algebra.InvalidArgument("cannot create a vector of negative size %d", n)
	}
	v := &Vector[T]{}
	for _, opt := range opts {
		opt(v)
	}
	if n == 0 {
		return v, nil
	}
	data := make([]T, n)
	if err := v.construct("construct", data); err != nil {
		return nil, err
	}
	v.data = data
	return v, nil
}

func (v *Vector[T]) Len() int { return len(v.data) }
func (v *Vector[T]) Cap() int { return cap(v.data) }

// At returns a pointer to element i. The caller guarantees 0 <= i < Len().
func (v *Vector[T]) At(i int) *T { return &v.data[i] }

// All iterates the live elements in storage order.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, x := range v.data {
			if !yield(i, x) {
				return
			}
		}
	}
}

// Resize grows or shrinks the vector to n elements. Growing constructs the
// new tail elements; shrinking destroys the trailing ones. On failure the
// vector is unchanged.
func (v *Vector[T]) Resize(n int) error {
	if n < 0 {
		return algebra.InvalidArgument("cannot resize a vector to negative size %d", n)
	}
	old := len(v.data)
	switch {
	case n == old:
		return nil
	case n < old:
		v.destroy("resize", v.data[n:old])
		v.data = v.data[:n]
		return nil
	case n <= cap(v.data):
		// Slots past the length are kept zeroed, so they can be built in place.
		if err := v.construct("resize", v.data[old:n]); err != nil {
			return err
		}
		v.data = v.data[:n]
		return nil
	}

	newCap := max(n, 2*cap(v.data))
	grown := make([]T, n, newCap)
	if err := v.construct("resize", grown[old:n]); err != nil {
		return err
	}
	copy(grown, v.data)
	v.data = grown
	return nil
}

// Clone returns a deep copy of v with the same lifecycle hooks.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	out := &Vector[T]{ctor: v.ctor, copier: v.copier, dtor: v.dtor}
	if len(v.data) == 0 {
		return out, nil
	}
	data := make([]T, len(v.data))
	if v.copier == nil {
		copy(data, v.data)
		batches.WithLabelValues("copy", "serial").Inc()
		batchElements.Observe(float64(len(data)))
	} else {
		src := v.data
		err := v.populate("copy", data, func(i int) (T, error) { return v.copier(src[i]) })
		if err != nil {
			return nil, err
		}
	}
	out.data = data
	return out, nil
}

// Assign replaces the contents of v with a deep copy of src and takes over
// its lifecycle hooks. The old elements are destroyed with v's previous
// destructor only once the copy is complete; on failure v is unchanged.
func (v *Vector[T]) Assign(src *Vector[T]) error {
	if src == v {
		return nil
	}
	c, err := src.Clone()
	if err != nil {
		return err
	}
	old := *v
	*v = *c
	old.destroy("assign", old.data)
	return nil
}

// MoveFrom transfers the storage and lifecycle hooks of src to v, leaving
// src empty. The previous elements of v are destroyed with v's own
// destructor before the hooks are taken over.
func (v *Vector[T]) MoveFrom(src *Vector[T]) {
	if src == v {
		return
	}
	v.destroy("move", v.data)
	*v = *src
	*src = Vector[T]{ctor: v.ctor, copier: v.copier, dtor: v.dtor}
}

// Swap exchanges the storage and lifecycle hooks of v and other.
func (v *Vector[T]) Swap(other *Vector[T]) { *v, *other = *other, *v }

// Clear destroys every element and releases the storage.
func (v *Vector[T]) Clear() {
	v.destroy("clear", v.data)
	v.data = nil
}

// ============================================================
// Batch population
// ============================================================

var errWorkerPanic = errors.New("cvector: worker panicked")

type workerPanic struct{ value any }

// construct fills dst with newly constructed elements.
func (v *Vector[T]) construct(op string, dst []T) error {
	if v.ctor == nil {
		batches.WithLabelValues(op, "serial").Inc()
		batchElements.Observe(float64(len(dst)))
		return nil
	}
	return v.populate(op, dst, func(int) (T, error) { return v.ctor() })
}

func (v *Vector[T]) populate(op string, dst []T, build func(int) (T, error)) error {
	batchElements.Observe(float64(len(dst)))
	workers := min(settings.NThreads(), len(dst))
	if len(dst) < settings.ParallelThreshold() || workers < 2 {
		batches.WithLabelValues(op, "serial").Inc()
		return v.populateSerial(op, dst, build)
	}
	batches.WithLabelValues(op, "parallel").Inc()
	return v.populateParallel(op, dst, workers, build)
}

func (v *Vector[T]) populateSerial(op string, dst []T, build func(int) (T, error)) error {
	built := 0
	defer func() {
		if r := recover(); r != nil {
			v.rollback(op, dst[:built])
			panic(r)
		}
	}()
	for i := range dst {
		x, err := build(i)
		if err != nil {
			v.rollback(op, dst[:built])
			return err
		}
		dst[i] = x
		built++
	}
	return nil
}

func (v *Vector[T]) populateParallel(op string, dst []T, workers int, build func(int) (T, error)) error {
	n := len(dst)
	chunk := (n + workers - 1) / workers
	built := make([]int, workers)
	var panicked atomic.Pointer[workerPanic]

	slog.Debug("cvector parallel batch", "op", op, "elements", n, "workers", workers)

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, min((w+1)*chunk, n)
		if lo >= hi {
			break
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					panicked.CompareAndSwap(nil, &workerPanic{value: r})
					err = errWorkerPanic
				}
			}()
			for i := lo; i < hi; i++ {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				x, err := build(i)
				if err != nil {
					return err
				}
				dst[i] = x
				built[w]++
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		return nil
	}

	for w, count := range built {
		lo := w * chunk
		v.rollback(op, dst[lo:lo+count])
	}
	if p := panicked.Load(); p != nil {
		panic(p.value)
	}
	return err
}

func (v *Vector[T]) rollback(op string, built []T) {
	rollbacks.WithLabelValues(op).Inc()
	slog.Debug("cvector batch rolled back", "op", op, "destroyed", len(built))
	v.release(built)
}

// ============================================================
// Destruction
// ============================================================

func (v *Vector[T]) destroy(op string, s []T) {
	if len(s) == 0 {
		return
	}
	workers := min(settings.NThreads(), len(s))
	if v.dtor == nil || len(s) < settings.ParallelThreshold() || workers < 2 {
		batches.WithLabelValues(op+"_destroy", "serial").Inc()
		v.release(s)
		return
	}
	batches.WithLabelValues(op+"_destroy", "parallel").Inc()
	chunk := (len(s) + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < len(s); lo += chunk {
		part := s[lo:min(lo+chunk, len(s))]
		g.Go(func() error {
			v.release(part)
			return nil
		})
	}
	_ = g.Wait()
}

// release runs the destructor on s and zeroes it so the GC can reclaim
// anything the elements referenced.
func (v *Vector[T]) release(s []T) {
	if v.dtor != nil {
		for i := range s {
			v.dtor(&s[i])
		}
	}
	clear(s)
}
