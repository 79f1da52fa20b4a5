// Package settings holds the process-wide tuning knobs of the library and the
// configuration file format that sets them.
//
// The knobs only affect how bulk buffers are populated: how many worker
// goroutines a batch may use and how large a batch must be before it is split
// across them. Every knob is safe for concurrent reads and writes.
package settings

import (
	"runtime"
	"sync/atomic"

	"github.com/njchilds90/gopoisson/algebra"
)

// DefaultParallelThreshold is the element count from which buffer
// population is split across workers.
const DefaultParallelThreshold = 10000

var (
	nThreads          atomic.Int64
	parallelThreshold atomic.Int64
)

func init() {
	ResetNThreads()
	parallelThreshold.Store(DefaultParallelThreshold)
}

// HardwareConcurrency returns the number of logical CPUs, at least 1.
func HardwareConcurrency() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

// NThreads returns the number of worker goroutines used for bulk work.
func NThreads() int { return int(nThreads.Load()) }

// SetNThreads sets the number of worker goroutines. n must be positive.
func SetNThreads(n int) error {
	if n <= 0 {
		return algebra.InvalidArgument("the number of threads must be positive, got %d", n)
	}
	nThreads.Store(int64(n))
	return nil
}

// ResetNThreads restores the hardware concurrency default.
func ResetNThreads() { nThreads.Store(int64(HardwareConcurrency())) }

// ParallelThreshold returns the minimum batch size for parallel population.
func ParallelThreshold() int { return int(parallelThreshold.Load()) }

// SetParallelThreshold sets the minimum batch size for parallel population.
func SetParallelThreshold(n int) error {
	if n <= 0 {
		return algebra.InvalidArgument("the parallel threshold must be positive, got %d", n)
	}
	parallelThreshold.Store(int64(n))
	return nil
}

// Apply installs the tuning section of cfg process-wide.
func Apply(cfg Config) error {
	threads := cfg.Threads
	if threads == 0 {
		threads = HardwareConcurrency()
	}
	if err := SetNThreads(threads); err != nil {
		return err
	}
	return SetParallelThreshold(cfg.ParallelThreshold)
}
