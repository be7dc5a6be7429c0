// Package singleton provides lazily constructed, process-wide instance holders.
//
// Two holders are offered, deliberately side by side:
//
//   - Naive[T]: check-then-create with no synchronization. Correct only on a
//     single goroutine. Under concurrency two callers can both construct; the
//     holder keeps that race and counts constructions so it can be observed.
//
//   - Guarded[T]: double-checked locking. A lock-free atomic load serves every
//     call after initialization; the first callers serialize on a mutex,
//     re-check, and exactly one of them constructs and publishes the instance.
//
// Both holders take the constructor at call time rather than at creation, so
// callers can pass per-call input (ThreadSafeInstance passes a label). Only
// the constructor of the winning caller ever runs.
//
// Quick guidance
//
// Use Guarded when:
//   - The instance may be requested from several goroutines
//   - Construction can fail and should be retried on the next call (GetContext)
//   - You want construction to show up in logs, metrics, or traces
//
// Use Naive only to demonstrate why Guarded exists.
//
// The package also owns two process-wide instances, NaiveInstance and
// ThreadSafeInstance, which the cmd/singleton driver exercises.
//
// Import
//
//	"github.com/sghaida/singleton/singleton"
package singleton
