// Package singleton demonstrates the Singleton creational pattern in Go.
//
// The repository contrasts two ways of lazily creating a process-wide instance:
//
//   - naive: check-then-create with no synchronization (correct on one goroutine only)
//   - guarded: double-checked locking over an atomic pointer and a mutex
//
// The holders are generic and take the constructor at call time, so per-call
// input (such as a label) reaches the constructor only for the caller that wins.
// Construction is observable through slog, OpenTelemetry metrics, and spans.
//
// Package singleton See subpackages:
//   - singleton: Naive[T], Guarded[T], and the two process-wide instances
//   - observability: logging helpers, OTel metrics recorder and span manager
//   - cmd/singleton: runnable driver
package singleton
