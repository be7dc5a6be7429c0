// Command singleton demonstrates the naive and the thread-safe singleton.
//
// Output on stdout:
//
//	true
//	Thread1
//	Thread1
//
// The first line compares two sequential NaiveInstance calls. The next two
// lines are the labels observed by two goroutines racing on
// ThreadSafeInstance("Thread1") and ThreadSafeInstance("Thread2"). Both lines
// are always equal; which label wins depends on scheduling, and is usually
// the first-started goroutine's.
//
// Flags
//
//	-v        log holder events (constructions, lost races) at debug level on stderr
//	-metrics  after the run, write collected OpenTelemetry metric points to stderr
//
// Exit codes: 0 on success, 1 if the goroutines observed different instances
// or metrics could not be collected, 2 on usage errors.
package main
