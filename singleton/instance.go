package singleton

import (
	"slices"

	"github.com/google/uuid"
)

const (
	naiveHolderName      = "naive"
	threadSafeHolderName = "thread-safe"
)

// NaiveSingleton is the process-wide instance returned by NaiveInstance.
type NaiveSingleton struct {
	// ID is assigned at construction; two constructions never share one.
	ID uuid.UUID
}

// InstanceID returns the instance ID as a string.
func (s *NaiveSingleton) InstanceID() string {
	if s == nil {
		return ""
	}
	return s.ID.String()
}

// ThreadSafeSingleton is the process-wide instance returned by ThreadSafeInstance.
type ThreadSafeSingleton struct {
	// ID is assigned at construction.
	ID uuid.UUID

	// Value is the label supplied by the caller that constructed the
	// instance. It is set once, inside the construction critical section.
	Value string
}

// InstanceID returns the instance ID as a string.
func (s *ThreadSafeSingleton) InstanceID() string {
	if s == nil {
		return ""
	}
	return s.ID.String()
}

// Process-wide holders. Their instances live until the process exits.
var (
	naive      = NewNaive[NaiveSingleton](WithName(naiveHolderName))
	threadSafe = NewGuarded[ThreadSafeSingleton](WithName(threadSafeHolderName))
)

// NaiveInstance returns the process-wide NaiveSingleton, creating it on
// first call. Not safe for concurrent use; see Naive.
func NaiveInstance() *NaiveSingleton {
	return naive.Get(func() *NaiveSingleton {
		return &NaiveSingleton{ID: uuid.New()}
	})
}

// ThreadSafeInstance returns the process-wide ThreadSafeSingleton, creating
// it on first call with Value set to label. Safe for concurrent use.
//
// Once the instance exists label is ignored: every caller sees the label of
// the caller that constructed it.
func ThreadSafeInstance(label string) *ThreadSafeSingleton {
	return threadSafe.Get(func() *ThreadSafeSingleton {
		return &ThreadSafeSingleton{ID: uuid.New(), Value: label}
	})
}

// Stats is a snapshot of the process-wide holders' counters.
type Stats struct {
	NaiveConstructions      int64
	ThreadSafeConstructions int64
	ThreadSafeAttempts      int64
}

// CurrentStats returns a snapshot of the process-wide holders' counters.
func CurrentStats() Stats {
	return Stats{
		NaiveConstructions:      naive.Constructions(),
		ThreadSafeConstructions: threadSafe.Constructions(),
		ThreadSafeAttempts:      threadSafe.Attempts(),
	}
}

// Configure applies opts to both process-wide holders.
//
// WithName is overridden so the holders keep their own names
// ("naive" and "thread-safe").
func Configure(opts ...Option) {
	naive.Configure(append(slices.Clone(opts), WithName(naiveHolderName))...)
	threadSafe.Configure(append(slices.Clone(opts), WithName(threadSafeHolderName))...)
}
