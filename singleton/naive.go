package singleton

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sghaida/singleton/observability"
)

// Naive is a lazily constructed instance holder with no synchronization
// around the instance pointer.
//
// It is correct only when every call to Get happens on one goroutine.
// Under concurrent use two callers can both observe "not yet created" and
// both construct, and callers may end up holding different instances.
// That race is the point of this type and is left in place; Constructions
// makes it observable.
//
// The zero value is ready to use.
type Naive[T any] struct {
	instance *T

	// constructions is atomic so the counter itself can be read while the
	// race on instance is being demonstrated.
	constructions atomic.Int64
	cfg           atomic.Pointer[holderConfig]
}

// NewNaive constructs a Naive holder with the given options.
func NewNaive[T any](opts ...Option) *Naive[T] {
	n := &Naive[T]{}
	n.cfg.Store(newHolderConfig(nil, opts))
	return n
}

// Configure applies opts on top of the holder's current configuration.
func (n *Naive[T]) Configure(opts ...Option) {
	n.cfg.Store(newHolderConfig(n.config(), opts))
}

func (n *Naive[T]) config() *holderConfig {
	if c := n.cfg.Load(); c != nil {
		return c
	}
	return defaultConfig
}

// Get returns the held instance, calling ctor to create it on the first call.
//
// It panics with ErrNilConstructor if construction is needed and ctor is nil.
func (n *Naive[T]) Get(ctor func() *T) *T {
	if n.instance == nil {
		if ctor == nil {
			panic(ErrNilConstructor)
		}
		cfg := n.config()
		attempt := n.constructions.Add(1)

		start := time.Now()
		n.instance = ctor()
		elapsed := time.Since(start)

		cfg.recorder.RecordConstruction(context.Background(), cfg.name, elapsed, nil)
		observability.LogConstructed(cfg.logger, cfg.name, attempt, instanceID(n.instance), elapsed)
		if attempt > 1 {
			observability.LogDuplicateConstruction(cfg.logger, cfg.name, attempt)
		}
		return n.instance
	}
	cfg := n.config()
	cfg.recorder.RecordAccess(context.Background(), cfg.name, true)
	return n.instance
}

// Peek returns the held instance without constructing it.
func (n *Naive[T]) Peek() (*T, bool) {
	v := n.instance
	return v, v != nil
}

// Constructions reports how many times Get has called its constructor.
// Anything above 1 means the single-goroutine assumption was broken.
func (n *Naive[T]) Constructions() int64 { return n.constructions.Load() }

// Name returns the holder name.
func (n *Naive[T]) Name() string { return n.config().name }
