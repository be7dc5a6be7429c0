package singleton

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sghaida/singleton/observability"
)

// Guarded is a lazily constructed instance holder that is safe for
// concurrent use. It uses double-checked locking:
//
//  1. Fast path: load the instance pointer without the lock and return it if set.
//  2. Slow path: acquire the lock, re-check the pointer (another goroutine may
//     have finished construction meanwhile), construct if still unset, publish,
//     release the lock on every exit path.
//
// At most one successful construction ever happens. The constructor that
// wins is the only one that runs; constructors passed by later callers are
// never called, so any per-call input they capture (a label, say) is
// discarded once the instance exists.
//
// A failed construction (error, panic, or nil result) leaves the holder unset,
// so a later call retries.
//
// The zero value is ready to use.
type Guarded[T any] struct {
	instance atomic.Pointer[T]
	mu       sync.Mutex // guards construction

	constructions atomic.Int64
	attempts      atomic.Int64
	cfg           atomic.Pointer[holderConfig]
}

// NewGuarded constructs a Guarded holder with the given options.
func NewGuarded[T any](opts ...Option) *Guarded[T] {
	g := &Guarded[T]{}
	g.cfg.Store(newHolderConfig(nil, opts))
	return g
}

// Configure applies opts on top of the holder's current configuration.
// It is safe to call concurrently with Get.
func (g *Guarded[T]) Configure(opts ...Option) {
	g.cfg.Store(newHolderConfig(g.config(), opts))
}

func (g *Guarded[T]) config() *holderConfig {
	if c := g.cfg.Load(); c != nil {
		return c
	}
	return defaultConfig
}

// Get returns the held instance, calling ctor to create it if no instance
// has been published yet. Once an instance exists ctor is ignored.
//
// Get panics with a ConstructionError if construction fails (ctor is nil,
// panics, or returns nil). The lock is released and the holder stays unset
// before the panic propagates. Use GetContext for fallible constructors.
func (g *Guarded[T]) Get(ctor func() *T) *T {
	if v := g.instance.Load(); v != nil {
		cfg := g.config()
		cfg.recorder.RecordAccess(context.Background(), cfg.name, true)
		return v
	}

	var fn func(context.Context) (*T, error)
	if ctor != nil {
		fn = func(context.Context) (*T, error) { return ctor(), nil }
	}
	v, err := g.slow(context.Background(), fn)
	if err != nil {
		panic(err)
	}
	return v
}

// GetContext is Get for fallible constructors.
//
// ctx is passed to ctor and to the configured observers. It does not bound
// the wait for the construction lock.
//
// On failure the returned error is a ConstructionError wrapping the cause,
// the holder stays unset, and the next call tries again.
func (g *Guarded[T]) GetContext(ctx context.Context, ctor func(context.Context) (*T, error)) (*T, error) {
	if v := g.instance.Load(); v != nil {
		cfg := g.config()
		cfg.recorder.RecordAccess(ctx, cfg.name, true)
		return v, nil
	}
	return g.slow(ctx, ctor)
}

// slow runs steps 2..6 of double-checked locking.
func (g *Guarded[T]) slow(ctx context.Context, ctor func(context.Context) (*T, error)) (*T, error) {
	cfg := g.config()

	g.mu.Lock()
	defer g.mu.Unlock()

	// re-check: another goroutine may have published while we waited
	if v := g.instance.Load(); v != nil {
		observability.LogLostRace(cfg.logger, cfg.name)
		cfg.recorder.RecordAccess(ctx, cfg.name, false)
		return v, nil
	}

	attempt := g.attempts.Add(1)
	spanCtx, span := cfg.spans.StartInitSpan(ctx, cfg.name, attempt)

	start := time.Now()
	v, err := construct(spanCtx, cfg.name, ctor)
	elapsed := time.Since(start)
	if err != nil {
		err = ConstructionError{Holder: cfg.name, Attempt: attempt, Err: err}
	}

	cfg.spans.EndSpanWithError(span, err)
	cfg.recorder.RecordConstruction(ctx, cfg.name, elapsed, err)
	if err != nil {
		observability.LogConstructionFailed(cfg.logger, cfg.name, attempt, err, elapsed)
		return nil, err
	}

	g.instance.Store(v)
	g.constructions.Add(1)
	observability.LogConstructed(cfg.logger, cfg.name, attempt, instanceID(v), elapsed)
	cfg.recorder.RecordAccess(ctx, cfg.name, false)
	return v, nil
}

// construct calls ctor and converts nil results and panics into errors.
func construct[T any](ctx context.Context, holder string, ctor func(context.Context) (*T, error)) (v *T, err error) {
	if ctor == nil {
		return nil, ErrNilConstructor
	}
	defer func() {
		if rec := recover(); rec != nil {
			v = nil
			err = ConstructorPanicError{Holder: holder, Value: rec}
		}
	}()

	v, err = ctor(ctx)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNilInstance
	}
	return v, nil
}

// Peek returns the published instance without constructing it.
func (g *Guarded[T]) Peek() (*T, bool) {
	v := g.instance.Load()
	return v, v != nil
}

// Constructions reports the number of successful constructions: 0 or 1.
func (g *Guarded[T]) Constructions() int64 { return g.constructions.Load() }

// Attempts reports the number of construction attempts made under the lock,
// including failed ones.
func (g *Guarded[T]) Attempts() int64 { return g.attempts.Load() }

// Name returns the holder name.
func (g *Guarded[T]) Name() string { return g.config().name }

// identified is implemented by instances that expose a stable identity for logs.
type identified interface {
	InstanceID() string
}

func instanceID(v any) string {
	if id, ok := v.(identified); ok {
		return id.InstanceID()
	}
	return ""
}
