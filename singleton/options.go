package singleton

import (
	"log/slog"

	"github.com/sghaida/singleton/observability"
)

// defaultHolderName is used by holders constructed without WithName.
const defaultHolderName = "singleton"

type holderConfig struct {
	name     string
	logger   *slog.Logger
	recorder observability.Recorder
	spans    observability.SpanManager
}

// defaultConfig backs zero-value holders until Configure is called.
var defaultConfig = newHolderConfig(nil, nil)

// Option configures a holder constructed by NewNaive or NewGuarded, or
// reconfigures one via Configure.
type Option func(*holderConfig)

// WithName sets the holder name used in logs, metrics, spans and errors.
// An empty name is ignored.
func WithName(name string) Option {
	return func(c *holderConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLogger sets the structured logger for holder events.
// A nil logger restores the discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *holderConfig) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		c.logger = l
	}
}

// WithRecorder sets the metrics recorder for holder events.
// A nil recorder restores observability.NoopMetrics.
func WithRecorder(r observability.Recorder) Option {
	return func(c *holderConfig) {
		if r == nil {
			r = observability.NoopMetrics{}
		}
		c.recorder = r
	}
}

// WithSpans sets the span manager used around the construction slow path.
// A nil manager restores observability.NoopSpanManager.
func WithSpans(s observability.SpanManager) Option {
	return func(c *holderConfig) {
		if s == nil {
			s = observability.NoopSpanManager{}
		}
		c.spans = s
	}
}

// newHolderConfig copies base (or starts from defaults when base is nil) and
// applies opts on top of it.
func newHolderConfig(base *holderConfig, opts []Option) *holderConfig {
	cfg := &holderConfig{
		name:     defaultHolderName,
		logger:   slog.New(slog.DiscardHandler),
		recorder: observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
	}
	if base != nil {
		*cfg = *base
	}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	return cfg
}
