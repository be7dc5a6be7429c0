package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	var m Recorder = NoopMetrics{}

	assert.NotPanics(t, func() {
		m.RecordAccess(context.Background(), "x", true)
		m.RecordConstruction(context.Background(), "x", time.Second, errors.New("e"))
	})
}

func TestNoopSpanManager(t *testing.T) {
	var sm SpanManager = NoopSpanManager{}
	ctx := context.Background()

	gotCtx, span := sm.StartInitSpan(ctx, "x", 1)
	assert.Equal(t, ctx, gotCtx)
	assert.False(t, span.IsRecording())
	assert.NotPanics(t, func() { sm.EndSpanWithError(span, errors.New("e")) })
}
