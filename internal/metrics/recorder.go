package metrics

import (
	"context"
	"time"

	"github.com/Conceptual-Machines/melodycraft-api/internal/llm"
)

// Recorder is implemented by every metrics backend
type Recorder interface {
	RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration)
	RecordHintUsage(ctx context.Context, model string, usage llm.Usage, success bool)
	RecordGenerationDuration(ctx context.Context, duration time.Duration, hintUsed bool)
	RecordComposition(ctx context.Context, mood string, measures, voices int)
}

var (
	_ Recorder = (*Client)(nil)
	_ Recorder = (*SentryMetrics)(nil)
	_ Recorder = Fanout(nil)
)

// Fanout forwards every metric to each backend in order. Nil entries are skipped.
type Fanout []Recorder

func (f Fanout) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	for _, r := range f {
		if r != nil {
			r.RecordAPIRequest(ctx, endpoint, statusCode, duration)
		}
	}
}

func (f Fanout) RecordHintUsage(ctx context.Context, model string, usage llm.Usage, success bool) {
	for _, r := range f {
		if r != nil {
			r.RecordHintUsage(ctx, model, usage, success)
		}
	}
}

func (f Fanout) RecordGenerationDuration(ctx context.Context, duration time.Duration, hintUsed bool) {
	for _, r := range f {
		if r != nil {
			r.RecordGenerationDuration(ctx, duration, hintUsed)
		}
	}
}

func (f Fanout) RecordComposition(ctx context.Context, mood string, measures, voices int) {
	for _, r := range f {
		if r != nil {
			r.RecordComposition(ctx, mood, measures, voices)
		}
	}
}
