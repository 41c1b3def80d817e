package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Conceptual-Machines/melodycraft-api/internal/llm"
	"github.com/getsentry/sentry-go"
)

// SentryMetrics reports metrics as Sentry spans. Without a Sentry client
// the spans are created and dropped, so it is always safe to call.
type SentryMetrics struct{}

func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{}
}

func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	ok := statusCode < http.StatusBadRequest
	span := startSpan(ctx, "api.request", "API Request: "+endpoint, ok)
	defer span.Finish()

	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", strconv.Itoa(statusCode))
	span.SetTag("success", strconv.FormatBool(ok))
	span.SetData("duration_ms", duration.Milliseconds())
}

// RecordHintUsage also tags the enclosing transaction so hint cost shows up
// next to the request that paid for it
func (m *SentryMetrics) RecordHintUsage(ctx context.Context, model string, usage llm.Usage, success bool) {
	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("hint.model", model)
		transaction.SetTag("hint.success", strconv.FormatBool(success))
		transaction.SetData("hint.total_tokens", usage.TotalTokens)
	}

	span := startSpan(ctx, "hint.token_usage", "Hint Usage: "+model, success)
	defer span.Finish()

	span.SetTag("model", model)
	span.SetData("input_tokens", usage.InputTokens)
	span.SetData("output_tokens", usage.OutputTokens)
	span.SetData("reasoning_tokens", usage.ReasoningTokens)
	span.SetData("total_tokens", usage.TotalTokens)
}

func (m *SentryMetrics) RecordGenerationDuration(ctx context.Context, duration time.Duration, hintUsed bool) {
	span := startSpan(ctx, "generation.request", fmt.Sprintf("Generation: hint=%t", hintUsed), true)
	defer span.Finish()

	span.SetTag("hint_used", strconv.FormatBool(hintUsed))
	span.SetData("duration_ms", duration.Milliseconds())
}

func (m *SentryMetrics) RecordComposition(ctx context.Context, mood string, measures, voices int) {
	span := startSpan(ctx, "generation.composition", fmt.Sprintf("Composition: %s, %d x %d", mood, measures, voices), true)
	defer span.Finish()

	span.SetTag("mood", mood)
	span.SetData("measures", measures)
	span.SetData("voices", voices)
}

func startSpan(ctx context.Context, operation, description string, ok bool) *sentry.Span {
	span := sentry.StartSpan(ctx, operation)
	span.Description = description
	if ok {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusUnavailable
	}
	return span
}
