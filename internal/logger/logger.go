// Package logger writes structured log lines to the standard logger and
// mirrors them to Sentry as breadcrumbs, or as events for errors.
package logger

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/Conceptual-Machines/melodycraft-api/internal/llm"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// WithContext extracts request context for logging
func WithContext(c *gin.Context) Fields {
	fields := Fields{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}
	if caller := c.GetString("caller_id"); caller != "" {
		fields["caller"] = caller
	}
	return fields
}

func Info(msg string, fields Fields) {
	emit(sentry.LevelInfo, "INFO", msg, fields)
}

func Warn(msg string, fields Fields) {
	emit(sentry.LevelWarning, "WARN", msg, fields)
}

func Debug(msg string, fields Fields) {
	emit(sentry.LevelDebug, "DEBUG", msg, fields)
}

// Error logs and reports err to Sentry. A nil err is reported as a message.
func Error(msg string, err error, fields Fields) {
	log.Printf("[ERROR] %s: %v %s", msg, err, formatFields(fields))
	withScope(sentry.LevelError, fields, func(hub *sentry.Hub) {
		if err != nil {
			hub.CaptureException(err)
		} else {
			hub.CaptureMessage(msg)
		}
	})
}

// LogToSentry sends msg to Sentry as an event rather than a breadcrumb
func LogToSentry(level sentry.Level, msg string, fields Fields) {
	withScope(level, fields, func(hub *sentry.Hub) {
		hub.CaptureMessage(msg)
	})
}

// LogHintRequest logs one completed hint provider call
func LogHintRequest(ctx context.Context, model string, duration time.Duration, usage llm.Usage, fields Fields) {
	fields = merge(fields, Fields{
		"model":         model,
		"duration_ms":   duration.Milliseconds(),
		"input_tokens":  usage.InputTokens,
		"output_tokens": usage.OutputTokens,
		"total_tokens":  usage.TotalTokens,
	})
	Info("Hint request completed", fields)

	if sentry.GetHubFromContext(ctx) != nil {
		span := sentry.StartSpan(ctx, "hint.generate")
		span.Description = model
		span.SetData("total_tokens", usage.TotalTokens)
		span.Finish()
	}
}

// LogComposition logs the outcome of a single composition
func LogComposition(c *gin.Context, duration time.Duration, fields Fields) {
	fields = merge(fields, WithContext(c))
	fields["duration_ms"] = duration.Milliseconds()
	Info("Composition generated", fields)
}

func emit(level sentry.Level, label, msg string, fields Fields) {
	log.Printf("[%s] %s %s", label, msg, formatFields(fields))

	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.AddBreadcrumb(&sentry.Breadcrumb{
			Type:     string(level),
			Category: "log",
			Message:  msg,
			Data:     map[string]interface{}(merge(nil, fields)),
			Level:    level,
		}, nil)
	}
}

// withScope runs capture with fields attached as contexts and the usual
// lookup keys promoted to tags. It does nothing without a Sentry client.
func withScope(level sentry.Level, fields Fields, capture func(*sentry.Hub)) {
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		for key, value := range fields {
			scope.SetContext(key, map[string]interface{}{"value": value})
		}
		for _, tag := range []string{"request_id", "model", "provider"} {
			if v, ok := fields[tag].(string); ok {
				scope.SetTag(tag, v)
			}
		}
		capture(hub)
	})
}

// merge copies extra into a fresh map on top of base; neither input is modified
func merge(base, extra Fields) Fields {
	out := make(Fields, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// formatFields renders fields as {k=v, ...} with keys sorted
func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(formatValue(fields[k]))
	}
	b.WriteString("}")
	return b.String()
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return fmt.Sprintf("%.2f", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
