package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
)

const maxPreviewChars = 200

// observeCall runs one provider round trip inside a Sentry transaction and
// writes the start, usage and finish log lines. Errors from call are
// returned unchanged.
func observeCall(
	ctx context.Context,
	provider, model string,
	call func(ctx context.Context) (*GenerationResponse, error),
) (*GenerationResponse, error) {
	label := strings.ToUpper(provider)
	start := time.Now()
	log.Printf("🎵 %s HINT REQUEST STARTED (model: %s)", label, model)

	tx := sentry.StartTransaction(ctx, provider+".generate")
	defer tx.Finish()
	tx.SetTag("provider", provider)
	tx.SetTag("model", model)

	resp, err := call(tx.Context())
	if err != nil {
		log.Printf("❌ %s REQUEST FAILED after %v: %v", label, time.Since(start), err)
		tx.SetTag("success", "false")
		tx.Status = sentry.SpanStatusInternalError
		sentry.CaptureException(err)
		return nil, err
	}

	logUsageStats(provider, resp.Usage)
	log.Printf("✅ %s HINT COMPLETED in %v (%d chars)", label, time.Since(start), len(resp.RawOutput))
	tx.SetTag("success", "true")
	tx.Status = sentry.SpanStatusOK
	return resp, nil
}

// cleanJSONOutput strips the markdown code fences some models wrap JSON in
func cleanJSONOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

func logUsageStats(provider string, usage Usage) {
	log.Printf("📊 %s USAGE: input=%d, output=%d, reasoning=%d, total=%d",
		strings.ToUpper(provider), usage.InputTokens, usage.OutputTokens,
		usage.ReasoningTokens, usage.TotalTokens)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// messageText pulls role and content out of an input item; ok is false
// when either is missing
func messageText(item map[string]any) (role, content string, ok bool) {
	role, hasRole := item["role"].(string)
	content, hasContent := item["content"].(string)
	if !hasRole || !hasContent {
		log.Printf("⚠️  Skipping input item without role or content: %s", truncate(fmt.Sprint(item), maxPreviewChars))
		return "", "", false
	}
	return role, content, true
}
