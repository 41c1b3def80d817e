package services

import (
	"context"
	"strings"
	"time"

	"github.com/Conceptual-Machines/melodycraft-api/internal/composer"
	"github.com/Conceptual-Machines/melodycraft-api/internal/logger"
	"github.com/Conceptual-Machines/melodycraft-api/internal/metrics"
	"github.com/Conceptual-Machines/melodycraft-api/internal/models"
)

// Output formats recorded in the usage log
const (
	FormatABC  = "abc"
	FormatMIDI = "midi"
)

// HintSource is the part of HintService the generation flow depends on
type HintSource interface {
	Lookup(ctx context.Context, prompt string) *HintResult
}

// Caller identifies who asked for a generation, for the usage log
type Caller struct {
	RequestID string
	UserID    string
	Format    string
}

// GenerationService runs the hint lookup, the composer, and the bookkeeping around them
type GenerationService struct {
	hints   HintSource
	usage   UsageStore
	metrics metrics.Recorder
}

func NewGenerationService(hints HintSource, usage UsageStore, recorder metrics.Recorder) *GenerationService {
	if usage == nil {
		usage = nopUsageStore{}
	}
	return &GenerationService{hints: hints, usage: usage, metrics: recorder}
}

// Compose always returns a result. Hint and bookkeeping failures are logged only.
func (s *GenerationService) Compose(ctx context.Context, req *models.GenerateRequest, caller Caller) *composer.Result {
	start := time.Now()

	var hintResult *HintResult
	if s.hints != nil {
		hintResult = s.hints.Lookup(ctx, req.Prompt)
	}
	var hint *composer.Hint
	if hintResult != nil {
		hint = hintResult.Hint
	}

	result := composer.Generate(req.ToComposerRequest(hint))
	duration := time.Since(start)

	if s.metrics != nil {
		s.metrics.RecordGenerationDuration(ctx, duration, result.HintUsed)
		s.metrics.RecordComposition(ctx, string(result.Params.Mood), result.Measures, len(result.Voices))
	}

	entry := newGenerationLog(req.Prompt, result, hintResult, caller, duration)
	if err := s.usage.Record(ctx, entry); err != nil {
		logger.Error("Failed to record generation", err, logger.Fields{"request_id": caller.RequestID})
	}

	return result
}

func newGenerationLog(prompt string, result *composer.Result, hint *HintResult, caller Caller, duration time.Duration) *models.GenerationLog {
	format := caller.Format
	if format == "" {
		format = FormatABC
	}
	entry := &models.GenerationLog{
		RequestID:   caller.RequestID,
		UserID:      caller.UserID,
		Prompt:      prompt,
		Mood:        string(result.Params.Mood),
		Key:         result.Params.Key,
		Tempo:       result.Params.Tempo,
		Meter:       result.Params.Meter,
		Measures:    result.Measures,
		Seed:        result.Seed,
		Instruments: strings.Join(result.InstrumentNames(), ","),
		HintUsed:    result.HintUsed,
		DurationMs:  duration.Milliseconds(),
		Format:      format,
	}
	if hint != nil {
		entry.HintModel = hint.Model
		entry.InputTokens = hint.Usage.InputTokens
		entry.OutputTokens = hint.Usage.OutputTokens
	}
	return entry
}
