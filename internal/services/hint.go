package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Conceptual-Machines/melodycraft-api/internal/composer"
	"github.com/Conceptual-Machines/melodycraft-api/internal/config"
	"github.com/Conceptual-Machines/melodycraft-api/internal/llm"
	"github.com/Conceptual-Machines/melodycraft-api/internal/logger"
	"github.com/Conceptual-Machines/melodycraft-api/internal/metrics"
	"github.com/Conceptual-Machines/melodycraft-api/internal/observability"
	"github.com/Conceptual-Machines/melodycraft-api/internal/prompt"
	"github.com/getsentry/sentry-go"
)

// HintResult is a parsed hint plus the accounting of the call that produced it
type HintResult struct {
	Hint     *composer.Hint
	Model    string
	Provider string
	Usage    llm.Usage
	Cached   bool
}

// HintService asks an LLM provider to interpret a prompt. It makes exactly
// one attempt per prompt and absorbs every failure into a nil hint.
type HintService struct {
	provider    llm.Provider
	model       string
	temperature float64
	timeout     time.Duration
	builder     *prompt.Builder
	cache       *hintCache
	metrics     metrics.Recorder
	tracer      *observability.Tracer
}

// NewHintService creates a hint service around an explicit provider.
// A nil provider yields a service that never returns hints.
func NewHintService(cfg *config.Config, provider llm.Provider, recorder metrics.Recorder) *HintService {
	return &HintService{
		provider:    provider,
		model:       cfg.HintModel(),
		temperature: cfg.HintTemperature,
		timeout:     cfg.HintTimeout,
		builder:     prompt.NewPromptBuilder(),
		cache:       newHintCache(cfg.HintCacheTTL),
		metrics:     recorder,
		tracer:      observability.GetTracer(),
	}
}

// NewHintServiceFromConfig picks the provider from configuration.
// Missing credentials are not an error: the service just stays silent.
func NewHintServiceFromConfig(ctx context.Context, cfg *config.Config, recorder metrics.Recorder) *HintService {
	if !cfg.HintsEnabled() {
		log.Println("⚠️  Hint provider not configured, using rule-based defaults only")
		return NewHintService(cfg, nil, recorder)
	}

	factory := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey, cfg.OllamaURL, cfg.OllamaModel)
	provider, err := factory.GetProvider(ctx, cfg.HintModel(), cfg.HintProvider)
	if err != nil {
		log.Printf("⚠️  Hint provider unavailable: %v", err)
		return NewHintService(cfg, nil, recorder)
	}

	log.Printf("🎵 Hint provider: %s (model: %s)", provider.Name(), cfg.HintModel())
	return NewHintService(cfg, provider, recorder)
}

// Enabled reports whether a provider is wired
func (s *HintService) Enabled() bool {
	return s != nil && s.provider != nil
}

// Describe returns the provider and model in use, empty when disabled
func (s *HintService) Describe() (provider, model string) {
	if !s.Enabled() {
		return "", ""
	}
	return s.provider.Name(), s.model
}

// Fetch returns a hint for the prompt, or nil when none could be obtained
func (s *HintService) Fetch(ctx context.Context, userPrompt string) *composer.Hint {
	if r := s.Lookup(ctx, userPrompt); r != nil {
		return r.Hint
	}
	return nil
}

// Lookup is Fetch plus the model and token usage of the call
func (s *HintService) Lookup(ctx context.Context, userPrompt string) *HintResult {
	if !s.Enabled() || strings.TrimSpace(userPrompt) == "" {
		return nil
	}

	if hint, ok := s.cache.get(userPrompt); ok {
		logger.Debug("Hint cache hit", logger.Fields{"prompt": truncatePrompt(userPrompt), "model": s.model})
		return &HintResult{Hint: hint, Model: s.model, Provider: s.provider.Name(), Cached: true}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	request, err := s.buildRequest(userPrompt)
	if err != nil {
		logger.Error("Failed to build hint request", err, logger.Fields{"model": s.model})
		return nil
	}

	span := s.tracer.StartHint(ctx, request, s.provider.Name())
	defer span.End()

	start := time.Now()
	resp, err := s.provider.Generate(ctx, request)
	duration := time.Since(start)
	if err != nil {
		logger.Warn("Hint request failed, continuing without hint", logger.Fields{
			"model":       s.model,
			"provider":    s.provider.Name(),
			"duration_ms": duration.Milliseconds(),
			"error":       err.Error(),
		})
		span.Fail(err)
		s.record(ctx, llm.Usage{}, false)
		return nil
	}

	span.Succeed(resp)
	logger.LogHintRequest(ctx, s.model, duration, resp.Usage, logger.Fields{
		"provider": s.provider.Name(),
		"cost":     observability.FormatCost(observability.CalculateCost(s.model, resp.Usage)),
	})

	hint, err := ParseHint(resp.RawOutput)
	if err != nil {
		fields := logger.Fields{
			"model": s.model,
			"error": err.Error(),
		}
		logger.Warn("Hint response was not usable, continuing without hint", fields)
		logger.LogToSentry(sentry.LevelWarning, "Unusable hint response", fields)
		span.Fail(err)
		s.record(ctx, resp.Usage, false)
		return nil
	}

	s.record(ctx, resp.Usage, true)
	s.cache.set(userPrompt, hint)

	model := resp.Model
	if model == "" {
		model = s.model
	}
	return &HintResult{Hint: hint, Model: model, Provider: s.provider.Name(), Usage: resp.Usage}
}

func (s *HintService) buildRequest(userPrompt string) (*llm.GenerationRequest, error) {
	moods := make([]string, 0, len(composer.Profiles()))
	for _, p := range composer.Profiles() {
		moods = append(moods, string(p.Name))
	}
	names := make([]string, 0, len(composer.Instruments()))
	for _, inst := range composer.Instruments() {
		names = append(names, inst.Name)
	}

	system, err := s.builder.BuildPrompt(moods, names)
	if err != nil {
		return nil, err
	}
	input, err := s.builder.BuildUserInput(userPrompt)
	if err != nil {
		return nil, err
	}

	return &llm.GenerationRequest{
		Model:        s.model,
		InputArray:   []map[string]any{llm.UserMessage(input)},
		SystemPrompt: system,
		Temperature:  s.temperature,
		OutputSchema: llm.HintOutputSchema(),
	}, nil
}

func (s *HintService) record(ctx context.Context, usage llm.Usage, success bool) {
	if s.metrics != nil {
		s.metrics.RecordHintUsage(ctx, s.model, usage, success)
	}
}

// ParseHint decodes a provider's JSON answer. Unknown fields are ignored and
// every known field is optional: wrong types are treated as absent rather
// than failing the whole hint. Only output that is not a JSON object is an error.
func ParseHint(raw string) (*composer.Hint, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(strings.TrimSpace(raw))))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("hint is not a JSON object: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("hint is null")
	}

	hint := &composer.Hint{
		Mood:        stringField(fields["mood"]),
		Key:         stringField(fields["key"]),
		Tempo:       coerceTempo(fields["tempo"]),
		Meter:       stringField(fields["meter"]),
		Instruments: listField(fields["instruments"]),
	}
	return hint, nil
}

func stringField(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// coerceTempo accepts JSON numbers and numeric strings. Anything else,
// or a non-positive value, is absent (0).
func coerceTempo(v any) int {
	var f float64
	switch val := v.(type) {
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 1 || f > math.MaxInt32 {
		return 0
	}
	return int(math.Round(f))
}

// listField accepts a list of strings or a single comma separated string
func listField(v any) []string {
	var items []string
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	case string:
		items = strings.Split(val, ",")
	}

	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func truncatePrompt(s string) string {
	const maxLen = 60
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
