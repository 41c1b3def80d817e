package observability

import (
	"context"
	"log"
	"time"

	"github.com/Conceptual-Machines/melodycraft-api/internal/config"
	"github.com/Conceptual-Machines/melodycraft-api/internal/llm"
	langfuse "github.com/henomis/langfuse-go"
	"github.com/henomis/langfuse-go/model"
)

const (
	hintTraceName      = "melody-hint"
	hintGenerationName = "hint"
	levelError         = "ERROR"
)

// Tracer records hint provider calls in Langfuse. A nil or unconfigured
// Tracer is valid and records nothing.
type Tracer struct {
	client *langfuse.Langfuse
}

var globalTracer = &Tracer{}

// InitializeLangfuse sets up the process-wide tracer. The SDK itself reads
// LANGFUSE_PUBLIC_KEY, LANGFUSE_SECRET_KEY and LANGFUSE_HOST.
func InitializeLangfuse(ctx context.Context, cfg *config.Config) *Tracer {
	if !cfg.LangfuseEnabled || cfg.LangfuseSecretKey == "" || cfg.LangfusePublicKey == "" {
		log.Println("⚠️  Langfuse not configured (LANGFUSE_ENABLED, LANGFUSE_PUBLIC_KEY, LANGFUSE_SECRET_KEY)")
		globalTracer = &Tracer{}
		return globalTracer
	}

	globalTracer = &Tracer{client: langfuse.New(ctx)}
	log.Printf("✅ Langfuse initialized (host: %s)", cfg.LangfuseHost)
	return globalTracer
}

// GetTracer returns the process-wide tracer, never nil
func GetTracer() *Tracer {
	return globalTracer
}

// IsEnabled returns whether calls are being recorded
func (t *Tracer) IsEnabled() bool {
	return t != nil && t.client != nil
}

// HintSpan is one traced hint call: a trace holding a single generation
type HintSpan struct {
	ctx        context.Context
	client     *langfuse.Langfuse
	generation *model.Generation
}

// StartHint opens a trace for one provider call. Tracing failures are
// logged and yield a disabled span; they never affect the call itself.
func (t *Tracer) StartHint(ctx context.Context, request *llm.GenerationRequest, provider string) *HintSpan {
	if !t.IsEnabled() || request == nil {
		return &HintSpan{}
	}

	trace, err := t.client.Trace(&model.Trace{
		Name:     hintTraceName,
		Input:    request.InputArray,
		Metadata: map[string]interface{}{"provider": provider},
	})
	if err != nil {
		log.Printf("⚠️  Failed to create Langfuse trace: %v", err)
		return &HintSpan{}
	}

	now := time.Now()
	generation, err := t.client.Generation(&model.Generation{
		TraceID:   trace.ID,
		Name:      hintGenerationName,
		Model:     request.Model,
		StartTime: &now,
		Input:     request.InputArray,
		Metadata: map[string]interface{}{
			"provider":    provider,
			"temperature": request.Temperature,
		},
	}, nil)
	if err != nil {
		log.Printf("⚠️  Failed to create Langfuse generation: %v", err)
		return &HintSpan{}
	}

	return &HintSpan{ctx: ctx, client: t.client, generation: generation}
}

// Enabled reports whether the span is being recorded
func (s *HintSpan) Enabled() bool {
	return s != nil && s.client != nil && s.generation != nil
}

// Succeed attaches the raw output, token usage and estimated cost
func (s *HintSpan) Succeed(resp *llm.GenerationResponse) {
	if !s.Enabled() || resp == nil {
		return
	}
	modelName := s.generation.Model
	if resp.Model != "" {
		modelName = resp.Model
	}
	s.generation.Model = modelName
	s.generation.Output = resp.RawOutput
	s.generation.Usage = ToLangfuseUsage(modelName, resp.Usage)
	s.addMetadata("cost_usd", CalculateCost(modelName, resp.Usage))
}

// Fail marks the generation as an error
func (s *HintSpan) Fail(err error) {
	if !s.Enabled() || err == nil {
		return
	}
	s.generation.Level = model.ObservationLevel(levelError)
	s.generation.StatusMessage = err.Error()
}

// End closes the generation and flushes the trace
func (s *HintSpan) End() {
	if !s.Enabled() {
		return
	}
	now := time.Now()
	s.generation.EndTime = &now
	if _, err := s.client.GenerationEnd(s.generation); err != nil {
		log.Printf("⚠️  Failed to end Langfuse generation: %v", err)
	}
	s.client.Flush(s.ctx)
}

func (s *HintSpan) addMetadata(key string, value interface{}) {
	md, ok := s.generation.Metadata.(map[string]interface{})
	if !ok || md == nil {
		md = map[string]interface{}{}
		s.generation.Metadata = md
	}
	md[key] = value
}

// ToLangfuseUsage converts provider-neutral usage into the Langfuse usage model
func ToLangfuseUsage(modelName string, usage llm.Usage) model.Usage {
	return model.Usage{
		Input:     int(usage.InputTokens),
		Output:    int(usage.OutputTokens),
		Total:     int(usage.TotalTokens),
		Unit:      model.ModelUsageUnitTokens,
		TotalCost: CalculateCost(modelName, usage),
	}
}
