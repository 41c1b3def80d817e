package models

import (
	"time"

	"github.com/Conceptual-Machines/melodycraft-api/internal/composer"
)

// GenerateRequest is the body of POST /generate and POST /generate/midi
type GenerateRequest struct {
	Prompt          string   `json:"prompt" binding:"required"`
	Measures        int      `json:"measures" binding:"omitempty,min=2,max=64"`
	Seed            *int64   `json:"seed,omitempty"`
	Instruments     []string `json:"instruments,omitempty" binding:"omitempty,max=16"`
	MeasuresPerLine int      `json:"measures_per_line,omitempty" binding:"omitempty,min=1,max=64"`
}

// ToComposerRequest converts the API body into an engine request
func (r *GenerateRequest) ToComposerRequest(hint *composer.Hint) composer.Request {
	return composer.Request{
		Prompt:      r.Prompt,
		Measures:    r.Measures,
		Seed:        r.Seed,
		Instruments: r.Instruments,
		Hint:        hint,
	}
}

// GenerateResponse is returned by POST /generate
type GenerateResponse struct {
	ABC         string          `json:"abc"`
	Tempo       int             `json:"tempo"`
	Meter       string          `json:"meter"`
	Key         string          `json:"key"`
	Mood        string          `json:"mood"`
	Seed        int64           `json:"seed"`
	Measures    int             `json:"measures"`
	Progression []string        `json:"progression"`
	Highlights  []string        `json:"highlights"`
	Parts       []composer.Part `json:"parts"`
	HintUsed    bool            `json:"hint_used"`
	RequestID   string          `json:"request_id,omitempty"`
}

// NewGenerateResponse builds the response body from a generation result.
// perLine > 0 re-flows the voice lines of the notation.
func NewGenerateResponse(res *composer.Result, perLine int, requestID string) GenerateResponse {
	return GenerateResponse{
		ABC:         composer.WrapMeasures(res.Notation, perLine),
		Tempo:       res.Params.Tempo,
		Meter:       res.Params.Meter,
		Key:         res.Params.Key,
		Mood:        string(res.Params.Mood),
		Seed:        res.Seed,
		Measures:    res.Measures,
		Progression: composer.ChordNames(res.Progression),
		Highlights:  res.Highlights,
		Parts:       res.Parts(),
		HintUsed:    res.HintUsed,
		RequestID:   requestID,
	}
}

// ErrorResponse is the body of every non-2xx JSON reply
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// GenerationLog records one successful generation for usage analytics
type GenerationLog struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	RequestID    string    `gorm:"index" json:"request_id"`
	UserID       string    `gorm:"index" json:"user_id"`
	Prompt       string    `gorm:"type:text;not null" json:"prompt"`
	Mood         string    `json:"mood"`
	Key          string    `json:"key"`
	Tempo        int       `json:"tempo"`
	Meter        string    `json:"meter"`
	Measures     int       `json:"measures"`
	Seed         int64     `json:"seed"`
	Instruments  string    `json:"instruments"` // comma separated, voice order
	HintUsed     bool      `gorm:"default:false" json:"hint_used"`
	HintModel    string    `json:"hint_model,omitempty"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	DurationMs   int64     `json:"duration_ms"`
	Format       string    `gorm:"default:'abc'" json:"format"` // "abc" or "midi"
}
