// Package composer turns a prompt into a short multi-voice sketch in ABC-style
// notation. Generation is pure: identical requests yield identical notation.
package composer

import (
	"hash/fnv"
	"math/rand"
)

const (
	DefaultMeasures = 16
	MinMeasures     = 2
	MaxMeasures     = 64

	seedMask = 1<<32 - 1
)

// Request is everything the engine needs for one generation
type Request struct {
	Prompt      string
	Measures    int
	Seed        *int64
	Instruments []string
	Hint        *Hint
}

// Part is the notation body of a single voice
type Part struct {
	Instrument string `json:"instrument"`
	Notation   string `json:"abc"`
}

// Result is the complete output of one generation
type Result struct {
	Params      Params
	Seed        int64
	Measures    int
	Progression []Chord
	Voices      []Voice
	Notation    string
	Highlights  []string
	HintUsed    bool
}

// Parts returns the per-voice notation bodies in voice order
func (r *Result) Parts() []Part {
	parts := make([]Part, len(r.Voices))
	for i, v := range r.Voices {
		parts[i] = Part{Instrument: v.Instrument.Name, Notation: v.Notation()}
	}
	return parts
}

// InstrumentNames returns the resolved instrument list in voice order
func (r *Result) InstrumentNames() []string {
	names := make([]string, len(r.Voices))
	for i, v := range r.Voices {
		names[i] = v.Instrument.Name
	}
	return names
}

// DeriveSeed returns the explicit seed when given, otherwise a stable
// 32-bit FNV-1a hash of the prompt.
func DeriveSeed(prompt string, seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(prompt))
	return int64(h.Sum64() & seedMask)
}

// ClampMeasures keeps a measure count inside the supported range.
// Zero selects the default length.
func ClampMeasures(n int) int {
	switch {
	case n == 0:
		return DefaultMeasures
	case n < MinMeasures:
		return MinMeasures
	case n > MaxMeasures:
		return MaxMeasures
	default:
		return n
	}
}

// Generate runs the whole pipeline. It never fails: bad or missing input
// falls back to defaults.
func Generate(req Request) *Result {
	seed := DeriveSeed(req.Prompt, req.Seed)
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducibility, not security
	measures := ClampMeasures(req.Measures)

	params := ResolveParams(req.Prompt, req.Hint)
	progression := BuildProgression(params.Key, params.Mood, measures, rng)

	requested := req.Instruments
	if len(requested) == 0 && req.Hint != nil {
		requested = req.Hint.Instruments
	}
	names := ResolveInstruments(requested)

	voices := make([]Voice, 0, len(names))
	for i, name := range names {
		inst, _ := LookupInstrument(name)
		voices = append(voices, BuildVoice(inst, i, progression, rng))
	}

	hintUsed := req.Hint != nil
	return &Result{
		Params:      params,
		Seed:        seed,
		Measures:    measures,
		Progression: progression,
		Voices:      voices,
		Notation:    Emit(params, voices),
		Highlights:  Highlights(params, measures, progression, names, hintUsed),
		HintUsed:    hintUsed,
	}
}
