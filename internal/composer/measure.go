package composer

import (
	"strconv"
	"strings"
)

const (
	// MeasureUnits is the length of every measure in eighth-note units
	MeasureUnits = 8

	chordToneProbability = 0.7
)

// durationWeights makes single units twice as likely as double units
var durationWeights = [...]int{1, 1, 2, 2, 1}

// Random is the deterministic source threaded through one generation.
// *math/rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
	Float64() float64
}

// Pitch is a natural note in a notation register. Octave 0 is the
// upper-case register (C), 1 the lower-case register (c).
type Pitch struct {
	Letter Letter
	Octave int
}

// String renders the pitch as a notation token: C, and c' style octave marks
func (p Pitch) String() string {
	if p.Octave >= 1 {
		return strings.ToLower(p.Letter.String()) + strings.Repeat("'", p.Octave-1)
	}
	return p.Letter.String() + strings.Repeat(",", -p.Octave)
}

// Note is one pitch held for Duration eighth-note units
type Note struct {
	Pitch    Pitch
	Duration int
}

func (n Note) String() string {
	if n.Duration == 1 {
		return n.Pitch.String()
	}
	return n.Pitch.String() + strconv.Itoa(n.Duration)
}

// Measure is one bar of a voice under a single chord
type Measure struct {
	Chord Chord
	Notes []Note
}

// Units returns the summed duration of the measure
func (m Measure) Units() int {
	total := 0
	for _, n := range m.Notes {
		total += n.Duration
	}
	return total
}

// String renders the measure body with the chord label on the first note
func (m Measure) String() string {
	tokens := make([]string, len(m.Notes))
	for i, n := range m.Notes {
		tokens[i] = n.String()
	}
	if len(tokens) > 0 {
		tokens[0] = strconv.Quote(m.Chord.String()) + tokens[0]
	}
	return strings.Join(tokens, " ")
}

// ScaleTones is the upper natural scale used for passing tones
func ScaleTones() []Pitch {
	tones := make([]Pitch, len(naturals))
	for i, l := range naturals {
		tones[i] = Pitch{Letter: l, Octave: 1}
	}
	return tones
}

// ChordTonePool returns the chord's root, third and fifth in a low and a high
// register. A positive bias lifts the high register, a negative one drops the low.
func ChordTonePool(chord Chord, octaveBias int) []Pitch {
	lowOctave, highOctave := 0, 1
	if octaveBias > 0 {
		highOctave++
	}
	if octaveBias < 0 {
		lowOctave--
	}
	triad := chord.Triad()
	pool := make([]Pitch, 0, len(triad)*2)
	for _, l := range triad {
		pool = append(pool, Pitch{Letter: l, Octave: lowOctave})
	}
	for _, l := range triad {
		pool = append(pool, Pitch{Letter: l, Octave: highOctave})
	}
	return pool
}

// SynthesizeMeasure fills one measure over chord. Each note consumes three
// draws from rng in a fixed order: duration, source coin, pitch. An empty
// scaleTones means ScaleTones().
func SynthesizeMeasure(chord Chord, scaleTones []Pitch, rng Random, octaveBias int) Measure {
	if len(scaleTones) == 0 {
		scaleTones = ScaleTones()
	}
	pool := ChordTonePool(chord, octaveBias)
	measure := Measure{Chord: chord}

	total := 0
	for total < MeasureUnits {
		length := durationWeights[rng.Intn(len(durationWeights))]
		if total+length > MeasureUnits {
			length = MeasureUnits - total
		}

		var pitch Pitch
		if rng.Float64() < chordToneProbability {
			pitch = pool[rng.Intn(len(pool))]
		} else {
			pitch = scaleTones[rng.Intn(len(scaleTones))]
		}

		measure.Notes = append(measure.Notes, Note{Pitch: pitch, Duration: length})
		total += length
	}
	return measure
}
