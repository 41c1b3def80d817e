package composer

import (
	"sort"
	"strings"
)

// Instrument describes how a part is notated and played back
type Instrument struct {
	Name       string `json:"name"`
	Clef       string `json:"clef"`
	OctaveBias int    `json:"octave_bias"`
	Program    int    `json:"program"` // General MIDI program, 1-based
}

const (
	clefTreble = "treble"
	clefBass   = "bass"
)

var instruments = map[string]Instrument{
	"piano":   {Name: "piano", Clef: clefTreble, OctaveBias: 0, Program: 1},
	"strings": {Name: "strings", Clef: clefTreble, OctaveBias: 1, Program: 49},
	"bass":    {Name: "bass", Clef: clefBass, OctaveBias: -1, Program: 33},
	"guitar":  {Name: "guitar", Clef: clefTreble, OctaveBias: -1, Program: 26},
	"flute":   {Name: "flute", Clef: clefTreble, OctaveBias: 1, Program: 74},
	"violin":  {Name: "violin", Clef: clefTreble, OctaveBias: 1, Program: 41},
	"cello":   {Name: "cello", Clef: clefBass, OctaveBias: -2, Program: 43},
}

var defaultInstruments = []string{"piano", "strings"}

// LookupInstrument finds an instrument by name (case-insensitive)
func LookupInstrument(name string) (Instrument, bool) {
	inst, ok := instruments[strings.ToLower(strings.TrimSpace(name))]
	return inst, ok
}

// Instruments lists the instrument table sorted by name
func Instruments() []Instrument {
	list := make([]Instrument, 0, len(instruments))
	for _, inst := range instruments {
		list = append(list, inst)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// ResolveInstruments returns the requested names in caller order (duplicates
// allowed). An empty list, or one with any unknown name, resolves to piano
// and strings.
func ResolveInstruments(requested []string) []string {
	if len(requested) == 0 {
		return append([]string(nil), defaultInstruments...)
	}
	resolved := make([]string, 0, len(requested))
	for _, name := range requested {
		inst, ok := LookupInstrument(name)
		if !ok {
			return append([]string(nil), defaultInstruments...)
		}
		resolved = append(resolved, inst.Name)
	}
	return resolved
}

// Voice is one instrument's line across the whole progression
type Voice struct {
	Instrument Instrument
	Channel    int // 0-based MIDI channel
	Measures   []Measure
}

// Notation renders the voice body: measures joined by bar lines, closed with |]
func (v Voice) Notation() string {
	bars := make([]string, len(v.Measures))
	for i, m := range v.Measures {
		bars[i] = m.String()
	}
	return strings.Join(bars, " | ") + " |]"
}

// BuildVoice synthesizes one measure per chord, consuming rng in chord order
func BuildVoice(inst Instrument, channel int, progression []Chord, rng Random) Voice {
	scale := ScaleTones()
	voice := Voice{
		Instrument: inst,
		Channel:    channel,
		Measures:   make([]Measure, 0, len(progression)),
	}
	for _, chord := range progression {
		voice.Measures = append(voice.Measures, SynthesizeMeasure(chord, scale, rng, inst.OctaveBias))
	}
	return voice
}
