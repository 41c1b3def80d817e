package composer

const defaultMeter = "4/4"

// Hint is the optional, externally supplied suggestion for a generation.
// Every field is independent: the zero value means "absent".
type Hint struct {
	Mood        string   `json:"mood,omitempty"`
	Key         string   `json:"key,omitempty"`
	Tempo       int      `json:"tempo,omitempty"`
	Meter       string   `json:"meter,omitempty"`
	Instruments []string `json:"instruments,omitempty"`
}

// Params are the resolved musical parameters for one request
type Params struct {
	Mood  Mood   `json:"mood"`
	Key   string `json:"key"`
	Tempo int    `json:"tempo"`
	Meter string `json:"meter"`
}

// IsMinor reports whether the resolved key is a minor key ("Am", "Dm")
func (p Params) IsMinor() bool {
	return isMinorKey(p.Key)
}

// ResolveParams merges a hint with the defaults of the winning mood profile.
// Hint values are taken as-is when present.
func ResolveParams(prompt string, hint *Hint) Params {
	mood := Classify(prompt)
	if hint != nil {
		if m, ok := NormalizeMood(hint.Mood); ok {
			mood = m
		}
	}
	profile := Profile(mood)

	params := Params{
		Mood:  mood,
		Key:   profile.DefaultKey,
		Tempo: profile.DefaultTempo,
		Meter: defaultMeter,
	}
	if hint == nil {
		return params
	}
	if hint.Key != "" {
		params.Key = hint.Key
	}
	if hint.Tempo > 0 {
		params.Tempo = hint.Tempo
	}
	if hint.Meter != "" {
		params.Meter = hint.Meter
	}
	return params
}
