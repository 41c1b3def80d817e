package composer

import (
	"fmt"
	"strings"
)

const (
	notationTitle = "MelodyCraft Sketch"
	unitLength    = "1/8"
	barSeparator  = "|"
	finalBar      = "|]"
)

// Emit serializes parameters and voices into the notation text.
// Voice n is channel n-1 and is declared in header order.
func Emit(params Params, voices []Voice) string {
	var header []string
	header = append(header,
		"X:1",
		"T:"+notationTitle,
		"M:"+params.Meter,
		"L:"+unitLength,
		fmt.Sprintf("Q:1/4=%d", params.Tempo),
	)
	for i, v := range voices {
		n := i + 1
		header = append(header,
			fmt.Sprintf("%%%%MIDI channel %d %d", n, v.Channel),
			fmt.Sprintf("%%%%MIDI program %d %d", n, v.Instrument.Program),
		)
	}
	header = append(header, "K:"+params.Key)
	for i, v := range voices {
		header = append(header, fmt.Sprintf("V:%d clef=%s name=%q", i+1, v.Instrument.Clef, v.Instrument.Name))
	}

	body := make([]string, 0, len(voices)+1)
	for i, v := range voices {
		body = append(body, fmt.Sprintf("[V:%d] %s", i+1, v.Notation()))
	}
	body = append(body, finalBar)

	return strings.Join(header, "\n") + "\n" + strings.Join(body, "\n")
}

// Highlights summarizes a generation for display. The order of lines is fixed.
func Highlights(params Params, measures int, progression []Chord, instrumentNames []string, hintUsed bool) []string {
	interpretation := "Interpretation: rule-based defaults"
	if hintUsed {
		interpretation = "Interpretation: external hint"
	}
	return []string{
		"Key: " + params.Key,
		fmt.Sprintf("Tempo: %d BPM", params.Tempo),
		fmt.Sprintf("Measures: %d", measures),
		"Mood: " + string(params.Mood),
		"Progression: " + strings.Join(ChordNames(progression), " - "),
		"Parts: " + strings.Join(instrumentNames, ", "),
		interpretation,
	}
}

// WrapMeasures reflows every body line so that each perLine bar lines end a
// printed line. Header lines (everything before the first bar line) are kept.
func WrapMeasures(notation string, perLine int) string {
	if notation == "" || perLine <= 0 {
		return notation
	}

	lines := strings.Split(notation, "\n")
	out := make([]string, 0, len(lines))
	inBody := false
	for _, line := range lines {
		if !inBody && !strings.Contains(line, barSeparator) {
			out = append(out, line)
			continue
		}
		inBody = true
		out = append(out, wrapLine(line, perLine)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, perLine int) []string {
	var (
		wrapped []string
		current strings.Builder
		bars    int
	)
	for _, ch := range line {
		current.WriteRune(ch)
		if string(ch) != barSeparator {
			continue
		}
		bars++
		if bars%perLine == 0 {
			wrapped = append(wrapped, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		if len(wrapped) > 0 && (rest == "]" || strings.HasPrefix(rest, "]")) {
			wrapped[len(wrapped)-1] += rest
		} else {
			wrapped = append(wrapped, rest)
		}
	}
	return wrapped
}
