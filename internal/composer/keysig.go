package composer

import "strings"

var (
	sharpOrder = [...]Letter{'F', 'C', 'G', 'D', 'A', 'E', 'B'}
	flatOrder  = [...]Letter{'B', 'E', 'A', 'D', 'G', 'C', 'F'}
)

// keyFifths is the signed number of accidentals for each major tonic;
// minor keys are looked up through their relative major.
var keyFifths = map[string]int{
	"C": 0, "G": 1, "D": 2, "A": 3, "E": 4, "B": 5, "F#": 6, "C#": 7,
	"F": -1, "Bb": -2, "Eb": -3, "Ab": -4, "Db": -5, "Gb": -6, "Cb": -7,
}

// minor key fifths are three fewer than the parallel major
const relativeMinorShift = 3

// KeySignature returns the semitone adjustment the K: field applies to each
// letter. Keys it does not recognize yield an empty signature.
func KeySignature(key string) map[Letter]int {
	sig := map[Letter]int{}

	tonic, minor := key, false
	if strings.HasSuffix(key, "m") {
		tonic, minor = strings.TrimSuffix(key, "m"), true
	}
	fifths, ok := keyFifths[tonic]
	if !ok {
		return sig
	}
	if minor {
		fifths -= relativeMinorShift
	}

	switch {
	case fifths > 0:
		for i := 0; i < fifths && i < len(sharpOrder); i++ {
			sig[sharpOrder[i]] = 1
		}
	case fifths < 0:
		for i := 0; i < -fifths && i < len(flatOrder); i++ {
			sig[flatOrder[i]] = -1
		}
	}
	return sig
}

// MIDIKey converts a pitch to a MIDI note number under a key signature.
// Upper-case C is middle C (60).
func MIDIKey(p Pitch, signature map[Letter]int) int {
	const middleC, octave = 60, 12
	return middleC + octave*p.Octave + letterSemitones[p.Letter] + signature[p.Letter]
}
