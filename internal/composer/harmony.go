package composer

import "strings"

// Scale degrees as indices into a palette
const (
	degreeI = iota
	degreeII
	degreeIII
	degreeIV
	degreeV
	degreeVI
	degreeVII
)

// Quality templates per degree. The minor template is deliberately loose:
// ii stays minor, V is borrowed major, VII is a major triad.
var (
	majorQualities = [7]Quality{Major, Minor, Minor, Major, Major, Minor, Diminished}
	minorQualities = [7]Quality{Minor, Minor, Major, Minor, Major, Major, Major}
)

// Progression templates, one per line, cycled to the measure count
var (
	majorTemplates = [][]string{
		{"I", "IV", "V", "I"},
		{"I", "vi", "IV", "V"},
		{"ii", "V", "I", "I"},
		{"I", "V", "vi", "IV"},
	}
	minorTemplates = [][]string{
		{"i", "VI", "III", "VII"},
		{"i", "iv", "V", "i"},
		{"i", "VI", "VII", "i"},
	}
	// appended to the pool for calm and dark moods
	majorReflectiveTemplate = []string{"I", "iii", "vi", "IV"}
	minorReflectiveTemplate = []string{"i", "v", "VI", "III"}
)

// degreeTable holds the literal Roman numerals the builder understands.
// Symbols not listed here resolve to the tonic chord.
var degreeTable = map[string]struct {
	degree     int
	forceMinor bool
}{
	"I":   {degreeI, false},
	"ii":  {degreeII, false},
	"iii": {degreeIII, false},
	"IV":  {degreeIV, false},
	"V":   {degreeV, false},
	"vi":  {degreeVI, false},
	"vii": {degreeVII, false},
	"i":   {degreeI, true},
	"iv":  {degreeIV, true},
	"III": {degreeIII, false},
	"VI":  {degreeVI, false},
	"VII": {degreeVII, false},
}

func isMinorKey(key string) bool {
	return strings.HasSuffix(key, "m")
}

// tonicOf strips the minor marker from a key string ("Am" -> "A")
func tonicOf(key string) string {
	return strings.ReplaceAll(key, "m", "")
}

// scaleFrom rotates the natural scale to start at tonic.
// Anything that is not a natural letter falls back to the C scale.
func scaleFrom(tonic string) [7]Letter {
	var scale [7]Letter
	start, ok := ParseLetter(tonic)
	if !ok || tonic != start.String() {
		start = 'C'
	}
	for i := range scale {
		scale[i] = start.Step(i)
	}
	return scale
}

// DiatonicPalette builds the seven triads for a tonic and mode
func DiatonicPalette(tonic string, minor bool) [7]Chord {
	scale := scaleFrom(tonic)
	qualities := majorQualities
	if minor {
		qualities = minorQualities
	}
	var palette [7]Chord
	for i, root := range scale {
		palette[i] = Chord{Root: root, Quality: qualities[i]}
	}
	return palette
}

// SelectTemplate draws one progression template for the mode and mood
func SelectTemplate(mood Mood, minor bool, rng Random) []string {
	var pool [][]string
	if minor {
		pool = append(pool, minorTemplates...)
	} else {
		pool = append(pool, majorTemplates...)
	}
	if mood == MoodCalm || mood == MoodDark {
		if minor {
			pool = append(pool, minorReflectiveTemplate)
		} else {
			pool = append(pool, majorReflectiveTemplate)
		}
	}
	return pool[rng.Intn(len(pool))]
}

// ExpandTemplate cycles template to exactly measures chords drawn from palette.
// Diminished triads come back as minor.
func ExpandTemplate(template []string, palette [7]Chord, measures int) []Chord {
	progression := make([]Chord, 0, measures)
	for i := 0; i < measures; i++ {
		chord := palette[degreeI]
		if len(template) > 0 {
			if entry, ok := degreeTable[template[i%len(template)]]; ok {
				chord = palette[entry.degree]
				if entry.forceMinor && chord.Quality == Major {
					chord.Quality = Minor
				}
			}
		}
		if chord.Quality == Diminished {
			chord.Quality = Minor
		}
		progression = append(progression, chord)
	}
	return progression
}

// BuildProgression resolves the palette for key, draws a template and expands it
func BuildProgression(key string, mood Mood, measures int, rng Random) []Chord {
	minor := isMinorKey(key)
	palette := DiatonicPalette(tonicOf(key), minor)
	template := SelectTemplate(mood, minor, rng)
	return ExpandTemplate(template, palette, measures)
}
