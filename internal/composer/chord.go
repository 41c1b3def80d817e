package composer

import "strings"

// Letter is a natural note name, A through G
type Letter byte

// naturals is the C-based scale every palette is rotated from
var naturals = [...]Letter{'C', 'D', 'E', 'F', 'G', 'A', 'B'}

// semitones above C for each natural letter
var letterSemitones = map[Letter]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

func (l Letter) String() string {
	return string(rune(l))
}

// index returns the position of l in the C scale, or -1
func (l Letter) index() int {
	for i, n := range naturals {
		if n == l {
			return i
		}
	}
	return -1
}

// Step returns the letter n scale steps above l (wrapping)
func (l Letter) Step(n int) Letter {
	i := l.index()
	if i < 0 {
		i = 0
	}
	return naturals[((i+n)%len(naturals)+len(naturals))%len(naturals)]
}

// ParseLetter accepts a single natural letter in either case
func ParseLetter(s string) (Letter, bool) {
	if len(s) != 1 {
		return 0, false
	}
	l := Letter(strings.ToUpper(s)[0])
	return l, l.index() >= 0
}

// Quality is the triad quality of a chord
type Quality int

const (
	Major Quality = iota
	Minor
	Diminished
)

func (q Quality) suffix() string {
	switch q {
	case Minor:
		return "m"
	case Diminished:
		return "dim"
	default:
		return ""
	}
}

// Chord is a diatonic triad
type Chord struct {
	Root    Letter
	Quality Quality
}

// String renders the chord symbol used in notation: "C", "Am", "Bdim"
func (c Chord) String() string {
	return c.Root.String() + c.Quality.suffix()
}

// Triad returns root, third and fifth letters
func (c Chord) Triad() [3]Letter {
	return [3]Letter{c.Root, c.Root.Step(2), c.Root.Step(4)}
}

// ParseChord reads a chord symbol in the "C" / "Am" / "Bdim" convention
func ParseChord(s string) (Chord, bool) {
	if s == "" {
		return Chord{}, false
	}
	root, ok := ParseLetter(s[:1])
	if !ok {
		return Chord{}, false
	}
	switch s[1:] {
	case "":
		return Chord{Root: root, Quality: Major}, true
	case "m":
		return Chord{Root: root, Quality: Minor}, true
	case "dim":
		return Chord{Root: root, Quality: Diminished}, true
	default:
		return Chord{}, false
	}
}

// ChordNames renders a progression as chord symbols
func ChordNames(chords []Chord) []string {
	names := make([]string, len(chords))
	for i, c := range chords {
		names[i] = c.String()
	}
	return names
}
