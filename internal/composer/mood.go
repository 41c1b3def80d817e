package composer

import "strings"

// Mood is one of the fixed mood profiles a prompt resolves to
type Mood string

const (
	MoodBright Mood = "bright"
	MoodCalm   Mood = "calm"
	MoodDark   Mood = "dark"
	MoodEpic   Mood = "epic"
)

// MoodProfile bundles the keyword triggers and defaults for a mood
type MoodProfile struct {
	Name         Mood
	Keywords     []string
	DefaultKey   string
	DefaultTempo int
}

// moodProfiles is scanned in order; the first profile with a keyword hit wins.
// Keyword stems include the Korean forms the web client's users type.
var moodProfiles = [...]MoodProfile{
	{
		Name:         MoodBright,
		Keywords:     []string{"밝", "신나", "happy", "fun", "경쾌"},
		DefaultKey:   "C",
		DefaultTempo: 118,
	},
	{
		Name:         MoodCalm,
		Keywords:     []string{"잔잔", "calm", "편안", "휴식", "따뜻"},
		DefaultKey:   "F",
		DefaultTempo: 88,
	},
	{
		Name:         MoodDark,
		Keywords:     []string{"어둡", "dark", "서늘", "긴장", "긴박"},
		DefaultKey:   "Am",
		DefaultTempo: 96,
	},
	{
		Name:         MoodEpic,
		Keywords:     []string{"장엄", "epic", "웅장", "모험", "영화"},
		DefaultKey:   "G",
		DefaultTempo: 132,
	},
}

// moodSynonyms maps loose labels (usually from an LLM) onto a mood
var moodSynonyms = []struct {
	word string
	mood Mood
}{
	{"soft", MoodCalm},
	{"tense", MoodDark},
	{"grand", MoodEpic},
	{"happy", MoodBright},
}

// Profiles returns a copy of the mood table in classification order
func Profiles() []MoodProfile {
	out := make([]MoodProfile, len(moodProfiles))
	copy(out, moodProfiles[:])
	return out
}

// Profile looks up a mood profile. Unknown moods get the bright profile.
func Profile(mood Mood) MoodProfile {
	for _, p := range moodProfiles {
		if p.Name == mood {
			return p
		}
	}
	return moodProfiles[0]
}

// Classify picks a mood from free prompt text by case-insensitive substring match
func Classify(prompt string) Mood {
	lowered := strings.ToLower(prompt)
	for _, p := range moodProfiles {
		for _, kw := range p.Keywords {
			if strings.Contains(lowered, kw) {
				return p.Name
			}
		}
	}
	return MoodBright
}

// NormalizeMood maps an external label onto a known mood.
// The second return value is false when nothing matched; that is not an error.
func NormalizeMood(label string) (Mood, bool) {
	lowered := strings.ToLower(strings.TrimSpace(label))
	if lowered == "" {
		return "", false
	}
	for _, p := range moodProfiles {
		if strings.Contains(lowered, string(p.Name)) {
			return p.Name, true
		}
	}
	for _, s := range moodSynonyms {
		if strings.Contains(lowered, s.word) {
			return s.mood, true
		}
	}
	return "", false
}
