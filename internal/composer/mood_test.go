package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   Mood
	}{
		{"bright keyword", "a bright happy morning", MoodBright},
		{"calm upper case", "A CALM evening by the lake", MoodCalm},
		{"dark substring", "something darkly beautiful", MoodDark},
		{"epic", "Epic battle over the mountains", MoodEpic},
		{"korean calm stem", "잔잔한 피아노 곡", MoodCalm},
		{"korean epic stem", "웅장한 오케스트라", MoodEpic},
		{"first profile wins", "calm but dark", MoodCalm},
		{"bright is not a keyword", "a bright but dark tune", MoodDark},
		{"gloomy is not a keyword", "gloomy night", MoodBright},
		{"heroic is not a keyword", "a heroic cinematic theme", MoodBright},
		{"no keyword defaults to bright", "a melody about trains", MoodBright},
		{"empty prompt", "", MoodBright},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.prompt))
		})
	}
}

func TestNormalizeMood(t *testing.T) {
	tests := []struct {
		label  string
		want   Mood
		wantOK bool
	}{
		{"calm", MoodCalm, true},
		{"Calm and warm", MoodCalm, true},
		{"very tense", MoodDark, true},
		{"grand", MoodEpic, true},
		{"happy", MoodBright, true},
		{"soft", MoodCalm, true},
		{"epic and dark", MoodDark, true},
		{"", "", false},
		{"   ", "", false},
		{"melancholic", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := NormalizeMood(tt.label)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProfiles(t *testing.T) {
	profiles := Profiles()
	assert.Len(t, profiles, 4)
	assert.Equal(t, []Mood{MoodBright, MoodCalm, MoodDark, MoodEpic},
		[]Mood{profiles[0].Name, profiles[1].Name, profiles[2].Name, profiles[3].Name})

	// mutating the copy must not touch the table
	profiles[0].DefaultTempo = 1
	assert.Equal(t, 118, Profile(MoodBright).DefaultTempo)
}

func TestProfile_Defaults(t *testing.T) {
	assert.Equal(t, "C", Profile(MoodBright).DefaultKey)
	assert.Equal(t, 88, Profile(MoodCalm).DefaultTempo)
	assert.Equal(t, "Am", Profile(MoodDark).DefaultKey)
	assert.Equal(t, 132, Profile(MoodEpic).DefaultTempo)
	assert.Equal(t, MoodBright, Profile(Mood("unknown")).Name)
}

func TestResolveParams(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		hint   *Hint
		want   Params
	}{
		{
			name:   "profile defaults without hint",
			prompt: "a bright happy morning",
			want:   Params{Mood: MoodBright, Key: "C", Tempo: 118, Meter: "4/4"},
		},
		{
			name:   "hint tempo beats profile tempo",
			prompt: "a calm night",
			hint:   &Hint{Tempo: 140},
			want:   Params{Mood: MoodCalm, Key: "F", Tempo: 140, Meter: "4/4"},
		},
		{
			name:   "hint mood beats classification",
			prompt: "happy tune",
			hint:   &Hint{Mood: "tense"},
			want:   Params{Mood: MoodDark, Key: "Am", Tempo: 96, Meter: "4/4"},
		},
		{
			name:   "unknown hint mood falls back to prompt",
			prompt: "epic quest",
			hint:   &Hint{Mood: "melancholic"},
			want:   Params{Mood: MoodEpic, Key: "G", Tempo: 132, Meter: "4/4"},
		},
		{
			name:   "hint key and meter pass through",
			prompt: "epic quest",
			hint:   &Hint{Key: "Dm", Meter: "3/4"},
			want:   Params{Mood: MoodEpic, Key: "Dm", Tempo: 132, Meter: "3/4"},
		},
		{
			name:   "non-positive tempo is absent",
			prompt: "calm",
			hint:   &Hint{Tempo: -5},
			want:   Params{Mood: MoodCalm, Key: "F", Tempo: 88, Meter: "4/4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveParams(tt.prompt, tt.hint)
			assert.Equal(t, tt.want, got)
		})
	}
}
