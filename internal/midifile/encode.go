// Package midifile renders a generated sketch as a Standard MIDI File.
package midifile

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/Conceptual-Machines/melodycraft-api/internal/composer"
)

const (
	TicksPerQuarter = 480

	percussionChannel = 9
	melodicChannels   = 15

	accentVelocity = 96
	noteVelocity   = 80
)

// ContentType is the media type served for encoded files
const ContentType = "audio/midi"

// Encode writes res as a type 1 file: a conductor track carrying tempo and
// meter, followed by one track per voice.
func Encode(w io.Writer, res *composer.Result) error {
	if res == nil {
		return fmt.Errorf("nothing to encode")
	}

	s := smf.New()
	ticks := smf.MetricTicks(TicksPerQuarter)
	s.TimeFormat = ticks

	if err := s.Add(conductorTrack(res)); err != nil {
		return fmt.Errorf("failed to add conductor track: %w", err)
	}

	signature := composer.KeySignature(res.Params.Key)
	for _, v := range res.Voices {
		if err := s.Add(voiceTrack(v, signature, ticks.Ticks8th())); err != nil {
			return fmt.Errorf("failed to add track for %s: %w", v.Instrument.Name, err)
		}
	}

	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write midi file: %w", err)
	}
	return nil
}

// Bytes is Encode into memory
func Bytes(res *composer.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, res); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func conductorTrack(res *composer.Result) smf.Track {
	num, denom := parseMeter(res.Params.Meter)

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("MelodyCraft Sketch"))
	tr.Add(0, smf.MetaMeter(num, denom))
	tr.Add(0, smf.MetaTempo(float64(res.Params.Tempo)))
	tr.Close(0)
	return tr
}

func voiceTrack(v composer.Voice, signature map[composer.Letter]int, unit uint32) smf.Track {
	ch := Channel(v.Channel)

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(v.Instrument.Name))
	tr.Add(0, midi.ProgramChange(ch, programNumber(v.Instrument.Program)))

	for _, m := range v.Measures {
		for i, n := range m.Notes {
			key := clampKey(composer.MIDIKey(n.Pitch, signature))
			velocity := uint8(noteVelocity)
			if i == 0 {
				velocity = accentVelocity
			}
			tr.Add(0, midi.NoteOn(ch, key, velocity))
			tr.Add(uint32(n.Duration)*unit, midi.NoteOff(ch, key))
		}
	}
	tr.Close(0)
	return tr
}

// Channel maps a voice channel onto a melodic MIDI channel, stepping over
// the General MIDI percussion channel.
func Channel(voiceChannel int) uint8 {
	if voiceChannel < 0 {
		voiceChannel = 0
	}
	c := voiceChannel % melodicChannels
	if c >= percussionChannel {
		c++
	}
	return uint8(c)
}

// programNumber converts the 1-based program in notation to the 0-based wire value
func programNumber(program int) uint8 {
	switch {
	case program < 1:
		return 0
	case program > 128:
		return 127
	default:
		return uint8(program - 1)
	}
}

func clampKey(key int) uint8 {
	switch {
	case key < 0:
		return 0
	case key > 127:
		return 127
	default:
		return uint8(key)
	}
}

// parseMeter reads "N/D". Anything unreadable is treated as 4/4.
func parseMeter(meter string) (uint8, uint8) {
	parts := strings.Split(strings.TrimSpace(meter), "/")
	if len(parts) != 2 {
		return 4, 4
	}
	num, err := strconv.Atoi(parts[0])
	if err != nil || num < 1 || num > 32 {
		return 4, 4
	}
	denom, err := strconv.Atoi(parts[1])
	if err != nil || denom < 1 || denom > 32 || denom&(denom-1) != 0 {
		return 4, 4
	}
	return uint8(num), uint8(denom)
}
