package analysis

import (
	"sort"

	"github.com/pikechu/MidiReader/midi"
)

type TrackSummary struct {
	Index          int     `json:"index" yaml:"index"`
	Name           string  `json:"name,omitempty" yaml:"name,omitempty"`
	Events         int     `json:"events" yaml:"events"`
	NoteOns        int     `json:"note_ons" yaml:"note_ons"`
	Channels       []uint8 `json:"channels,omitempty" yaml:"channels,omitempty"`
	EndTick        uint64  `json:"end_tick" yaml:"end_tick"`
	DurationMicros uint64  `json:"duration_micros" yaml:"duration_micros"`
	MaxActiveNotes int     `json:"max_active_notes" yaml:"max_active_notes"`
}

type Summary struct {
	Format         string         `json:"format" yaml:"format"`
	Division       int16          `json:"division" yaml:"division"`
	Tempos         TempoMap       `json:"tempos" yaml:"tempos"`
	Tracks         []TrackSummary `json:"tracks" yaml:"tracks"`
	DurationMicros uint64         `json:"duration_micros" yaml:"duration_micros"`
	MaxActiveNotes int            `json:"max_active_notes" yaml:"max_active_notes"`
	Warnings       []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func trackName(track *midi.Track) string {
	for _, event := range track.Events {
		meta, ok := event.Payload.(*midi.MetaEvent)

		if ok && meta.Type == midi.MetaTrackName {
			return meta.Value.(midi.Text).Text
		}
	}

	return ""
}

// tempoTracks returns the tracks whose tempo events govern track index.
// Format 2 tracks are independent sequences, otherwise tempo is global.
func tempoTracks(file *midi.File, index int) []*midi.Track {
	if file.Header.Format == midi.MultipleTracksAsync {
		return file.Tracks[index : index+1]
	}

	return file.Tracks
}

func summarizeTrack(file *midi.File, index int) TrackSummary {
	var track = file.Tracks[index]
	var ticks = AbsoluteTicks(track)
	var channels = make(map[uint8]bool)

	var result = TrackSummary{
		Index:  index,
		Name:   trackName(track),
		Events: len(track.Events),
	}

	for eventIndex, event := range track.Events {
		if event.IsChannelVoice() {
			channels[event.Channel] = true
		}

		if on, ok := event.Payload.(midi.NoteOn); ok && on.Velocity > 0 {
			result.NoteOns++
		}

		result.EndTick = ticks[eventIndex]
	}

	for channel := range channels {
		result.Channels = append(result.Channels, channel)
	}

	sort.Slice(result.Channels, func(a, b int) bool {
		return result.Channels[a] < result.Channels[b]
	})

	var tempos = BuildTempoMap(tempoTracks(file, index))

	result.DurationMicros = tempos.Micros(file.Header.Division, result.EndTick)
	result.MaxActiveNotes = MaxActiveNotes([]*midi.Track{track})

	return result
}

func Summarize(file *midi.File) *Summary {
	var result = &Summary{
		Format:         file.Header.Format.String(),
		Division:       int16(file.Header.Division),
		Tempos:         BuildTempoMap(file.Tracks),
		MaxActiveNotes: MaxActiveNotes(file.Tracks),
	}

	if file.Header.Format == midi.MultipleTracksAsync {
		result.MaxActiveNotes = 0
	}

	for index := range file.Tracks {
		var track = summarizeTrack(file, index)
		result.Tracks = append(result.Tracks, track)

		if track.DurationMicros > result.DurationMicros {
			result.DurationMicros = track.DurationMicros
		}

		if file.Header.Format == midi.MultipleTracksAsync && track.MaxActiveNotes > result.MaxActiveNotes {
			result.MaxActiveNotes = track.MaxActiveNotes
		}
	}

	for _, warning := range file.Warnings {
		result.Warnings = append(result.Warnings, warning.String())
	}

	return result
}
