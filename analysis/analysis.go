package analysis

import (
	"sort"

	"github.com/pikechu/MidiReader/midi"
)

type noteKey struct {
	channel uint8
	note    uint8
}

type TempoChange struct {
	Tick             uint64 `json:"tick" yaml:"tick"`
	MicrosPerQuarter uint32 `json:"micros_per_quarter" yaml:"micros_per_quarter"`
}

// TempoMap is ordered by tick and always starts at tick 0.
type TempoMap []TempoChange

// AbsoluteTicks returns the absolute tick of every event in the track.
func AbsoluteTicks(track *midi.Track) []uint64 {
	var result = make([]uint64, len(track.Events))
	var tick uint64 = 0

	for index, event := range track.Events {
		tick = tick + uint64(event.Delta.Value)
		result[index] = tick
	}

	return result
}

func tempoOf(event *midi.Event) (uint32, bool) {
	meta, ok := event.Payload.(*midi.MetaEvent)

	if !ok {
		return 0, false
	}

	tempo, ok := meta.Value.(midi.Tempo)

	if !ok || tempo.MicrosPerQuarter == 0 {
		return 0, false
	}

	return tempo.MicrosPerQuarter, true
}

// BuildTempoMap collects tempo events from the given tracks. Later events
// at the same tick win.
func BuildTempoMap(tracks []*midi.Track) TempoMap {
	var changes []TempoChange = nil

	for _, track := range tracks {
		var ticks = AbsoluteTicks(track)

		for index, event := range track.Events {
			if tempo, ok := tempoOf(event); ok {
				changes = append(changes, TempoChange{ticks[index], tempo})
			}
		}
	}

	sort.SliceStable(changes, func(a, b int) bool {
		return changes[a].Tick < changes[b].Tick
	})

	var result = TempoMap{{0, midi.DefaultMicrosPerQuarter}}

	for _, change := range changes {
		if result[len(result)-1].Tick == change.Tick {
			result[len(result)-1] = change
		} else {
			result = append(result, change)
		}
	}

	return result
}

type midiTime struct {
	division      midi.Division
	tempos        TempoMap
	tempoIndex    int
	microsPerTick float64
	currentMicros float64
	lastTick      uint64
}

func newMidiTime(division midi.Division, tempos TempoMap) *midiTime {
	var result = &midiTime{
		division: division,
		tempos:   tempos,
	}

	result.applyTempo(midi.DefaultMicrosPerQuarter)

	return result
}

func (time *midiTime) applyTempo(microsPerQuarter uint32) {
	if time.division.IsSMPTE() && (time.division.SMPTEFormat() == 0 || time.division.TicksPerFrame() == 0) {
		time.microsPerTick = 0
	} else if time.division.IsSMPTE() {
		var fps = float64(time.division.SMPTEFormat())

		if fps == 29 {
			fps = 29.97
		}

		time.microsPerTick = 1000000 / (fps * float64(time.division.TicksPerFrame()))
	} else if time.division.TicksPerQuarter() == 0 {
		time.microsPerTick = 0
	} else {
		time.microsPerTick = float64(microsPerQuarter) / float64(time.division.TicksPerQuarter())
	}
}

// updateTo advances to tick, which must not be before the previous call.
func (time *midiTime) updateTo(tick uint64) {
	for time.tempoIndex < len(time.tempos) && time.tempos[time.tempoIndex].Tick <= tick {
		var change = time.tempos[time.tempoIndex]
		time.currentMicros = time.currentMicros + float64(change.Tick-time.lastTick)*time.microsPerTick
		time.lastTick = change.Tick
		time.applyTempo(change.MicrosPerQuarter)
		time.tempoIndex++
	}

	time.currentMicros = time.currentMicros + float64(tick-time.lastTick)*time.microsPerTick
	time.lastTick = tick
}

// Micros converts an absolute tick to microseconds from the start.
func (tempos TempoMap) Micros(division midi.Division, tick uint64) uint64 {
	var time = newMidiTime(division, tempos)
	time.updateTo(tick)
	return uint64(time.currentMicros + 0.5)
}

type noteEdge struct {
	tick uint64
	on   bool
	key  noteKey
}

// MaxActiveNotes is the largest number of notes sounding at once across the
// given tracks. A note on with velocity 0 counts as a note off.
func MaxActiveNotes(tracks []*midi.Track) int {
	var edges []noteEdge = nil

	for _, track := range tracks {
		var ticks = AbsoluteTicks(track)

		for index, event := range track.Events {
			switch payload := event.Payload.(type) {
			case midi.NoteOn:
				edges = append(edges, noteEdge{ticks[index], payload.Velocity > 0, noteKey{event.Channel, payload.Note}})
			case midi.NoteOff:
				edges = append(edges, noteEdge{ticks[index], false, noteKey{event.Channel, payload.Note}})
			}
		}
	}

	sort.SliceStable(edges, func(a, b int) bool {
		if edges[a].tick != edges[b].tick {
			return edges[a].tick < edges[b].tick
		}

		return !edges[a].on && edges[b].on
	})

	var active = make(map[noteKey]int)
	var count = 0
	var maxActive = 0

	for _, edge := range edges {
		if edge.on {
			active[edge.key]++
			count++

			if count > maxActive {
				maxActive = count
			}
		} else if active[edge.key] > 0 {
			active[edge.key]--
			count--
		}
	}

	return maxActive
}
