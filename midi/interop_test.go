package midi

import (
	"bytes"
	"testing"

	audiomidi "github.com/go-audio/midi"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Files written by an independent encoder must decode to the same notes.
func TestDecodeGomidiFile(t *testing.T) {
	var song = smf.NewSMF1()
	song.TimeFormat = smf.MetricTicks(480)

	var lead smf.Track
	lead.Add(0, smf.MetaTrackSequenceName("lead"))
	lead.Add(0, smf.MetaTempo(120))
	lead.Add(0, gomidi.NoteOn(0, 60, 100))
	lead.Add(480, gomidi.NoteOff(0, 60))
	lead.Add(0, gomidi.NoteOn(0, 62, 90))
	lead.Add(480, gomidi.NoteOff(0, 62))
	lead.Close(0)

	var bass smf.Track
	bass.Add(0, gomidi.ProgramChange(1, 33))
	bass.Add(0, gomidi.NoteOn(1, 36, 110))
	bass.Add(960, gomidi.NoteOff(1, 36))
	bass.Close(0)

	song.Tracks = append(song.Tracks, lead, bass)

	var buffer bytes.Buffer

	if _, err := song.WriteTo(&buffer); err != nil {
		t.Fatal(err)
	}

	file, err := Decode(buffer.Bytes())

	if err != nil {
		t.Fatal(err)
	}

	if file.Header.Format != MultipleTracks || file.Header.NTracks != 2 || file.Header.Division.TicksPerQuarter() != 480 {
		t.Fatalf("header %+v", file.Header)
	}

	if len(file.Warnings) != 0 {
		t.Errorf("warnings %v", file.Warnings)
	}

	var names []string = nil
	var notes [][]uint8 = nil
	var tempos []uint32 = nil
	var ends = 0

	for _, track := range file.Tracks {
		var trackNotes []uint8 = nil
		var remaining = int(track.Length)

		for _, event := range track.Events {
			remaining = remaining - event.Size

			switch payload := event.Payload.(type) {
			case NoteOn:
				if payload.Velocity > 0 {
					trackNotes = append(trackNotes, payload.Note)
				}
			case *MetaEvent:
				switch value := payload.Value.(type) {
				case Text:
					names = append(names, value.Text)
				case Tempo:
					tempos = append(tempos, value.MicrosPerQuarter)
				case EndOfTrack:
					ends++
				}
			}
		}

		if remaining != 0 {
			t.Errorf("track budget left at %d", remaining)
		}

		notes = append(notes, trackNotes)
	}

	if len(names) != 1 || names[0] != "lead" {
		t.Errorf("names %v", names)
	}

	if len(tempos) != 1 || tempos[0] != 500000 {
		t.Errorf("tempos %v", tempos)
	}

	if ends != 2 {
		t.Errorf("%d end of track events", ends)
	}

	if !bytes.Equal(notes[0], []uint8{60, 62}) || !bytes.Equal(notes[1], []uint8{36}) {
		t.Errorf("notes %v", notes)
	}
}

// An independent decoder must agree on the note stream.
func TestMatchesGoAudioDecoder(t *testing.T) {
	var track = join(
		[]byte{0x00, 0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20},
		[]byte{0x00, 0x90, 0x3C, 0x40},
		[]byte{0x60, 0x90, 0x40, 0x50},
		[]byte{0x83, 0x60, 0x80, 0x3C, 0x00},
		[]byte{0x00, 0x80, 0x40, 0x00},
		[]byte{0x10, 0x91, 0x43, 0x22},
		[]byte{0x10, 0x81, 0x43, 0x00},
		endOfTrack,
	)
	var data = encodeFile(SingleTrack, 96, track)

	file, err := Decode(data)

	if err != nil {
		t.Fatal(err)
	}

	var reference = audiomidi.NewDecoder(bytes.NewReader(data))

	if err := reference.Decode(); err != nil {
		t.Fatal(err)
	}

	if len(reference.Tracks) != 1 {
		t.Fatalf("reference decoded %d tracks", len(reference.Tracks))
	}

	var ours []uint8 = nil

	for _, event := range file.Tracks[0].Events {
		if on, ok := event.Payload.(NoteOn); ok {
			ours = append(ours, on.Note)
		}
	}

	var theirs []uint8 = nil

	for _, event := range reference.Tracks[0].Events {
		if event.MsgType == 0x9 {
			theirs = append(theirs, event.Note)
		}
	}

	if !bytes.Equal(ours, theirs) {
		t.Errorf("note ons %v, reference %v", ours, theirs)
	}
}
