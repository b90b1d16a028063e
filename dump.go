package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pikechu/MidiReader/midi"
	"gopkg.in/yaml.v2"
)

type eventView struct {
	Offset  int    `yaml:"offset" json:"offset"`
	Delta   uint32 `yaml:"delta" json:"delta"`
	Status  string `yaml:"status" json:"status"`
	Channel *uint8 `yaml:"channel,omitempty" json:"channel,omitempty"`
	Running bool   `yaml:"running_status,omitempty" json:"running_status,omitempty"`
	Kind    string `yaml:"kind" json:"kind"`
	Detail  string `yaml:"detail,omitempty" json:"detail,omitempty"`
}

type trackView struct {
	Length uint32      `yaml:"length" json:"length"`
	Events []eventView `yaml:"events" json:"events"`
}

type headerView struct {
	Format   string `yaml:"format" json:"format"`
	Tracks   uint16 `yaml:"tracks" json:"tracks"`
	Division int16  `yaml:"division" json:"division"`
}

type fileView struct {
	Header   headerView  `yaml:"header" json:"header"`
	Tracks   []trackView `yaml:"tracks" json:"tracks"`
	Warnings []string    `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

func newHeaderView(header midi.Header) headerView {
	return headerView{
		Format:   header.Format.String(),
		Tracks:   header.NTracks,
		Division: int16(header.Division),
	}
}

func describeMeta(meta *midi.MetaEvent) string {
	switch value := meta.Value.(type) {
	case midi.SequenceNumber:
		return fmt.Sprintf("number=%d", value.Number)
	case midi.Text:
		return fmt.Sprintf("%q", value.Text)
	case midi.ChannelPrefix:
		return fmt.Sprintf("channel=%d", value.Channel)
	case midi.Port:
		return fmt.Sprintf("port=%d", value.Port)
	case midi.EndOfTrack:
		return ""
	case midi.Tempo:
		bpm, err := value.BPM()

		if err != nil {
			return fmt.Sprintf("usec_per_quarter=%d", value.MicrosPerQuarter)
		}

		return fmt.Sprintf("usec_per_quarter=%d bpm=%.2f", value.MicrosPerQuarter, bpm)
	case midi.SMPTEOffset:
		return fmt.Sprintf("%02d:%02d:%02d frame=%d.%02d", value.Hours, value.Minutes, value.Seconds, value.Frames, value.FractionalFrames)
	case midi.TimeSignature:
		return fmt.Sprintf("%d/%d clocks=%d 32nds=%d", value.Numerator, value.Denominator(), value.ClocksPerClick, value.ThirtySecondsPerQuarter)
	case midi.KeySignature:
		var mode = "major"

		if value.Minor() {
			mode = "minor"
		}

		return fmt.Sprintf("sharps_flats=%d %s", value.SharpsFlats, mode)
	case midi.Opaque:
		return fmt.Sprintf("% X", value.Data)
	}

	return ""
}

// describeEvent returns a short kind name and the payload fields.
func describeEvent(event *midi.Event) (string, string) {
	switch payload := event.Payload.(type) {
	case midi.NoteOff:
		return "NoteOff", fmt.Sprintf("note=%d velocity=%d", payload.Note, payload.Velocity)
	case midi.NoteOn:
		return "NoteOn", fmt.Sprintf("note=%d velocity=%d", payload.Note, payload.Velocity)
	case midi.PolyPressure:
		return "PolyPressure", fmt.Sprintf("note=%d pressure=%d", payload.Note, payload.Pressure)
	case midi.Controller:
		return "Controller", fmt.Sprintf("controller=%d value=%d", payload.Controller, payload.Value)
	case midi.ProgramChange:
		return "ProgramChange", fmt.Sprintf("program=%d", payload.Program)
	case midi.ChannelPressure:
		return "ChannelPressure", fmt.Sprintf("pressure=%d", payload.Pressure)
	case midi.PitchBend:
		return "PitchBend", fmt.Sprintf("value=%d", payload.Value())
	case *midi.MetaEvent:
		return "Meta" + payload.Type.String(), describeMeta(payload)
	case *midi.SysexEvent:
		return "Sysex", fmt.Sprintf("length=%d data=% X", len(payload.Data), payload.Data)
	}

	return "Unknown", ""
}

func newFileView(file *midi.File) fileView {
	var result = fileView{
		Header: newHeaderView(file.Header),
	}

	for _, track := range file.Tracks {
		var view = trackView{Length: track.Length}

		for _, event := range track.Events {
			kind, detail := describeEvent(event)

			var eventResult = eventView{
				Offset:  event.Offset,
				Delta:   event.Delta.Value,
				Status:  fmt.Sprintf("0x%02X", event.Status),
				Running: event.RunningStatus,
				Kind:    kind,
				Detail:  detail,
			}

			if event.IsChannelVoice() {
				var channel = event.Channel
				eventResult.Channel = &channel
			}

			view.Events = append(view.Events, eventResult)
		}

		result.Tracks = append(result.Tracks, view)
	}

	for _, warning := range file.Warnings {
		result.Warnings = append(result.Warnings, warning.String())
	}

	return result
}

func writeYaml(writer io.Writer, value interface{}) error {
	data, err := yaml.Marshal(value)

	if err != nil {
		return err
	}

	_, err = writer.Write(data)
	return err
}

func writeDump(writer io.Writer, file *midi.File) {
	var header = file.Header

	fmt.Fprintf(writer, "%s length=%d format=%s tracks=%d division=%d\n",
		midi.MidiHeader, header.Length, header.Format, header.NTracks, int16(header.Division))

	for index, track := range file.Tracks {
		fmt.Fprintf(writer, "%s %d length=%d events=%d\n", midi.TrackHeader, index, track.Length, len(track.Events))

		for _, event := range track.Events {
			kind, detail := describeEvent(event)

			var channel = "  "

			if event.IsChannelVoice() {
				channel = fmt.Sprintf("%2d", event.Channel)
			}

			var running = ""

			if event.RunningStatus {
				running = " (running)"
			}

			fmt.Fprintf(writer, "  %8d +%-6d %02X%s ch%s %s %s\n",
				event.Offset, event.Delta.Value, event.Status, running, channel, kind, strings.TrimSpace(detail))
		}
	}

	for _, warning := range file.Warnings {
		fmt.Fprintf(writer, "warning: %s\n", warning)
	}
}
