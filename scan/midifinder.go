package scan

import (
	"bytes"

	"github.com/pikechu/MidiReader/midi"
)

type Found struct {
	Offset int
	// Size is the number of bytes the header and its tracks occupy.
	Size int
	File *midi.File
}

// Options control FindMidi. Alignment restricts candidate offsets to
// multiples of it, 0 or 1 accepts any offset.
type Options struct {
	Alignment int
	Decode    []midi.Option
}

func encodedSize(file *midi.File) int {
	var result = midi.HeaderSize

	for _, track := range file.Tracks {
		result = result + 8 + int(track.Length)
	}

	return result
}

// plausible rejects candidates that only decode by accident, such as a
// stray "MThd" followed by arbitrary bytes.
func plausible(file *midi.File) bool {
	if file.Header.NTracks == 0 {
		return false
	}

	for _, warning := range file.Warnings {
		if warning.Kind == midi.HeaderLengthWarning || warning.Kind == midi.UnknownFormatWarning {
			return false
		}
	}

	return true
}

func withoutExtraData(warnings []midi.Warning) []midi.Warning {
	var result []midi.Warning = nil

	for _, warning := range warnings {
		if warning.Kind != midi.ExtraDataWarning {
			result = append(result, warning)
		}
	}

	return result
}

// FindMidi locates every decodable midi file embedded in content. Bytes after
// a found file are part of the blob, so ExtraData is never reported.
func FindMidi(content []byte, options Options) []Found {
	var result []Found = nil
	var magic = []byte(midi.MidiHeader)
	var decodeOptions = append([]midi.Option{}, options.Decode...)
	decodeOptions = append(decodeOptions, midi.WithStrict(false))

	for i := 0; i+midi.HeaderSize <= len(content); {
		var next = bytes.Index(content[i:], magic)

		if next < 0 {
			break
		}

		i = i + next

		if options.Alignment > 1 && i%options.Alignment != 0 {
			i++
			continue
		}

		file, err := midi.Decode(content[i:], decodeOptions...)

		if err != nil || !plausible(file) {
			i++
			continue
		}

		file.Warnings = withoutExtraData(file.Warnings)

		var size = encodedSize(file)

		result = append(result, Found{
			Offset: i,
			Size:   size,
			File:   file,
		})

		i = i + size
	}

	return result
}
