package midi

import (
	"fmt"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
)

type ZeroTempoPolicy uint8

const (
	// ZeroTempoFail aborts the decode with DivideByZero.
	ZeroTempoFail ZeroTempoPolicy = iota
	// ZeroTempoDefault substitutes DefaultMicrosPerQuarter and records a
	// warning.
	ZeroTempoDefault
)

type Options struct {
	// Strict turns trailing bytes after the last track into an ExtraData
	// failure instead of a warning.
	Strict    bool
	ZeroTempo ZeroTempoPolicy
}

type Option func(*Options)

func WithStrict(strict bool) Option {
	return func(options *Options) {
		options.Strict = strict
	}
}

func WithZeroTempo(policy ZeroTempoPolicy) Option {
	return func(options *Options) {
		options.ZeroTempo = policy
	}
}

type fileState struct {
	options  Options
	warnings []Warning
	// active is the cursor currently being read, a track's bounded cursor
	// while its events are decoded.
	active *ByteCursor
}

func (file *fileState) warn(kind WarningKind, offset int, format string, args ...interface{}) {
	file.warnings = append(file.warnings, Warning{
		Kind:    kind,
		Offset:  offset,
		Message: fmt.Sprintf(format, args...),
	})
}

func (file *fileState) zeroTempo(offset int) (Tempo, error) {
	if file.options.ZeroTempo == ZeroTempoDefault {
		file.warn(ZeroTempoWarning, offset, "tempo of 0, using %d", DefaultMicrosPerQuarter)
		return Tempo{DefaultMicrosPerQuarter}, nil
	}

	return Tempo{}, newDecodeError(DivideByZero, offset, "tempo of 0 microseconds per quarter note")
}

// Decoder decodes one standard midi file from a byte slice. A Decoder is not
// safe for concurrent use, but separate Decoders share nothing.
type Decoder struct {
	data   []byte
	cursor *ByteCursor
	file   fileState
}

func NewDecoder(data []byte, options ...Option) *Decoder {
	var result = &Decoder{
		data:   data,
		cursor: NewByteCursor(data),
	}

	for _, option := range options {
		option(&result.file.options)
	}

	return result
}

// Offset is the cursor position, after a failed Decode it points at the
// failing read.
func (decoder *Decoder) Offset() int {
	if decoder.file.active != nil {
		return decoder.file.active.Offset()
	}

	return decoder.cursor.Offset()
}

// Decode reads the file from the start of the data. Calling it again decodes
// the same data afresh.
func (decoder *Decoder) Decode() (*File, error) {
	decoder.cursor = NewByteCursor(decoder.data)
	decoder.file.warnings = nil
	decoder.file.active = nil

	var cursor = decoder.cursor
	var file = &decoder.file

	header, err := decodeHeader(cursor, file)

	if err != nil {
		return nil, errors.Wrap(err, "header")
	}

	var tracks = make([]*Track, 0, header.NTracks)

	for trackIndex := 0; trackIndex < int(header.NTracks); trackIndex++ {
		if cursor.Remaining() < 8 {
			return nil, newMismatchError(
				TrackCountMismatch,
				cursor.Offset(),
				int64(header.NTracks),
				int64(trackIndex),
				"data ended before all tracks, %d bytes left",
				cursor.Remaining(),
			)
		}

		track, err := decodeTrack(cursor, file)

		if err != nil {
			return nil, errors.Wrapf(err, "track %d", trackIndex)
		}

		file.active = nil

		tracks = append(tracks, track)
	}

	if cursor.Remaining() > 0 {
		if file.options.Strict {
			return nil, newMismatchError(ExtraData, cursor.Offset(), 0, int64(cursor.Remaining()), "bytes after last track")
		}

		file.warn(ExtraDataWarning, cursor.Offset(), "%d bytes after last track", cursor.Remaining())
	}

	return &File{
		Header:   header,
		Tracks:   tracks,
		Warnings: file.warnings,
	}, nil
}

func Decode(data []byte, options ...Option) (*File, error) {
	return NewDecoder(data, options...).Decode()
}

// ReadMidi loads the whole reader into memory and decodes it.
func ReadMidi(reader io.Reader, options ...Option) (*File, error) {
	data, err := ioutil.ReadAll(reader)

	if err != nil {
		return nil, errors.Wrap(err, "reading midi data")
	}

	return Decode(data, options...)
}
