package midi

import (
	"github.com/pkg/errors"
)

func decodeHeader(cursor *ByteCursor, file *fileState) (Header, error) {
	var result Header
	var start = cursor.Offset()

	if cursor.Remaining() < HeaderSize {
		return result, newMismatchError(OutOfRange, start, HeaderSize, int64(cursor.Remaining()), "header chunk")
	}

	magic, err := decodeMagic(cursor)

	if err != nil {
		return result, err
	}

	if string(magic[:]) != MidiHeader {
		return result, newDecodeError(BadMagic, start, "invalid midi header %q", magic[:])
	}

	result.Magic = magic

	result.Length, err = DecodeUint(cursor, 4)

	if err != nil {
		return result, err
	}

	if result.Length != HeaderDataLength {
		file.warn(HeaderLengthWarning, start+4, "declared header length %d, expected %d", result.Length, HeaderDataLength)
	}

	format, err := DecodeUint16(cursor)

	if err != nil {
		return result, err
	}

	result.Format = Format(format)

	if result.Format > MultipleTracksAsync {
		file.warn(UnknownFormatWarning, start+8, "unknown midi format %d", format)
	}

	result.NTracks, err = DecodeUint16(cursor)

	if err != nil {
		return result, err
	}

	division, err := DecodeInt16(cursor)

	if err != nil {
		return result, err
	}

	result.Division = Division(division)

	return result, nil
}

func decodeTrack(cursor *ByteCursor, file *fileState) (*Track, error) {
	var start = cursor.Offset()

	magic, err := decodeMagic(cursor)

	if err != nil {
		return nil, err
	}

	if string(magic[:]) != TrackHeader {
		return nil, newDecodeError(BadMagic, start, "invalid track header %q", magic[:])
	}

	trackLength, err := DecodeUint(cursor, 4)

	if err != nil {
		return nil, err
	}

	if int64(trackLength) > int64(cursor.Remaining()) {
		return nil, newMismatchError(
			TruncatedTrack,
			cursor.Offset(),
			int64(trackLength),
			int64(cursor.Remaining()),
			"declared track length runs past end of data",
		)
	}

	var bodyStart = cursor.Offset()

	body, err := cursor.Sub(int(trackLength))

	if err != nil {
		return nil, err
	}

	file.active = body

	var state = newTrackState(file)
	var remaining = int64(trackLength)
	var events []*Event = nil

	for remaining > 0 {
		event, err := decodeEvent(body, state)

		if err != nil {
			var readErr *DecodeError

			if errors.As(err, &readErr) && readErr.Kind == OutOfRange {
				var needed = int64(readErr.Offset-bodyStart) + readErr.Expected

				return nil, newMismatchError(TruncatedTrack, readErr.Offset, int64(trackLength), needed, "event %d overruns track", len(events))
			}

			return nil, errors.Wrapf(err, "event %d", len(events))
		}

		remaining = remaining - int64(event.Size)

		if remaining < 0 {
			return nil, newMismatchError(TruncatedTrack, event.Offset, int64(trackLength), int64(trackLength)-remaining, "event %d overruns track", len(events))
		}

		events = append(events, event)
	}

	return &Track{
		Magic:  magic,
		Length: trackLength,
		Events: events,
	}, nil
}
