package midi

import (
	"bytes"
	"encoding/binary"
)

// Test fixtures are built with this small encoder. It writes exactly the
// bytes it is given, so tests control running status and lengths.

func writeVarInt(writer *bytes.Buffer, value uint32, hasMore bool) {
	var curr uint8 = uint8(value) & 0x7f

	value = value >> 7

	if value != 0 {
		writeVarInt(writer, value, true)
	}

	if hasMore {
		curr = curr | 0x80
	}

	writer.WriteByte(curr)
}

func encodeVLQ(value uint32) []byte {
	var result bytes.Buffer
	writeVarInt(&result, value, false)
	return result.Bytes()
}

func encodeHeader(header Header) []byte {
	var writer bytes.Buffer

	writer.Write(header.Magic[:])
	binary.Write(&writer, binary.BigEndian, header.Length)
	binary.Write(&writer, binary.BigEndian, uint16(header.Format))
	binary.Write(&writer, binary.BigEndian, header.NTracks)
	binary.Write(&writer, binary.BigEndian, int16(header.Division))

	return writer.Bytes()
}

func newHeader(format Format, trackCount uint16, division Division) Header {
	var result = Header{
		Length:   HeaderDataLength,
		Format:   format,
		NTracks:  trackCount,
		Division: division,
	}

	copy(result.Magic[:], MidiHeader)

	return result
}

// encodeTrack wraps raw event bytes in a track chunk with the given declared
// length. A negative length means the real length.
func encodeTrack(events []byte, declaredLength int) []byte {
	var writer bytes.Buffer

	if declaredLength < 0 {
		declaredLength = len(events)
	}

	writer.WriteString(TrackHeader)
	binary.Write(&writer, binary.BigEndian, uint32(declaredLength))
	writer.Write(events)

	return writer.Bytes()
}

func encodeFile(format Format, division Division, tracks ...[]byte) []byte {
	var writer bytes.Buffer

	writer.Write(encodeHeader(newHeader(format, uint16(len(tracks)), division)))

	for _, track := range tracks {
		writer.Write(encodeTrack(track, -1))
	}

	return writer.Bytes()
}

func join(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

var endOfTrack = []byte{0x00, 0xFF, 0x2F, 0x00}
