package midi

import (
	"encoding/binary"
)

// DecodeUint reads a big endian unsigned integer of 1 to 4 bytes.
func DecodeUint(cursor *ByteCursor, width int) (uint32, error) {
	if width < 1 || width > 4 {
		return 0, newMismatchError(InvalidWidth, cursor.Offset(), 4, int64(width), "integer width must be 1 to 4 bytes")
	}

	data, err := cursor.Request(width)

	if err != nil {
		return 0, err
	}

	switch width {
	case 1:
		return uint32(data[0]), nil
	case 2:
		return uint32(binary.BigEndian.Uint16(data)), nil
	case 4:
		return binary.BigEndian.Uint32(data), nil
	}

	var result uint32 = 0

	for _, curr := range data {
		result = (result << 8) | uint32(curr)
	}

	return result, nil
}

func DecodeByte(cursor *ByteCursor) (uint8, error) {
	data, err := cursor.Request(1)

	if err != nil {
		return 0, err
	}

	return data[0], nil
}

func DecodeUint16(cursor *ByteCursor) (uint16, error) {
	value, err := DecodeUint(cursor, 2)
	return uint16(value), err
}

func DecodeInt16(cursor *ByteCursor) (int16, error) {
	value, err := DecodeUint(cursor, 2)
	return int16(uint16(value)), err
}

// DecodeTag copies width raw bytes without any byte order transform.
func DecodeTag(cursor *ByteCursor, width int) ([]byte, error) {
	data, err := cursor.Request(width)

	if err != nil {
		return nil, err
	}

	var result = make([]byte, len(data))
	copy(result, data)

	return result, nil
}

func decodeMagic(cursor *ByteCursor) ([4]byte, error) {
	var result [4]byte

	data, err := cursor.Request(4)

	if err != nil {
		return result, err
	}

	copy(result[:], data)

	return result, nil
}
