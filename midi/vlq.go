package midi

// MaxVLQBytes bounds a variable length quantity to 28 significant bits.
const MaxVLQBytes = 4

// DecodeVLQ reads a variable length quantity: seven bits per byte, most
// significant first, high bit set on every byte but the last.
func DecodeVLQ(cursor *ByteCursor) (DeltaTime, error) {
	var start = cursor.Offset()
	var result uint32 = 0
	var raw = make([]byte, 0, MaxVLQBytes)

	for len(raw) < MaxVLQBytes {
		readByte, err := DecodeByte(cursor)

		if err != nil {
			return DeltaTime{}, err
		}

		raw = append(raw, readByte)
		result = (result << 7) | (uint32(readByte) & 0x7F)

		if readByte&0x80 == 0 {
			return DeltaTime{
				Value: result,
				Raw:   raw,
			}, nil
		}
	}

	return DeltaTime{}, newDecodeError(MalformedVLQ, start, "no terminating byte within %d bytes", MaxVLQBytes)
}
