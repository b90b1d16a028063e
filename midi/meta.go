package midi

// fixedMetaLength is the payload size implied by a meta type, or -1 when the
// declared length decides.
func fixedMetaLength(metaType MetaType) int {
	switch metaType {
	case MetaSequenceNumber:
		return 2
	case MetaChannelPrefix, MetaPort:
		return 1
	case MetaEndOfTrack:
		return 0
	case MetaTempo:
		return 3
	case MetaSMPTEOffset:
		return 5
	case MetaTimeSignature:
		return 4
	case MetaKeySignature:
		return 2
	}

	return -1
}

func decodeMeta(cursor *ByteCursor, file *fileState) (*MetaEvent, error) {
	metaType, err := DecodeByte(cursor)

	if err != nil {
		return nil, err
	}

	var lengthOffset = cursor.Offset()

	length, err := DecodeVLQ(cursor)

	if err != nil {
		return nil, err
	}

	var result = &MetaEvent{
		Type:   MetaType(metaType),
		Length: length,
	}

	var expected = fixedMetaLength(result.Type)

	if expected >= 0 && uint32(expected) != length.Value {
		return nil, newMismatchError(
			MalformedMeta,
			lengthOffset,
			int64(expected),
			int64(length.Value),
			"%s payload length",
			result.Type,
		)
	}

	var payloadOffset = cursor.Offset()

	data, err := cursor.Request(int(length.Value))

	if err != nil {
		return nil, err
	}

	switch result.Type {
	case MetaSequenceNumber:
		result.Value = SequenceNumber{uint16(data[0])<<8 | uint16(data[1])}
	case MetaChannelPrefix:
		result.Value = ChannelPrefix{data[0]}
	case MetaPort:
		result.Value = Port{data[0]}
	case MetaEndOfTrack:
		result.Value = EndOfTrack{}
	case MetaTempo:
		var tempo = Tempo{uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2])}

		if tempo.MicrosPerQuarter == 0 {
			tempo, err = file.zeroTempo(payloadOffset)

			if err != nil {
				return nil, err
			}
		}

		result.Value = tempo
	case MetaSMPTEOffset:
		result.Value = SMPTEOffset{data[0], data[1], data[2], data[3], data[4]}
	case MetaTimeSignature:
		result.Value = TimeSignature{data[0], data[1], data[2], data[3]}
	case MetaKeySignature:
		result.Value = KeySignature{int8(data[0]), data[1]}
	default:
		if result.Type.IsText() {
			result.Value = Text{string(data)}
		} else {
			var copied = make([]byte, len(data))
			copy(copied, data)
			result.Value = Opaque{copied}
		}
	}

	return result, nil
}
