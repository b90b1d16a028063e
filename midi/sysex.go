package midi

func decodeSysex(cursor *ByteCursor, status byte) (*SysexEvent, error) {
	length, err := DecodeVLQ(cursor)

	if err != nil {
		return nil, err
	}

	data, err := DecodeTag(cursor, int(length.Value))

	if err != nil {
		return nil, err
	}

	return &SysexEvent{
		Status: status,
		Length: length,
		Data:   data,
	}, nil
}
