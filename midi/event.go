package midi

// trackState is the decode state scoped to a single track.
type trackState struct {
	runningStatus byte
	file          *fileState
}

func newTrackState(file *fileState) *trackState {
	return &trackState{
		file: file,
	}
}

func bytesForStatus(status byte) int {
	switch status & 0xF0 {
	case 0x80, 0x90, 0xA0, 0xB0, 0xE0:
		return 2
	case 0xC0, 0xD0:
		return 1
	}

	return 0
}

func decodeEvent(cursor *ByteCursor, state *trackState) (*Event, error) {
	var start = cursor.Offset()

	delta, err := DecodeVLQ(cursor)

	if err != nil {
		return nil, err
	}

	var statusOffset = cursor.Offset()

	status, err := DecodeByte(cursor)

	if err != nil {
		return nil, err
	}

	var runningStatus = false

	if status&0x80 != 0 {
		state.runningStatus = status
	} else {
		// a data byte, re-read it under the previous status
		err = cursor.Rewind(1)

		if err != nil {
			return nil, err
		}

		if state.runningStatus == 0 {
			return nil, newDecodeError(UnknownStatus, statusOffset, "data byte 0x%02X with no running status", status)
		}

		status = state.runningStatus
		runningStatus = true
	}

	var event = &Event{
		Offset:        start,
		Delta:         delta,
		Status:        status,
		RunningStatus: runningStatus,
	}

	switch {
	case status == 0xFF:
		event.Payload, err = decodeMeta(cursor, state.file)
	case status == 0xF0 || status == 0xF7:
		event.Payload, err = decodeSysex(cursor, status)
	case status >= 0x80 && status < 0xF0:
		event.Channel = status & 0x0F
		event.Payload, err = decodeChannelMessage(cursor, status)
	default:
		return nil, newDecodeError(UnknownStatus, statusOffset, "status 0x%02X", status)
	}

	if err != nil {
		return nil, err
	}

	event.Size = cursor.Offset() - start

	return event, nil
}

func decodeChannelMessage(cursor *ByteCursor, status byte) (Payload, error) {
	data, err := cursor.Request(bytesForStatus(status))

	if err != nil {
		return nil, err
	}

	switch status & 0xF0 {
	case 0x80:
		return NoteOff{data[0], data[1]}, nil
	case 0x90:
		return NoteOn{data[0], data[1]}, nil
	case 0xA0:
		return PolyPressure{data[0], data[1]}, nil
	case 0xB0:
		return Controller{data[0], data[1]}, nil
	case 0xC0:
		return ProgramChange{data[0]}, nil
	case 0xD0:
		return ChannelPressure{data[0]}, nil
	case 0xE0:
		return PitchBend{data[0], data[1]}, nil
	}

	return nil, newDecodeError(UnknownStatus, cursor.Offset(), "status 0x%02X", status)
}
