package midi

// ByteCursor reads from an immutable byte source. It is the only place in
// the decoder that checks bounds.
type ByteCursor struct {
	data    []byte
	offset  int
	rewound bool
	// base is the absolute offset of data[0], used by cursors made with Sub.
	base int
}

func NewByteCursor(data []byte) *ByteCursor {
	return &ByteCursor{
		data: data,
	}
}

// Offset returns the absolute read position.
func (cursor *ByteCursor) Offset() int {
	return cursor.base + cursor.offset
}

func (cursor *ByteCursor) Len() int {
	return len(cursor.data)
}

func (cursor *ByteCursor) Remaining() int {
	return len(cursor.data) - cursor.offset
}

// Request returns the next n bytes and advances past them. The returned
// slice aliases the source and must not be modified. Nothing is consumed
// when the request fails.
func (cursor *ByteCursor) Request(n int) ([]byte, error) {
	if n < 0 || n > cursor.Remaining() {
		return nil, newMismatchError(
			OutOfRange,
			cursor.Offset(),
			int64(n),
			int64(cursor.Remaining()),
			"requested %d bytes",
			n,
		)
	}

	var start = cursor.offset
	cursor.offset = cursor.offset + n
	cursor.rewound = false

	return cursor.data[start:cursor.offset:cursor.offset], nil
}

// Rewind steps back exactly one byte. Only a single byte of lookahead can be
// undone between two requests.
func (cursor *ByteCursor) Rewind(n int) error {
	if n != 1 {
		return newMismatchError(InvalidRewind, cursor.Offset(), 1, int64(n), "only single byte rewinds are supported")
	}

	if cursor.offset == 0 {
		return newDecodeError(InvalidRewind, cursor.Offset(), "rewind at start of source")
	}

	if cursor.rewound {
		return newDecodeError(InvalidRewind, cursor.Offset(), "rewind already used since last request")
	}

	cursor.offset = cursor.offset - 1
	cursor.rewound = true

	return nil
}

// Sub consumes the next n bytes and returns a cursor limited to them.
// Offsets reported by the returned cursor stay absolute.
func (cursor *ByteCursor) Sub(n int) (*ByteCursor, error) {
	var base = cursor.Offset()

	data, err := cursor.Request(n)

	if err != nil {
		return nil, err
	}

	return &ByteCursor{
		data: data,
		base: base,
	}, nil
}
