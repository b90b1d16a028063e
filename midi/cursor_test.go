package midi

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
)

func TestCursorRequest(t *testing.T) {
	var source = []byte{1, 2, 3, 4, 5}
	var cursor = NewByteCursor(source)

	data, err := cursor.Request(2)

	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(data, []byte{1, 2}) {
		t.Errorf("got %v, want [1 2]", data)
	}

	if cursor.Offset() != 2 || cursor.Remaining() != 3 {
		t.Errorf("offset %d remaining %d", cursor.Offset(), cursor.Remaining())
	}

	_, err = cursor.Request(4)

	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("got %v, want OutOfRange", err)
	}

	if cursor.Offset() != 2 {
		t.Errorf("failed request moved cursor to %d", cursor.Offset())
	}

	data, err = cursor.Request(3)

	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(data, []byte{3, 4, 5}) {
		t.Errorf("got %v, want [3 4 5]", data)
	}

	if cursor.Remaining() != 0 {
		t.Errorf("remaining %d", cursor.Remaining())
	}
}

func TestCursorRewind(t *testing.T) {
	var cursor = NewByteCursor([]byte{0xAA, 0xBB})

	if err := cursor.Rewind(1); KindOf(err) != InvalidRewind {
		t.Errorf("rewind at start: got %v", err)
	}

	cursor.Request(1)

	if err := cursor.Rewind(2); KindOf(err) != InvalidRewind {
		t.Errorf("two byte rewind: got %v", err)
	}

	if err := cursor.Rewind(1); err != nil {
		t.Fatal(err)
	}

	if cursor.Offset() != 0 {
		t.Errorf("offset %d after rewind", cursor.Offset())
	}

	cursor.Request(2)

	if err := cursor.Rewind(1); err != nil {
		t.Fatal(err)
	}

	if err := cursor.Rewind(1); KindOf(err) != InvalidRewind {
		t.Errorf("second rewind without request: got %v", err)
	}

	data, _ := cursor.Request(1)

	if data[0] != 0xBB {
		t.Errorf("re-read 0x%02X, want 0xBB", data[0])
	}
}

func TestCursorSubKeepsAbsoluteOffsets(t *testing.T) {
	var cursor = NewByteCursor([]byte{0, 1, 2, 3, 4, 5, 6})
	cursor.Request(2)

	sub, err := cursor.Sub(3)

	if err != nil {
		t.Fatal(err)
	}

	if cursor.Offset() != 5 {
		t.Errorf("parent offset %d, want 5", cursor.Offset())
	}

	if sub.Offset() != 2 || sub.Len() != 3 {
		t.Errorf("sub offset %d len %d", sub.Offset(), sub.Len())
	}

	sub.Request(3)

	_, err = sub.Request(1)

	if OffsetOf(err) != 5 {
		t.Errorf("out of range reported at %d, want 5", OffsetOf(err))
	}
}

func TestCursorDoesNotMutateSource(t *testing.T) {
	var source = []byte{0x00, 0x00, 0x01, 0xE0}
	var snapshot = append([]byte(nil), source...)
	var cursor = NewByteCursor(source)

	value, err := DecodeUint(cursor, 4)

	if err != nil {
		t.Fatal(err)
	}

	if value != 480 {
		t.Errorf("got %d, want 480", value)
	}

	if !bytes.Equal(source, snapshot) {
		t.Errorf("source changed to %v", source)
	}
}

func TestDecodeUint(t *testing.T) {
	var cases = []struct {
		name  string
		data  []byte
		width int
		want  uint32
	}{
		{"byte", []byte{0x7F}, 1, 0x7F},
		{"short", []byte{0x01, 0xE0}, 2, 480},
		{"tempo", []byte{0x07, 0xA1, 0x20}, 3, 500000},
		{"length", []byte{0x00, 0x00, 0x00, 0x06}, 4, 6},
		{"high bits", []byte{0xFF, 0xFF, 0xFF, 0xFF}, 4, 0xFFFFFFFF},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeUint(NewByteCursor(tc.data), tc.width)

			if err != nil {
				t.Fatal(err)
			}

			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDecodeUintErrors(t *testing.T) {
	if _, err := DecodeUint(NewByteCursor([]byte{1, 2, 3, 4, 5}), 5); KindOf(err) != InvalidWidth {
		t.Errorf("width 5: got %v", err)
	}

	if _, err := DecodeUint(NewByteCursor([]byte{1}), 2); KindOf(err) != OutOfRange {
		t.Errorf("short source: got %v", err)
	}
}

func TestDecodeInt16AndTag(t *testing.T) {
	var cursor = NewByteCursor([]byte{0xE7, 0x28, 'M', 'T', 'r', 'k'})

	value, err := DecodeInt16(cursor)

	if err != nil {
		t.Fatal(err)
	}

	if value != -6360 {
		t.Errorf("got %d, want -6360", value)
	}

	tag, err := DecodeTag(cursor, 4)

	if err != nil {
		t.Fatal(err)
	}

	if string(tag) != TrackHeader {
		t.Errorf("got %q", tag)
	}
}
