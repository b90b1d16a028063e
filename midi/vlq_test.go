package midi

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestDecodeVLQKnownValues(t *testing.T) {
	var cases = []struct {
		data []byte
		want uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x40}, 0x40},
		{[]byte{0x7F}, 0x7F},
		{[]byte{0x81, 0x00}, 0x80},
		{[]byte{0xC0, 0x00}, 0x2000},
		{[]byte{0xFF, 0x7F}, 0x3FFF},
		{[]byte{0x81, 0x80, 0x00}, 0x4000},
		{[]byte{0xFF, 0xFF, 0x7F}, 0x1FFFFF},
		{[]byte{0x81, 0x80, 0x80, 0x00}, 0x200000},
		{[]byte{0xFF, 0xFF, 0xFF, 0x7F}, 0x0FFFFFFF},
	}

	for _, tc := range cases {
		var cursor = NewByteCursor(append(tc.data, 0x55))

		delta, err := DecodeVLQ(cursor)

		if err != nil {
			t.Errorf("%X: %v", tc.data, err)
			continue
		}

		if delta.Value != tc.want {
			t.Errorf("%X: got 0x%X, want 0x%X", tc.data, delta.Value, tc.want)
		}

		if !bytes.Equal(delta.Raw, tc.data) || cursor.Offset() != len(tc.data) {
			t.Errorf("%X: raw %X, consumed %d", tc.data, delta.Raw, cursor.Offset())
		}
	}
}

func minimalVLQLength(value uint32) int {
	switch {
	case value < 1<<7:
		return 1
	case value < 1<<14:
		return 2
	case value < 1<<21:
		return 3
	}

	return 4
}

func TestVLQRoundTrip(t *testing.T) {
	var values = []uint32{0, 1, 127, 128, 16383, 16384, 2097151, 2097152, 0x0FFFFFFF}
	var random = rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		values = append(values, uint32(random.Int63n(0x10000000)))
	}

	for _, value := range values {
		var encoded = encodeVLQ(value)

		if len(encoded) != minimalVLQLength(value) {
			t.Fatalf("0x%X encoded in %d bytes, want %d", value, len(encoded), minimalVLQLength(value))
		}

		delta, err := DecodeVLQ(NewByteCursor(encoded))

		if err != nil {
			t.Fatalf("0x%X: %v", value, err)
		}

		if delta.Value != value || delta.Len() != len(encoded) {
			t.Fatalf("0x%X decoded as 0x%X in %d bytes", value, delta.Value, delta.Len())
		}
	}
}

func TestDecodeVLQMalformed(t *testing.T) {
	var cursor = NewByteCursor([]byte{0x10, 0xFF, 0xFF, 0xFF, 0xFF, 0x7F})
	cursor.Request(1)

	_, err := DecodeVLQ(cursor)

	if KindOf(err) != MalformedVLQ {
		t.Fatalf("got %v, want MalformedVLQ", err)
	}

	if OffsetOf(err) != 1 {
		t.Errorf("reported at %d, want 1", OffsetOf(err))
	}

	if cursor.Offset() != 5 {
		t.Errorf("read to %d, want at most 4 bytes of quantity", cursor.Offset())
	}
}

func TestDecodeVLQTruncated(t *testing.T) {
	_, err := DecodeVLQ(NewByteCursor([]byte{0x81, 0x80}))

	if KindOf(err) != OutOfRange {
		t.Fatalf("got %v, want OutOfRange", err)
	}
}
