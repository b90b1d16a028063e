package midi

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrorKind uint8

const (
	OutOfRange ErrorKind = iota + 1
	InvalidRewind
	InvalidWidth
	MalformedVLQ
	BadMagic
	UnknownStatus
	TruncatedTrack
	TrackCountMismatch
	MalformedMeta
	DivideByZero
	ExtraData
)

var (
	ErrOutOfRange         = errors.New("read out of range")
	ErrInvalidRewind      = errors.New("invalid rewind")
	ErrInvalidWidth       = errors.New("invalid integer width")
	ErrMalformedVLQ       = errors.New("malformed variable length quantity")
	ErrBadMagic           = errors.New("bad chunk magic")
	ErrUnknownStatus      = errors.New("unknown status byte")
	ErrTruncatedTrack     = errors.New("truncated track")
	ErrTrackCountMismatch = errors.New("track count mismatch")
	ErrMalformedMeta      = errors.New("malformed meta event")
	ErrDivideByZero       = errors.New("tempo divide by zero")
	ErrExtraData          = errors.New("extra data after last track")
)

func (kind ErrorKind) sentinel() error {
	switch kind {
	case OutOfRange:
		return ErrOutOfRange
	case InvalidRewind:
		return ErrInvalidRewind
	case InvalidWidth:
		return ErrInvalidWidth
	case MalformedVLQ:
		return ErrMalformedVLQ
	case BadMagic:
		return ErrBadMagic
	case UnknownStatus:
		return ErrUnknownStatus
	case TruncatedTrack:
		return ErrTruncatedTrack
	case TrackCountMismatch:
		return ErrTrackCountMismatch
	case MalformedMeta:
		return ErrMalformedMeta
	case DivideByZero:
		return ErrDivideByZero
	case ExtraData:
		return ErrExtraData
	}

	return nil
}

func (kind ErrorKind) String() string {
	switch kind {
	case OutOfRange:
		return "OutOfRange"
	case InvalidRewind:
		return "InvalidRewind"
	case InvalidWidth:
		return "InvalidWidth"
	case MalformedVLQ:
		return "MalformedVLQ"
	case BadMagic:
		return "BadMagic"
	case UnknownStatus:
		return "UnknownStatus"
	case TruncatedTrack:
		return "TruncatedTrack"
	case TrackCountMismatch:
		return "TrackCountMismatch"
	case MalformedMeta:
		return "MalformedMeta"
	case DivideByZero:
		return "DivideByZero"
	case ExtraData:
		return "ExtraData"
	}

	return fmt.Sprintf("ErrorKind(%d)", uint8(kind))
}

// DecodeError describes a fatal decode failure. Offset is the absolute byte
// offset into the source where the failing read started.
type DecodeError struct {
	Kind     ErrorKind
	Offset   int
	Expected int64
	Actual   int64
	Msg      string
}

func (err *DecodeError) Error() string {
	var result = fmt.Sprintf("%s at offset %d", err.Kind, err.Offset)

	if err.Msg != "" {
		result = result + ": " + err.Msg
	}

	if err.Expected != 0 || err.Actual != 0 {
		result = result + fmt.Sprintf(" (expected %d, got %d)", err.Expected, err.Actual)
	}

	return result
}

func (err *DecodeError) Unwrap() error {
	return err.Kind.sentinel()
}

func newDecodeError(kind ErrorKind, offset int, format string, args ...interface{}) *DecodeError {
	return &DecodeError{
		Kind:   kind,
		Offset: offset,
		Msg:    fmt.Sprintf(format, args...),
	}
}

func newMismatchError(kind ErrorKind, offset int, expected int64, actual int64, format string, args ...interface{}) *DecodeError {
	var result = newDecodeError(kind, offset, format, args...)
	result.Expected = expected
	result.Actual = actual
	return result
}

// KindOf returns the kind of the first DecodeError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var decodeErr *DecodeError

	if errors.As(err, &decodeErr) {
		return decodeErr.Kind
	}

	return 0
}

// OffsetOf returns the failure offset recorded in err's chain, or -1.
func OffsetOf(err error) int {
	var decodeErr *DecodeError

	if errors.As(err, &decodeErr) {
		return decodeErr.Offset
	}

	return -1
}

type WarningKind uint8

const (
	HeaderLengthWarning WarningKind = iota + 1
	UnknownFormatWarning
	ExtraDataWarning
	ZeroTempoWarning
)

func (kind WarningKind) String() string {
	switch kind {
	case HeaderLengthWarning:
		return "HeaderLength"
	case UnknownFormatWarning:
		return "UnknownFormat"
	case ExtraDataWarning:
		return "ExtraData"
	case ZeroTempoWarning:
		return "ZeroTempo"
	}

	return fmt.Sprintf("WarningKind(%d)", uint8(kind))
}

// Warning is an advisory condition found while decoding. It never aborts a
// decode.
type Warning struct {
	Kind    WarningKind
	Offset  int
	Message string
}

func (warning Warning) String() string {
	return fmt.Sprintf("%s at offset %d: %s", warning.Kind, warning.Offset, warning.Message)
}
