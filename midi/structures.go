package midi

import (
	"fmt"
)

const MidiHeader = "MThd"
const TrackHeader = "MTrk"

// HeaderSize is the fixed width of the header chunk: magic, length, format,
// track count and division.
const HeaderSize = 4 + 4 + 2 + 2 + 2

// HeaderDataLength is the declared length of a conformant header chunk.
const HeaderDataLength = 6

const DefaultMicrosPerQuarter = 500000

type Format uint16

const (
	SingleTrack         Format = 0x0
	MultipleTracks      Format = 0x1
	MultipleTracksAsync Format = 0x2
)

func (format Format) String() string {
	switch format {
	case SingleTrack:
		return "single-track"
	case MultipleTracks:
		return "multi-track"
	case MultipleTracksAsync:
		return "multi-track-async"
	}

	return fmt.Sprintf("format(%d)", uint16(format))
}

// Division is the raw time division field. A clear top bit means ticks per
// quarter note, a set top bit means SMPTE frames.
type Division int16

func (division Division) IsSMPTE() bool {
	return division < 0
}

func (division Division) TicksPerQuarter() uint16 {
	if division.IsSMPTE() {
		return 0
	}

	return uint16(division)
}

// SMPTEFormat returns the frames per second (24, 25, 29 or 30).
func (division Division) SMPTEFormat() uint8 {
	if !division.IsSMPTE() {
		return 0
	}

	return uint8(-int8(uint16(division) >> 8))
}

func (division Division) TicksPerFrame() uint8 {
	if !division.IsSMPTE() {
		return 0
	}

	return uint8(uint16(division) & 0xFF)
}

type Header struct {
	Magic    [4]byte
	Length   uint32
	Format   Format
	NTracks  uint16
	Division Division
}

// DeltaTime is a decoded variable length quantity together with the bytes it
// was decoded from.
type DeltaTime struct {
	Value uint32
	Raw   []byte
}

func (delta DeltaTime) Len() int {
	return len(delta.Raw)
}

type Event struct {
	// Offset is the absolute position of the event's first byte.
	Offset        int
	Delta         DeltaTime
	Status        byte
	Channel       uint8
	RunningStatus bool
	// Size is the number of encoded bytes the event occupied.
	Size    int
	Payload Payload
}

// IsChannelVoice reports whether the event carries a channel voice message.
func (event *Event) IsChannelVoice() bool {
	return event.Status >= 0x80 && event.Status < 0xF0
}

type Track struct {
	Magic  [4]byte
	Length uint32
	Events []*Event
}

type File struct {
	Header   Header
	Tracks   []*Track
	Warnings []Warning
}

// Payload is one of NoteOff, NoteOn, PolyPressure, Controller,
// ProgramChange, ChannelPressure, PitchBend, *MetaEvent or *SysexEvent.
type Payload interface {
	payload()
}

type NoteOff struct {
	Note     uint8
	Velocity uint8
}

type NoteOn struct {
	Note     uint8
	Velocity uint8
}

type PolyPressure struct {
	Note     uint8
	Pressure uint8
}

type Controller struct {
	Controller uint8
	Value      uint8
}

type ProgramChange struct {
	Program uint8
}

type ChannelPressure struct {
	Pressure uint8
}

type PitchBend struct {
	LSB uint8
	MSB uint8
}

// Value combines the two 7 bit halves, 0x2000 is centered.
func (bend PitchBend) Value() uint16 {
	return uint16(bend.MSB&0x7F)<<7 | uint16(bend.LSB&0x7F)
}

type MetaType uint8

const (
	MetaSequenceNumber    MetaType = 0x00
	MetaText              MetaType = 0x01
	MetaCopyright         MetaType = 0x02
	MetaTrackName         MetaType = 0x03
	MetaInstrumentName    MetaType = 0x04
	MetaLyric             MetaType = 0x05
	MetaMarker            MetaType = 0x06
	MetaCuePoint          MetaType = 0x07
	MetaProgramName       MetaType = 0x08
	MetaDeviceName        MetaType = 0x09
	MetaChannelPrefix     MetaType = 0x20
	MetaPort              MetaType = 0x21
	MetaEndOfTrack        MetaType = 0x2F
	MetaTempo             MetaType = 0x51
	MetaSMPTEOffset       MetaType = 0x54
	MetaTimeSignature     MetaType = 0x58
	MetaKeySignature      MetaType = 0x59
	MetaSequencerSpecific MetaType = 0x7F
)

func (metaType MetaType) IsText() bool {
	return metaType >= MetaText && metaType <= MetaDeviceName
}

func (metaType MetaType) String() string {
	switch metaType {
	case MetaSequenceNumber:
		return "SequenceNumber"
	case MetaText:
		return "Text"
	case MetaCopyright:
		return "Copyright"
	case MetaTrackName:
		return "TrackName"
	case MetaInstrumentName:
		return "InstrumentName"
	case MetaLyric:
		return "Lyric"
	case MetaMarker:
		return "Marker"
	case MetaCuePoint:
		return "CuePoint"
	case MetaProgramName:
		return "ProgramName"
	case MetaDeviceName:
		return "DeviceName"
	case MetaChannelPrefix:
		return "ChannelPrefix"
	case MetaPort:
		return "Port"
	case MetaEndOfTrack:
		return "EndOfTrack"
	case MetaTempo:
		return "Tempo"
	case MetaSMPTEOffset:
		return "SMPTEOffset"
	case MetaTimeSignature:
		return "TimeSignature"
	case MetaKeySignature:
		return "KeySignature"
	case MetaSequencerSpecific:
		return "SequencerSpecific"
	}

	return fmt.Sprintf("Meta(0x%02X)", uint8(metaType))
}

type MetaEvent struct {
	Type   MetaType
	Length DeltaTime
	Value  MetaValue
}

// MetaValue is one of SequenceNumber, Text, ChannelPrefix, Port, EndOfTrack,
// Tempo, SMPTEOffset, TimeSignature, KeySignature or Opaque.
type MetaValue interface {
	metaValue()
}

type SequenceNumber struct {
	Number uint16
}

type Text struct {
	Text string
}

type ChannelPrefix struct {
	Channel uint8
}

type Port struct {
	Port uint8
}

type EndOfTrack struct{}

type Tempo struct {
	MicrosPerQuarter uint32
}

func (tempo Tempo) BPM() (float64, error) {
	if tempo.MicrosPerQuarter == 0 {
		return 0, newDecodeError(DivideByZero, 0, "tempo of 0 microseconds per quarter note")
	}

	return 60000000.0 / float64(tempo.MicrosPerQuarter), nil
}

type SMPTEOffset struct {
	Hours            uint8
	Minutes          uint8
	Seconds          uint8
	Frames           uint8
	FractionalFrames uint8
}

type TimeSignature struct {
	Numerator uint8
	// DenominatorPower is the denominator as a power of two.
	DenominatorPower        uint8
	ClocksPerClick          uint8
	ThirtySecondsPerQuarter uint8
}

func (signature TimeSignature) Denominator() int {
	return 1 << signature.DenominatorPower
}

type KeySignature struct {
	// SharpsFlats is negative for flats.
	SharpsFlats int8
	// Mode is 0 for major and 1 for minor.
	Mode uint8
}

func (signature KeySignature) Minor() bool {
	return signature.Mode == 1
}

type Opaque struct {
	Data []byte
}

type SysexEvent struct {
	// Status is 0xF0 or 0xF7.
	Status byte
	Length DeltaTime
	Data   []byte
}

func (NoteOff) payload()         {}
func (NoteOn) payload()          {}
func (PolyPressure) payload()    {}
func (Controller) payload()      {}
func (ProgramChange) payload()   {}
func (ChannelPressure) payload() {}
func (PitchBend) payload()       {}
func (*MetaEvent) payload()      {}
func (*SysexEvent) payload()     {}

func (SequenceNumber) metaValue() {}
func (Text) metaValue()           {}
func (ChannelPrefix) metaValue()  {}
func (Port) metaValue()           {}
func (EndOfTrack) metaValue()     {}
func (Tempo) metaValue()          {}
func (SMPTEOffset) metaValue()    {}
func (TimeSignature) metaValue()  {}
func (KeySignature) metaValue()   {}
func (Opaque) metaValue()         {}
