package tfmp

import (
	"encoding/binary"
	"fmt"
)

// Frame header sentinels.
const (
	// CommandHeader starts every command and reply frame.
	CommandHeader byte = 0x5A

	// DataHeader is repeated twice at the start of every data frame.
	DataHeader byte = 0x59
)

// DataFrameSize is the fixed size of a telemetry data frame.
const DataFrameSize = 9

// MaxReplySize is the longest reply frame the device produces.
const MaxReplySize = 8

// frameOverhead is the number of non-parameter bytes in a command frame:
// header, length byte, opcode, checksum.
const frameOverhead = 4

// Device sentinel values, reported in place of a real measurement.
// Values are from the TFMini-S product manual.
const (
	sentinelWeak  = -1 // distance: signal strength below threshold
	sentinelFlood = -4 // distance: ambient light saturation
	sentinelSat   = -1 // flux: signal strength saturation
)

// checksum computes the low-order byte of the sum of all bytes in b.
func checksum(b []byte) byte {
	var sum uint32
	for _, v := range b {
		sum += uint32(v)
	}

	return byte(sum)
}

// BuildCommandFrame encodes a command and its parameter bytes into the
// wire format:
//
//	[0x5A, frameLen, opcode, params..., checksum]
//
// frameLen is the total frame length including the checksum. params must
// contain exactly the parameter bytes the command's table entry declares,
// little-endian, excluding any fixed selector byte the command itself
// carries. The checksum is always computed here, never taken from input.
//
// BuildCommandFrame never touches the transport; all failures are
// reported before a byte could be sent.
func BuildCommandFrame(cmd Command, params []byte) ([]byte, error) {
	spec, err := lookupCommand(cmd)
	if err != nil {
		return nil, err
	}

	if len(params) != spec.paramCount {
		return nil, fmt.Errorf("%w: %s wants %d parameter bytes, got %d",
			ErrInvalidParamCount, spec.name, spec.paramCount, len(params))
	}

	payloadLen := spec.paramCount
	if spec.hasFixed {
		payloadLen++
	}

	frame := make([]byte, 0, frameOverhead+payloadLen)
	frame = append(frame, CommandHeader, byte(frameOverhead+payloadLen), spec.opcode)
	if spec.hasFixed {
		frame = append(frame, spec.fixedParam)
	}
	frame = append(frame, params...)
	frame = append(frame, checksum(frame))

	return frame, nil
}

// EncodeParam validates a command's numeric parameter against its table
// entry's value domain and encodes it into the declared number of
// little-endian bytes.
//
// Commands without parameters ignore v and return an empty slice.
func EncodeParam(cmd Command, v uint32) ([]byte, error) {
	spec, err := lookupCommand(cmd)
	if err != nil {
		return nil, err
	}

	if spec.validate != nil {
		if err := spec.validate(v); err != nil {
			return nil, err
		}
	}

	if spec.paramCount == 0 {
		return nil, nil
	}

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)

	return buf[:spec.paramCount], nil
}

// Measurement holds one decoded telemetry frame.
//
// Distance unit matches the device's configured output format (centimeters
// by default). Flux is the signal strength; values below 100 make the
// distance unreliable and 65535 decodes as the −1 saturation sentinel.
type Measurement struct {
	Distance    int
	Flux        int
	Temperature float64 // °C
}

// ParseDataFrame validates and decodes a 9-byte data frame.
//
// When the frame is structurally valid but the device used a sentinel
// value to report an error condition, ParseDataFrame returns the decoded
// measurement together with the matching device error (ErrWeakSignal,
// ErrStrongSignal or ErrAmbientSaturation): the values are genuine but
// must not be trusted as a range reading.
func ParseDataFrame(b []byte) (Measurement, error) {
	if len(b) != DataFrameSize {
		return Measurement{}, fmt.Errorf("%w: data frame is %d bytes, want %d",
			ErrLengthMismatch, len(b), DataFrameSize)
	}

	if b[0] != DataHeader || b[1] != DataHeader {
		return Measurement{}, fmt.Errorf("%w: got 0x%02X 0x%02X, want 0x%02X 0x%02X",
			ErrHeaderMismatch, b[0], b[1], DataHeader, DataHeader)
	}

	if cs := checksum(b[:DataFrameSize-1]); cs != b[DataFrameSize-1] {
		return Measurement{}, fmt.Errorf("%w: wire=0x%02X, computed=0x%02X",
			ErrChecksumMismatch, b[DataFrameSize-1], cs)
	}

	// Distance and flux are signed so the error sentinels decode.
	m := Measurement{
		Distance:    int(int16(binary.LittleEndian.Uint16(b[2:4]))),
		Flux:        int(int16(binary.LittleEndian.Uint16(b[4:6]))),
		Temperature: float64(binary.LittleEndian.Uint16(b[6:8]))/8 - 256,
	}

	switch {
	case m.Distance == sentinelWeak:
		return m, ErrWeakSignal
	case m.Flux == sentinelSat:
		return m, ErrStrongSignal
	case m.Distance == sentinelFlood:
		return m, ErrAmbientSaturation
	}

	return m, nil
}

// ParseReplyFrame validates a command reply frame and returns its result
// bytes (possibly empty).
//
// wantOpcode guards against decoding a stale or misaligned reply left over
// from an earlier exchange; wantLen is the reply length the command's
// table entry declares, which must match both the buffer and the frame's
// own length byte.
func ParseReplyFrame(b []byte, wantOpcode byte, wantLen int) ([]byte, error) {
	if len(b) != wantLen {
		return nil, fmt.Errorf("%w: reply is %d bytes, want %d", ErrLengthMismatch, len(b), wantLen)
	}

	if b[0] != CommandHeader {
		return nil, fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrHeaderMismatch, b[0], CommandHeader)
	}

	if int(b[1]) != wantLen {
		return nil, fmt.Errorf("%w: declared length %d, want %d", ErrLengthMismatch, b[1], wantLen)
	}

	if b[2] != wantOpcode {
		return nil, fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrOpcodeMismatch, b[2], wantOpcode)
	}

	if cs := checksum(b[:wantLen-1]); cs != b[wantLen-1] {
		return nil, fmt.Errorf("%w: wire=0x%02X, computed=0x%02X", ErrChecksumMismatch, b[wantLen-1], cs)
	}

	return b[3 : wantLen-1], nil
}
