package tfmp

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeDataFrame builds a valid 9-byte data frame for the given raw values.
func makeDataFrame(dist, flux int16, tempRaw uint16) []byte {
	b := make([]byte, DataFrameSize)
	b[0] = DataHeader
	b[1] = DataHeader
	binary.LittleEndian.PutUint16(b[2:4], uint16(dist))
	binary.LittleEndian.PutUint16(b[4:6], uint16(flux))
	binary.LittleEndian.PutUint16(b[6:8], tempRaw)
	b[8] = checksum(b[:8])

	return b
}

// ===========================================================================
// BuildCommandFrame tests
// ===========================================================================

func TestBuildCommandFrame_SetFrameRate(t *testing.T) {
	frame, err := BuildCommandFrame(CmdSetFrameRate, []byte{0x64, 0x00})
	require.NoError(t, err)

	// 0x5A + 0x06 + 0x03 + 0x64 + 0x00 = 0xC7
	assert.Equal(t, []byte{0x5A, 0x06, 0x03, 0x64, 0x00, 0xC7}, frame)
}

func TestBuildCommandFrame_NoParams(t *testing.T) {
	frame, err := BuildCommandFrame(CmdFirmwareVersion, nil)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x5A, 0x04, 0x01, 0x5F}, frame)
}

func TestBuildCommandFrame_FixedSelector(t *testing.T) {
	// The obtain-data-frame command carries its cm selector internally.
	frame, err := BuildCommandFrame(CmdI2CFormatCM, nil)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x5A, 0x05, 0x00, 0x01, 0x60}, frame)
}

func TestBuildCommandFrame_LengthAndChecksumInvariants(t *testing.T) {
	// Every encodable command must produce a frame whose length byte
	// equals the actual frame size and whose checksum is the sum of
	// the preceding bytes mod 256.
	params := map[Command][]byte{
		CmdSetFrameRate:  {0x64, 0x00},
		CmdSetBaudRate:   {0x00, 0xC2, 0x01, 0x00},
		CmdSetI2CAddress: {0x21},
	}

	for cmd := CmdFirmwareVersion; cmd <= CmdI2CFormatMM; cmd++ {
		frame, err := BuildCommandFrame(cmd, params[cmd])
		require.NoError(t, err, "command %s", cmd)

		assert.Equal(t, byte(len(frame)), frame[1], "length byte of %s", cmd)
		assert.Equal(t, checksum(frame[:len(frame)-1]), frame[len(frame)-1], "checksum of %s", cmd)
		assert.Equal(t, CommandHeader, frame[0])
	}
}

func TestBuildCommandFrame_ParamCountMismatch(t *testing.T) {
	_, err := BuildCommandFrame(CmdSetFrameRate, []byte{0x64})
	require.ErrorIs(t, err, ErrInvalidParamCount)

	_, err = BuildCommandFrame(CmdFirmwareVersion, []byte{0x01})
	require.ErrorIs(t, err, ErrInvalidParamCount)
}

func TestBuildCommandFrame_IOModeUnsupported(t *testing.T) {
	for _, cmd := range []Command{CmdSetIOModeHi, CmdSetIOModeLo, CmdSetIOModeStd} {
		_, err := BuildCommandFrame(cmd, nil)
		assert.ErrorIs(t, err, ErrUnsupportedCommand, "command %s", cmd)
	}
}

func TestBuildCommandFrame_UnknownCommand(t *testing.T) {
	_, err := BuildCommandFrame(Command(999), nil)
	require.ErrorIs(t, err, ErrUnsupportedCommand)
}

// ===========================================================================
// EncodeParam tests
// ===========================================================================

func TestEncodeParam_FrameRate(t *testing.T) {
	b, err := EncodeParam(CmdSetFrameRate, FrameRate100)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x64, 0x00}, b)

	b, err = EncodeParam(CmdSetFrameRate, FrameRate1000)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xE8, 0x03}, b)
}

func TestEncodeParam_RejectsNonStandardValues(t *testing.T) {
	_, err := EncodeParam(CmdSetFrameRate, 42)
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = EncodeParam(CmdSetBaudRate, 12345)
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = EncodeParam(CmdSetI2CAddress, 0)
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = EncodeParam(CmdSetI2CAddress, 128)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestEncodeParam_Baud(t *testing.T) {
	b, err := EncodeParam(CmdSetBaudRate, Baud115200)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xC2, 0x01, 0x00}, b)
}

func TestEncodeParam_Parameterless(t *testing.T) {
	b, err := EncodeParam(CmdSystemReset, 0)
	require.NoError(t, err)
	assert.Empty(t, b)
}

// ===========================================================================
// ParseDataFrame tests
// ===========================================================================

func TestParseDataFrame_KnownVector(t *testing.T) {
	// dist=100cm, flux=10, temp raw 0x0800 → 0x0800/8 − 256 = 0°C.
	frame := []byte{0x59, 0x59, 0x64, 0x00, 0x0A, 0x00, 0x00, 0x08, 0x28}

	m, err := ParseDataFrame(frame)
	require.NoError(t, err)

	assert.Equal(t, 100, m.Distance)
	assert.Equal(t, 10, m.Flux)
	assert.InDelta(t, 0.0, m.Temperature, 0.001)
}

func TestParseDataFrame_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		dist     int16
		flux     int16
		tempRaw  uint16
		wantTemp float64
	}{
		{"typical", 250, 1500, (25 + 256) * 8, 25},
		{"zero distance", 0, 100, 2048, 0},
		{"max range", 1200, 32767, (125 + 256) * 8, 125},
		{"cold chip", 30, 400, (256 - 10) * 8, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseDataFrame(makeDataFrame(tt.dist, tt.flux, tt.tempRaw))
			require.NoError(t, err)

			assert.Equal(t, int(tt.dist), m.Distance)
			assert.Equal(t, int(tt.flux), m.Flux)
			assert.InDelta(t, tt.wantTemp, m.Temperature, 0.001)
		})
	}
}

func TestParseDataFrame_WrongSize(t *testing.T) {
	_, err := ParseDataFrame(make([]byte, 8))
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = ParseDataFrame(make([]byte, 10))
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestParseDataFrame_HeaderMismatch(t *testing.T) {
	frame := makeDataFrame(100, 200, 2048)
	frame[1] = 0x5A
	frame[8] = checksum(frame[:8]) // keep checksum valid; header must fail first

	_, err := ParseDataFrame(frame)
	require.ErrorIs(t, err, ErrHeaderMismatch)
}

func TestParseDataFrame_SingleByteCorruption(t *testing.T) {
	// Flipping any single bit of a valid frame must fail checksum
	// validation (header corruption fails earlier, which is fine too).
	valid := makeDataFrame(512, 1000, 2300)

	for i := range valid {
		frame := append([]byte(nil), valid...)
		frame[i] ^= 0x01

		_, err := ParseDataFrame(frame)
		require.Error(t, err, "flipping byte %d must be detected", i)
	}
}

func TestParseDataFrame_Sentinels(t *testing.T) {
	tests := []struct {
		name    string
		dist    int16
		flux    int16
		wantErr error
	}{
		{"weak signal", -1, 50, ErrWeakSignal},
		{"strength saturation", 300, -1, ErrStrongSignal},
		{"ambient light", -4, 200, ErrAmbientSaturation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseDataFrame(makeDataFrame(tt.dist, tt.flux, 2048))
			require.ErrorIs(t, err, tt.wantErr)

			// Decoded values still come back for inspection.
			assert.Equal(t, int(tt.dist), m.Distance)
			assert.Equal(t, int(tt.flux), m.Flux)
		})
	}
}

// ===========================================================================
// ParseReplyFrame tests
// ===========================================================================

// makeReplyFrame builds a valid reply frame for opcode with result bytes.
func makeReplyFrame(opcode byte, result ...byte) []byte {
	b := make([]byte, 0, 4+len(result))
	b = append(b, CommandHeader, byte(4+len(result)), opcode)
	b = append(b, result...)
	b = append(b, checksum(b))

	return b
}

func TestParseReplyFrame_Success(t *testing.T) {
	reply := makeReplyFrame(0x01, 6, 3, 2)

	result, err := ParseReplyFrame(reply, 0x01, 7)
	require.NoError(t, err)
	assert.Equal(t, []byte{6, 3, 2}, result)
}

func TestParseReplyFrame_EmptyResult(t *testing.T) {
	reply := makeReplyFrame(0x01)

	result, err := ParseReplyFrame(reply, 0x01, 4)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestParseReplyFrame_HeaderMismatch(t *testing.T) {
	reply := makeReplyFrame(0x01, 6, 3, 2)
	reply[0] = 0x59

	_, err := ParseReplyFrame(reply, 0x01, 7)
	require.ErrorIs(t, err, ErrHeaderMismatch)
}

func TestParseReplyFrame_DeclaredLengthDisagrees(t *testing.T) {
	// A reply whose declared length byte disagrees with the expected
	// length is rejected even when its checksum validates.
	reply := makeReplyFrame(0x01, 6, 3, 2)
	reply[1] = 0x05
	reply[len(reply)-1] = checksum(reply[:len(reply)-1])

	_, err := ParseReplyFrame(reply, 0x01, 7)
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestParseReplyFrame_ShortBuffer(t *testing.T) {
	reply := makeReplyFrame(0x01, 6, 3, 2)

	_, err := ParseReplyFrame(reply[:5], 0x01, 7)
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestParseReplyFrame_OpcodeMismatch(t *testing.T) {
	// A stale reply from an earlier exchange echoes the wrong opcode.
	reply := makeReplyFrame(0x03, 0x64, 0x00, 0x00)

	_, err := ParseReplyFrame(reply, 0x01, 7)
	require.ErrorIs(t, err, ErrOpcodeMismatch)
}

func TestParseReplyFrame_ChecksumMismatch(t *testing.T) {
	reply := makeReplyFrame(0x01, 6, 3, 2)
	reply[len(reply)-1]++

	_, err := ParseReplyFrame(reply, 0x01, 7)
	require.ErrorIs(t, err, ErrChecksumMismatch)
}
