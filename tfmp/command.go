package tfmp

import "fmt"

// Command identifies one entry of the closed TFMini-Plus command table.
//
// The table is fixed at compile time: each command declares its opcode,
// parameter arity, parameter value domain (where the device standardizes
// one) and expected reply length. There is no way to encode an opcode the
// table does not know about.
type Command int

const (
	// CmdFirmwareVersion queries the firmware version. The 7-byte reply
	// carries three version bytes (patch, minor, major).
	CmdFirmwareVersion Command = iota

	// CmdSystemReset performs a soft reset. The 5-byte reply carries a
	// pass/fail byte.
	CmdSystemReset

	// CmdSetFrameRate sets the internal measurement rate in Hz. The
	// two-byte little-endian parameter must be one of the fourteen
	// standard rates (see FrameRate0 through FrameRate1000).
	CmdSetFrameRate

	// CmdTriggerDetection triggers a single measurement when the frame
	// rate is set to zero. The device answers with a data frame, not a
	// reply frame, so no reply is read by SendCommand.
	CmdTriggerDetection

	// CmdStandardFormatCM selects the standard serial output format in
	// centimeters.
	CmdStandardFormatCM

	// CmdPixhawkFormat selects the Pixhawk text output format.
	CmdPixhawkFormat

	// CmdStandardFormatMM selects the standard serial output format in
	// millimeters.
	CmdStandardFormatMM

	// CmdSetBaudRate sets the UART baud rate. The four-byte little-endian
	// parameter must be one of the seven standard rates (see Baud9600
	// through Baud921600).
	CmdSetBaudRate

	// CmdEnableOutput resumes periodic data output.
	CmdEnableOutput

	// CmdDisableOutput halts periodic data output.
	CmdDisableOutput

	// CmdSetSerialMode switches the device to UART mode. The device
	// leaves the bus, so no reply is read.
	CmdSetSerialMode

	// CmdSetI2CMode configures the device as an I2C slave. No reply.
	CmdSetI2CMode

	// CmdSetI2CAddress changes the 7-bit I2C slave address. The one-byte
	// parameter must be in [1, 127].
	CmdSetI2CAddress

	// CmdRestoreFactory restores factory settings. Pass/fail reply.
	CmdRestoreFactory

	// CmdSaveSettings commits volatile parameter changes. It must follow
	// every command that modifies a setting. Pass/fail reply.
	CmdSaveSettings

	// CmdI2CFormatCM requests a data frame in centimeters over I2C. The
	// answer is the 9-byte data frame read by FetchMeasurement.
	CmdI2CFormatCM

	// CmdI2CFormatMM requests a data frame in millimeters over I2C.
	CmdI2CFormatMM

	// CmdSetIOModeHi, CmdSetIOModeLo and CmdSetIOModeStd configure the
	// near/far pin-signal output mode (opcode 0x3B). The mode is
	// unsupported by design: attempting to send any of them fails with
	// ErrUnsupportedCommand before a byte reaches the bus.
	CmdSetIOModeHi
	CmdSetIOModeLo
	CmdSetIOModeStd
)

// Opcodes of the command table.
const (
	opI2CFormat  byte = 0x00
	opVersion    byte = 0x01
	opReset      byte = 0x02
	opFrameRate  byte = 0x03
	opTrigger    byte = 0x04
	opFormat     byte = 0x05
	opBaudRate   byte = 0x06
	opOutput     byte = 0x07
	opXferMode   byte = 0x0A
	opI2CAddress byte = 0x0B
	opRestore    byte = 0x10
	opSave       byte = 0x11
	opIOMode     byte = 0x3B
)

// Standard frame-rate parameter values in Hz.
const (
	FrameRate0    uint32 = 0 // on-demand triggering only
	FrameRate1    uint32 = 1
	FrameRate2    uint32 = 2
	FrameRate5    uint32 = 5
	FrameRate10   uint32 = 10
	FrameRate20   uint32 = 20
	FrameRate25   uint32 = 25
	FrameRate50   uint32 = 50
	FrameRate100  uint32 = 100 // device default
	FrameRate125  uint32 = 125
	FrameRate200  uint32 = 200
	FrameRate250  uint32 = 250
	FrameRate500  uint32 = 500
	FrameRate1000 uint32 = 1000
)

// Standard UART baud-rate parameter values.
const (
	Baud9600   uint32 = 9600
	Baud14400  uint32 = 14400
	Baud19200  uint32 = 19200
	Baud56000  uint32 = 56000
	Baud115200 uint32 = 115200
	Baud460800 uint32 = 460800
	Baud921600 uint32 = 921600
)

var standardFrameRates = map[uint32]struct{}{
	FrameRate0: {}, FrameRate1: {}, FrameRate2: {}, FrameRate5: {},
	FrameRate10: {}, FrameRate20: {}, FrameRate25: {}, FrameRate50: {},
	FrameRate100: {}, FrameRate125: {}, FrameRate200: {}, FrameRate250: {},
	FrameRate500: {}, FrameRate1000: {},
}

var standardBauds = map[uint32]struct{}{
	Baud9600: {}, Baud14400: {}, Baud19200: {}, Baud56000: {},
	Baud115200: {}, Baud460800: {}, Baud921600: {},
}

// commandSpec is one row of the command table.
type commandSpec struct {
	name       string
	opcode     byte
	paramCount int  // little-endian parameter bytes appended by the caller
	fixedParam byte // single fixed selector byte baked into the command
	hasFixed   bool
	replyLen   int // expected reply frame length; 0 = fire-and-forget
	passFail   bool
	validate   func(uint32) error
}

func validFrameRate(v uint32) error {
	if _, ok := standardFrameRates[v]; !ok {
		return fmt.Errorf("%w: frame rate %d is not a standard value", ErrInvalidParameter, v)
	}

	return nil
}

func validBaud(v uint32) error {
	if _, ok := standardBauds[v]; !ok {
		return fmt.Errorf("%w: baud rate %d is not a standard value", ErrInvalidParameter, v)
	}

	return nil
}

func validAddress(v uint32) error {
	if v < MinDeviceAddress || v > MaxDeviceAddress {
		return fmt.Errorf("%w: I2C address %d out of range [%d, %d]",
			ErrInvalidParameter, v, MinDeviceAddress, MaxDeviceAddress)
	}

	return nil
}

// commandTable is the closed mapping from commands to wire contracts.
//
// Reply lengths and fixed selector bytes follow the Benewake TFMini-Plus
// command reference. The opcode 0x3B rows exist only so the unsupported
// I/O mode commands have names; lookup rejects them.
var commandTable = map[Command]commandSpec{
	CmdFirmwareVersion:  {name: "FirmwareVersion", opcode: opVersion, replyLen: 7},
	CmdSystemReset:      {name: "SystemReset", opcode: opReset, replyLen: 5, passFail: true},
	CmdSetFrameRate:     {name: "SetFrameRate", opcode: opFrameRate, paramCount: 2, replyLen: 6, validate: validFrameRate},
	CmdTriggerDetection: {name: "TriggerDetection", opcode: opTrigger},
	CmdStandardFormatCM: {name: "StandardFormatCM", opcode: opFormat, fixedParam: 0x01, hasFixed: true, replyLen: 5},
	CmdPixhawkFormat:    {name: "PixhawkFormat", opcode: opFormat, fixedParam: 0x02, hasFixed: true, replyLen: 5},
	CmdStandardFormatMM: {name: "StandardFormatMM", opcode: opFormat, fixedParam: 0x06, hasFixed: true, replyLen: 5},
	CmdSetBaudRate:      {name: "SetBaudRate", opcode: opBaudRate, paramCount: 4, replyLen: 8, validate: validBaud},
	CmdEnableOutput:     {name: "EnableOutput", opcode: opOutput, fixedParam: 0x01, hasFixed: true, replyLen: 5},
	CmdDisableOutput:    {name: "DisableOutput", opcode: opOutput, fixedParam: 0x00, hasFixed: true, replyLen: 5},
	CmdSetSerialMode:    {name: "SetSerialMode", opcode: opXferMode, fixedParam: 0x00, hasFixed: true},
	CmdSetI2CMode:       {name: "SetI2CMode", opcode: opXferMode, fixedParam: 0x01, hasFixed: true},
	CmdSetI2CAddress:    {name: "SetI2CAddress", opcode: opI2CAddress, paramCount: 1, replyLen: 5, validate: validAddress},
	CmdRestoreFactory:   {name: "RestoreFactory", opcode: opRestore, replyLen: 5, passFail: true},
	CmdSaveSettings:     {name: "SaveSettings", opcode: opSave, replyLen: 5, passFail: true},
	CmdI2CFormatCM:      {name: "I2CFormatCM", opcode: opI2CFormat, fixedParam: 0x01, hasFixed: true},
	CmdI2CFormatMM:      {name: "I2CFormatMM", opcode: opI2CFormat, fixedParam: 0x06, hasFixed: true},
	CmdSetIOModeHi:      {name: "SetIOModeHi", opcode: opIOMode},
	CmdSetIOModeLo:      {name: "SetIOModeLo", opcode: opIOMode},
	CmdSetIOModeStd:     {name: "SetIOModeStd", opcode: opIOMode},
}

// lookupCommand resolves a command against the table, rejecting unknown
// commands and the unsupported I/O mode family.
func lookupCommand(cmd Command) (commandSpec, error) {
	spec, ok := commandTable[cmd]
	if !ok {
		return commandSpec{}, fmt.Errorf("%w: command %d not in table", ErrUnsupportedCommand, cmd)
	}

	if spec.opcode == opIOMode {
		return commandSpec{}, fmt.Errorf("%w: %s: I/O output mode (opcode 0x%02X) is not supported",
			ErrUnsupportedCommand, spec.name, opIOMode)
	}

	return spec, nil
}

// String returns the command's name.
func (c Command) String() string {
	if spec, ok := commandTable[c]; ok {
		return spec.name
	}

	return fmt.Sprintf("Command(%d)", int(c))
}

// Opcode returns the command's wire opcode byte.
func (c Command) Opcode() byte {
	return commandTable[c].opcode
}

// ReplyLen returns the expected reply frame length for the command.
// A zero length means the command gives no reply frame by design.
func (c Command) ReplyLen() int {
	return commandTable[c].replyLen
}
