package tfmp

import "errors"

// Sentinel errors for the TFMini-Plus protocol.
var (
	// Frame validation errors.
	ErrHeaderMismatch   = errors.New("tfmp: frame header mismatch")
	ErrChecksumMismatch = errors.New("tfmp: checksum mismatch")
	ErrLengthMismatch   = errors.New("tfmp: frame length mismatch")
	ErrOpcodeMismatch   = errors.New("tfmp: reply opcode mismatch")

	// Command encoding errors. All are raised before any byte reaches
	// the transport.
	ErrUnsupportedCommand = errors.New("tfmp: unsupported command")
	ErrInvalidParameter   = errors.New("tfmp: invalid command parameter")
	ErrInvalidParamCount  = errors.New("tfmp: wrong parameter count for command")

	// Transport-level errors.
	ErrTimeout       = errors.New("tfmp: bus read timeout")
	ErrTransportOpen = errors.New("tfmp: transport probe failed")

	// Device-reported conditions. The data frame validated structurally
	// but the device signalled an error through a sentinel value.
	ErrWeakSignal        = errors.New("tfmp: signal strength too low")
	ErrStrongSignal      = errors.New("tfmp: signal strength saturation")
	ErrAmbientSaturation = errors.New("tfmp: ambient light saturation")

	// ErrOutOfRange indicates a decoded measurement outside the device's
	// documented operating range.
	ErrOutOfRange = errors.New("tfmp: measurement out of range")

	// ErrCommandFailed indicates a command whose reply carries a
	// pass/fail byte reported failure.
	ErrCommandFailed = errors.New("tfmp: device rejected command")
)
