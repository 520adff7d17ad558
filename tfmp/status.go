package tfmp

import "errors"

// StatusCode is the outcome of the most recent session operation.
//
// It is reset to StatusReady at the start of every operation and written
// exactly once with the result, so callers can query it after any
// Probe/FetchMeasurement/SendCommand call for more detail than the boolean
// return carries.
type StatusCode int

const (
	// StatusReady indicates the last operation completed without error.
	StatusReady StatusCode = iota

	// StatusTimeout indicates the bus did not deliver the expected bytes
	// within the bounded wait.
	StatusTimeout

	// StatusHeader indicates a frame arrived with a bad header byte.
	StatusHeader

	// StatusChecksum indicates a frame failed checksum validation.
	StatusChecksum

	// StatusLength indicates a reply's declared length disagreed with the
	// expected reply length.
	StatusLength

	// StatusOpcode indicates a reply echoed a different opcode than the
	// command sent, usually a stale or misaligned reply.
	StatusOpcode

	// StatusParamValue indicates the command was rejected before
	// transmission: wrong parameter arity or a value outside the
	// command's standardized domain.
	StatusParamValue

	// StatusUnsupported indicates the command is not encodable, such as
	// the I/O output mode family.
	StatusUnsupported

	// StatusWeakSignal indicates the device reported signal strength
	// below its minimum threshold (sentinel distance −1).
	StatusWeakSignal

	// StatusSaturation indicates the device reported signal strength
	// saturation (sentinel flux −1).
	StatusSaturation

	// StatusAmbientLight indicates the device reported ambient light
	// saturation (sentinel distance −4).
	StatusAmbientLight

	// StatusOutOfRange indicates a decoded measurement outside the
	// documented operating range.
	StatusOutOfRange

	// StatusOpenFail indicates the transport probe found no device at
	// the configured address.
	StatusOpenFail

	// StatusCommandFail indicates the device answered a pass/fail
	// command with the fail byte.
	StatusCommandFail

	// StatusBusWrite indicates the transport failed while writing a
	// command frame.
	StatusBusWrite

	// StatusBusRead indicates the transport failed while reading, for a
	// reason other than the bounded wait expiring.
	StatusBusRead
)

// String returns a short human-readable name for the status code.
func (s StatusCode) String() string {
	switch s {
	case StatusReady:
		return "READY"
	case StatusTimeout:
		return "TIMEOUT"
	case StatusHeader:
		return "HEADER"
	case StatusChecksum:
		return "CHECKSUM"
	case StatusLength:
		return "LENGTH"
	case StatusOpcode:
		return "OPCODE"
	case StatusParamValue:
		return "PARAM"
	case StatusUnsupported:
		return "UNSUPPORTED"
	case StatusWeakSignal:
		return "WEAK-SIGNAL"
	case StatusSaturation:
		return "SATURATION"
	case StatusAmbientLight:
		return "AMBIENT-LIGHT"
	case StatusOutOfRange:
		return "OUT-OF-RANGE"
	case StatusOpenFail:
		return "OPEN-FAIL"
	case StatusCommandFail:
		return "COMMAND-FAIL"
	case StatusBusWrite:
		return "BUS-WRITE"
	case StatusBusRead:
		return "BUS-READ"
	default:
		return "UNKNOWN"
	}
}

// OK reports whether the status represents a successful outcome.
func (s StatusCode) OK() bool {
	return s == StatusReady
}

// statusFor maps a protocol error to its status code.
func statusFor(err error) StatusCode {
	switch {
	case err == nil:
		return StatusReady
	case errors.Is(err, ErrTimeout):
		return StatusTimeout
	case errors.Is(err, ErrHeaderMismatch):
		return StatusHeader
	case errors.Is(err, ErrChecksumMismatch):
		return StatusChecksum
	case errors.Is(err, ErrLengthMismatch):
		return StatusLength
	case errors.Is(err, ErrOpcodeMismatch):
		return StatusOpcode
	case errors.Is(err, ErrInvalidParameter), errors.Is(err, ErrInvalidParamCount):
		return StatusParamValue
	case errors.Is(err, ErrUnsupportedCommand):
		return StatusUnsupported
	case errors.Is(err, ErrWeakSignal):
		return StatusWeakSignal
	case errors.Is(err, ErrStrongSignal):
		return StatusSaturation
	case errors.Is(err, ErrAmbientSaturation):
		return StatusAmbientLight
	case errors.Is(err, ErrOutOfRange):
		return StatusOutOfRange
	case errors.Is(err, ErrTransportOpen):
		return StatusOpenFail
	case errors.Is(err, ErrCommandFailed):
		return StatusCommandFail
	default:
		return StatusBusRead
	}
}
