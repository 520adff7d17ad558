// Package tfmp implements the command/response protocol of the Benewake
// TFMini-Plus ranging sensor over a byte-oriented two-wire (I2C) bus.
//
// The package is transport independent: all bus I/O goes through the
// [Transport] interface, which only requires write-bytes, read-bytes and a
// quick existence probe against a 7-bit device address. A real Linux
// implementation lives in the i2cbus package; an in-memory device lives in
// the simulator package.
//
// # Wire Formats
//
// Command frame (host → device):
//
//	Byte0  Byte1     Byte2   Byte3..N-2   ByteN-1
//	0x5A   FrameLen  Opcode  Parameters   Checksum
//
// FrameLen is the total frame length including header and checksum.
// Checksum is the low-order byte of the sum of all preceding bytes.
//
// Data frame (device → host, 9 bytes):
//
//	Byte0  Byte1  Byte2   Byte3   Byte4   Byte5   Byte6   Byte7   Byte8
//	0x59   0x59   Dist_L  Dist_H  Flux_L  Flux_H  Temp_L  Temp_H  Checksum
//
// Distance is centimeters (or millimeters in mm output format), flux is the
// signal strength, and temperature decodes as raw/8 − 256 °C. Distance and
// flux are signed: the device reports error conditions as the sentinel
// distances −1 (signal too weak), −4 (ambient light saturation) and the
// sentinel flux −1 (signal strength saturation).
//
// Reply frame (device → host, variable):
//
//	Byte0  Byte1     Byte2   Byte3..N-2    ByteN-1
//	0x5A   FrameLen  Opcode  Result bytes  Checksum
//
// # Sessions
//
// A [Session] performs one exchange at a time against a single device
// address: it builds a frame, writes it, reads the expected reply with a
// bounded wait, validates it, and records the outcome in a [StatusCode]
// that callers query after each operation. Reads never retry and never
// block without bound; a timed-out read is reported once and retry policy
// is left to the caller.
//
// Commands are drawn from a closed table (see [Command]); parameter arity
// and value domains are checked before any byte reaches the bus, because a
// malformed command can render the device permanently uncommunicative.
// The I/O output mode commands (opcode 0x3B) are rejected unconditionally:
// the pin-signal side channel is unsupported by design.
package tfmp
