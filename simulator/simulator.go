// Package simulator provides an in-memory TFMini-Plus device implementing
// [tfmp.Transport].
//
// The simulated device answers command frames and serves data frames
// exactly as the hardware does in I2C mode, which makes it usable both as
// a test double and as a stand-in endpoint for the tfmpctl CLI. Fault
// injection hooks cover the failure modes the protocol must survive:
// silence, corrupted checksums, truncated and stale replies.
package simulator

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/arloliu/go-tfmp/logger"
	"github.com/arloliu/go-tfmp/tfmp"
)

// Default identity of a freshly created device.
const (
	DefaultAddress   byte   = 0x10
	DefaultFrameRate uint16 = 100
)

type fault int

const (
	faultNone fault = iota
	faultSilence
	faultChecksum
	faultTruncate
	faultStaleOpcode
)

// Device is a simulated TFMini-Plus on a two-wire bus.
//
// All methods are safe for concurrent use, although the driver serializes
// exchanges anyway.
type Device struct {
	mu     sync.Mutex
	logger logger.Logger

	addr     byte
	nextAddr byte // staged by the set-address command, applied on reset
	version  [3]byte // patch, minor, major

	dist    int16
	flux    int16
	tempRaw uint16

	frameRate     uint16
	outputEnabled bool

	// pending holds the bytes the device will serve on the next read.
	pending []byte

	nextFault   fault
	truncateLen int
}

// New creates a simulated device at the factory address reporting a
// plausible measurement.
func New() *Device {
	return &Device{
		logger:        logger.With("component", "simulator"),
		addr:          DefaultAddress,
		nextAddr:      DefaultAddress,
		version:       [3]byte{6, 3, 2}, // 2.3.6
		dist:          100,
		flux:          1200,
		tempRaw:       (25 + 256) * 8, // 25°C
		frameRate:     DefaultFrameRate,
		outputEnabled: true,
	}
}

// --- Scripting ---

// SetMeasurement sets the values served in subsequent data frames.
func (d *Device) SetMeasurement(dist, flux int, tempCelsius float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dist = int16(dist)
	d.flux = int16(flux)
	d.tempRaw = uint16((tempCelsius + 256) * 8)
}

// ReportWeakSignal makes the device report the weak-signal sentinel.
func (d *Device) ReportWeakSignal() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dist = -1
	d.flux = 50
}

// ReportSaturation makes the device report the strength-saturation sentinel.
func (d *Device) ReportSaturation() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.flux = -1
}

// ReportAmbientLight makes the device report the ambient-light sentinel.
func (d *Device) ReportAmbientLight() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dist = -4
	d.flux = 200
}

// FrameRate returns the device's current frame-rate setting.
func (d *Device) FrameRate() uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.frameRate
}

// OutputEnabled reports whether periodic output is enabled.
func (d *Device) OutputEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.outputEnabled
}

// Address returns the device's current slave address.
func (d *Device) Address() byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.addr
}

// --- Fault injection ---

// SilenceNextReply makes the device ignore the next command entirely, so
// the host's bounded read expires.
func (d *Device) SilenceNextReply() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextFault = faultSilence
}

// CorruptNextChecksum flips the checksum byte of the next reply.
func (d *Device) CorruptNextChecksum() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextFault = faultChecksum
}

// TruncateNextReply serves only the first n bytes of the next reply.
func (d *Device) TruncateNextReply(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextFault = faultTruncate
	d.truncateLen = n
}

// StaleNextReply rewrites the opcode of the next reply (with a valid
// checksum), imitating a leftover reply from an earlier exchange.
func (d *Device) StaleNextReply() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextFault = faultStaleOpcode
}

// --- tfmp.Transport ---

var _ tfmp.Transport = (*Device)(nil)

// Probe succeeds when addr matches the device's slave address.
func (d *Device) Probe(_ context.Context, addr byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if addr != d.addr {
		return fmt.Errorf("simulator: no device at address 0x%02X", addr)
	}

	return nil
}

// WriteBytes receives a command frame and queues the device's answer.
// Malformed frames and unknown opcodes are silently dropped, as the
// hardware does.
func (d *Device) WriteBytes(_ context.Context, addr byte, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if addr != d.addr {
		return fmt.Errorf("simulator: no device at address 0x%02X", addr)
	}

	if len(data) < 4 || data[0] != tfmp.CommandHeader || int(data[1]) != len(data) {
		d.logger.Debug("dropping malformed frame", "frame", fmt.Sprintf("% X", data))

		return nil
	}

	d.handleCommand(data)

	return nil
}

// ReadBytes serves queued reply bytes. An empty queue behaves as a silent
// device: the bounded wait expires.
func (d *Device) ReadBytes(ctx context.Context, addr byte, n int, timeout time.Duration) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if addr != d.addr {
		return nil, fmt.Errorf("simulator: no device at address 0x%02X", addr)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(d.pending) < n {
		d.pending = nil

		return nil, fmt.Errorf("simulator: read timeout after %v: %w", timeout, os.ErrDeadlineExceeded)
	}

	out := d.pending[:n]
	d.pending = d.pending[n:]

	return out, nil
}

// --- Device behavior ---

// handleCommand answers one validated command frame. Called with d.mu held.
func (d *Device) handleCommand(frame []byte) {
	opcode := frame[2]

	switch opcode {
	case 0x00: // obtain data frame over I2C
		d.queue(d.dataFrame())

	case 0x01: // firmware version
		d.queue(reply(opcode, d.version[:]...))

	case 0x02: // system reset
		d.frameRate = DefaultFrameRate
		d.outputEnabled = true
		d.queue(reply(opcode, 0x00))
		// A saved address change takes effect on reboot.
		d.addr = d.nextAddr

	case 0x03: // set frame rate
		d.frameRate = uint16(frame[3]) | uint16(frame[4])<<8
		d.queue(echo(frame))

	case 0x04: // trigger detection
		d.queue(d.dataFrame())

	case 0x05, 0x06: // output format, baud rate
		d.queue(echo(frame))

	case 0x07: // enable/disable output
		d.outputEnabled = frame[3] != 0
		d.queue(echo(frame))

	case 0x0A: // transfer mode switch, no reply

	case 0x0B: // set I2C address, effective after reset
		d.nextAddr = frame[3]
		d.queue(echo(frame))

	case 0x10: // restore factory settings
		d.frameRate = DefaultFrameRate
		d.outputEnabled = true
		d.nextAddr = DefaultAddress
		d.queue(reply(opcode, 0x00))

	case 0x11: // save settings
		d.queue(reply(opcode, 0x00))

	default:
		d.logger.Debug("unknown opcode, staying silent", "opcode", fmt.Sprintf("0x%02X", opcode))
	}
}

// queue stages a reply, applying any pending fault. Called with d.mu held.
func (d *Device) queue(b []byte) {
	switch d.nextFault {
	case faultSilence:
		b = nil

	case faultChecksum:
		b = append([]byte(nil), b...)
		b[len(b)-1] ^= 0xFF

	case faultTruncate:
		if d.truncateLen < len(b) {
			b = b[:d.truncateLen]
		}

	case faultStaleOpcode:
		b = append([]byte(nil), b...)
		if len(b) >= 4 && b[0] == tfmp.CommandHeader {
			b[2] ^= 0x40
			b[len(b)-1] = sum(b[:len(b)-1])
		}
	}

	d.nextFault = faultNone
	d.pending = append(d.pending, b...)
}

// dataFrame builds a 9-byte telemetry frame from the current state.
func (d *Device) dataFrame() []byte {
	f := []byte{
		tfmp.DataHeader, tfmp.DataHeader,
		byte(d.dist), byte(uint16(d.dist) >> 8),
		byte(d.flux), byte(uint16(d.flux) >> 8),
		byte(d.tempRaw), byte(d.tempRaw >> 8),
		0,
	}
	f[8] = sum(f[:8])

	return f
}

// reply builds a reply frame for opcode carrying the given result bytes.
func reply(opcode byte, result ...byte) []byte {
	f := make([]byte, 0, 4+len(result))
	f = append(f, tfmp.CommandHeader, byte(4+len(result)), opcode)
	f = append(f, result...)
	f = append(f, sum(f))

	return f
}

// echo returns a copy of the received command frame, which is how the
// device acknowledges setting commands.
func echo(frame []byte) []byte {
	return append([]byte(nil), frame...)
}

func sum(b []byte) byte {
	var s uint32
	for _, v := range b {
		s += uint32(v)
	}

	return byte(s)
}
