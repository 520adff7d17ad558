package tfmp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/arloliu/go-tfmp/logger"
)

// Session drives one TFMini-Plus device over an injected Transport.
//
// A session performs strictly one exchange at a time: the protocol has no
// frame IDs and no out-of-order delivery, so all calls serialize on an
// internal mutex (shared across sessions when the transport is shared via
// a [Bus]). Every operation resets the status code, runs to a single
// reported outcome, and leaves retry policy to the caller.
//
// The three measurement accessors always reflect the most recently decoded
// data frame; a garbled or timed-out fetch never corrupts them.
type Session struct {
	transport Transport
	cfg       *SessionConfig
	logger    logger.Logger

	// wire serializes exchanges on the transport. Bus hands the same
	// mutex to every session it creates.
	wire *sync.Mutex

	status atomic.Int32

	// Guarded by wire: only updated inside an exchange.
	meas    Measurement
	version string

	metrics SessionMetrics
}

// NewSession creates a session for the device at cfg's address, speaking
// through t. The transport remains owned by the caller.
func NewSession(t Transport, cfg *SessionConfig) (*Session, error) {
	if t == nil {
		return nil, errors.New("tfmp: transport is nil")
	}
	if cfg == nil {
		return nil, errors.New("tfmp: session config is nil")
	}

	return newSession(t, cfg, &sync.Mutex{}), nil
}

func newSession(t Transport, cfg *SessionConfig, wire *sync.Mutex) *Session {
	return &Session{
		transport: t,
		cfg:       cfg,
		logger:    cfg.logger.With("addr", fmt.Sprintf("0x%02X", cfg.address)),
		wire:      wire,
	}
}

// --- Accessors ---

// Status returns the outcome of the most recent operation.
func (s *Session) Status() StatusCode {
	return StatusCode(s.status.Load())
}

func (s *Session) setStatus(code StatusCode) {
	s.status.Store(int32(code))
}

// Address returns the 7-bit device address the session talks to.
func (s *Session) Address() byte {
	return s.cfg.address
}

// Measurement returns the most recently decoded telemetry values.
func (s *Session) Measurement() Measurement {
	s.wire.Lock()
	defer s.wire.Unlock()

	return s.meas
}

// Distance returns the last decoded distance in the configured unit.
func (s *Session) Distance() int {
	return s.Measurement().Distance
}

// Flux returns the last decoded signal strength.
func (s *Session) Flux() int {
	return s.Measurement().Flux
}

// Temperature returns the last decoded chip temperature in °C.
func (s *Session) Temperature() float64 {
	return s.Measurement().Temperature
}

// Version returns the firmware version decoded by the most recent
// successful CmdFirmwareVersion exchange, or "" before one.
func (s *Session) Version() string {
	s.wire.Lock()
	defer s.wire.Unlock()

	return s.version
}

// Metrics returns the session's exchange counters.
func (s *Session) Metrics() *SessionMetrics {
	return &s.metrics
}

// --- Operations ---

// Probe checks that a device answers at the configured address. It does
// not exchange data and does not touch the measurement state. On a
// negative result the status is StatusOpenFail.
func (s *Session) Probe(ctx context.Context) bool {
	s.wire.Lock()
	defer s.wire.Unlock()

	s.setStatus(StatusReady)

	if err := s.transport.Probe(ctx, s.cfg.address); err != nil {
		s.setStatus(StatusOpenFail)
		s.logger.Warn("device probe failed", "error", err)

		return false
	}

	return true
}

// FetchMeasurement requests and decodes one 9-byte data frame, updating
// Distance, Flux and Temperature on structural success.
//
// On a timeout or a structurally invalid frame the stored values are left
// untouched. When the device reports an error condition through a
// sentinel value (weak signal, saturation, ambient light), the decoded
// values are stored for inspection but the fetch reports failure and the
// status names the condition.
func (s *Session) FetchMeasurement(ctx context.Context) bool {
	s.wire.Lock()
	defer s.wire.Unlock()

	s.setStatus(StatusReady)

	// Ask for a data frame in the configured unit. The obtain-data
	// command is parameterless so encoding cannot fail here.
	frame, err := BuildCommandFrame(s.cfg.unit.dataFrameCommand(), nil)
	if err != nil {
		s.setStatus(statusFor(err))

		return false
	}

	if err := s.write(ctx, frame); err != nil {
		s.setStatus(StatusBusWrite)
		s.metrics.incFrameErrCount()
		s.logger.Warn("data frame request failed", "error", err)

		return false
	}

	raw, err := s.read(ctx, DataFrameSize)
	if err != nil {
		s.setStatus(statusFor(err))
		s.metrics.incFrameErrCount()
		s.logger.Debug("data frame read failed", "error", err)

		return false
	}

	m, err := ParseDataFrame(raw)
	if err != nil {
		if !isDeviceError(err) {
			// Garbled frame: report and preserve the previous values.
			s.setStatus(statusFor(err))
			s.metrics.incFrameErrCount()
			s.logger.Warn("invalid data frame", "error", err, "frame", fmt.Sprintf("% X", raw))

			return false
		}

		// Device-reported condition: the frame is genuine, so expose
		// the decoded values, but flag them.
		s.meas = m
		s.setStatus(statusFor(err))
		s.metrics.incFrameErrCount()
		s.logger.Debug("device reported error", "status", s.Status(), "flux", m.Flux)

		return false
	}

	if err := s.checkRange(m); err != nil {
		s.meas = m
		s.setStatus(StatusOutOfRange)
		s.metrics.incFrameErrCount()
		s.logger.Debug("measurement out of range", "error", err)

		return false
	}

	s.meas = m
	s.metrics.incFrameRecvCount()
	s.logger.Debug("measurement",
		"dist", m.Distance,
		"unit", s.cfg.unit,
		"flux", m.Flux,
		"temp", m.Temperature,
	)

	return true
}

// SendCommand encodes and transmits one command, then reads and validates
// the reply its table entry declares.
//
// Unsupported commands and parameter violations fail before any byte
// reaches the transport: a malformed command can wedge the device with no
// external reset path. Fire-and-forget commands (trigger, transfer-mode
// switches, data-frame requests) succeed as soon as the write completes.
func (s *Session) SendCommand(ctx context.Context, cmd Command, param uint32) bool {
	s.wire.Lock()
	defer s.wire.Unlock()

	s.setStatus(StatusReady)

	spec, err := lookupCommand(cmd)
	if err != nil {
		s.setStatus(statusFor(err))
		s.metrics.incCmdErrCount()
		s.logger.Warn("command rejected", "command", cmd, "error", err)

		return false
	}

	params, err := EncodeParam(cmd, param)
	if err != nil {
		s.setStatus(statusFor(err))
		s.metrics.incCmdErrCount()
		s.logger.Warn("command rejected", "command", cmd, "error", err)

		return false
	}

	frame, err := BuildCommandFrame(cmd, params)
	if err != nil {
		s.setStatus(statusFor(err))
		s.metrics.incCmdErrCount()

		return false
	}

	s.logger.Debug("send command", "command", cmd, "frame", fmt.Sprintf("% X", frame))

	if err := s.write(ctx, frame); err != nil {
		s.setStatus(StatusBusWrite)
		s.metrics.incCmdErrCount()
		s.logger.Warn("command write failed", "command", cmd, "error", err)

		return false
	}

	if spec.replyLen == 0 {
		s.metrics.incCmdSendCount()

		return true
	}

	raw, err := s.read(ctx, spec.replyLen)
	if err != nil {
		s.setStatus(statusFor(err))
		s.metrics.incCmdErrCount()
		s.logger.Debug("command reply read failed", "command", cmd, "error", err)

		return false
	}

	result, err := ParseReplyFrame(raw, spec.opcode, spec.replyLen)
	if err != nil {
		s.setStatus(statusFor(err))
		s.metrics.incCmdErrCount()
		s.logger.Warn("invalid command reply", "command", cmd, "error", err,
			"frame", fmt.Sprintf("% X", raw))

		return false
	}

	if spec.passFail && result[0] != 0 {
		s.setStatus(StatusCommandFail)
		s.metrics.incCmdErrCount()
		s.logger.Warn("device rejected command", "command", cmd)

		return false
	}

	if cmd == CmdFirmwareVersion {
		// Reply carries patch, minor, major.
		s.version = fmt.Sprintf("%d.%d.%d", result[2], result[1], result[0])
	}

	s.metrics.incCmdSendCount()

	return true
}

// --- Internals ---

// write transmits a frame, checking for cancellation first.
func (s *Session) write(ctx context.Context, frame []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	return s.transport.WriteBytes(ctx, s.cfg.address, frame)
}

// read performs one bounded read of exactly n bytes. Deadline expiry from
// any transport surfaces uniformly as ErrTimeout.
func (s *Session) read(ctx context.Context, n int) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	b, err := s.transport.ReadBytes(ctx, s.cfg.address, n, s.cfg.readTimeout)
	if err != nil {
		if isTimeout(err) {
			s.metrics.incTimeoutCount()

			return nil, fmt.Errorf("%w: reading %d bytes: %w", ErrTimeout, n, err)
		}

		return nil, err
	}

	if len(b) != n {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrTimeout, len(b), n)
	}

	return b, nil
}

// checkRange validates a decoded measurement against the device's
// documented operating ranges.
func (s *Session) checkRange(m Measurement) error {
	if m.Distance < 0 || m.Distance > s.cfg.unit.maxDistance() {
		return fmt.Errorf("%w: distance %d%s", ErrOutOfRange, m.Distance, s.cfg.unit)
	}

	if m.Flux < 0 {
		return fmt.Errorf("%w: flux %d", ErrOutOfRange, m.Flux)
	}

	if m.Temperature < -25 || m.Temperature > 125 {
		return fmt.Errorf("%w: temperature %.2f°C", ErrOutOfRange, m.Temperature)
	}

	return nil
}

// isDeviceError reports whether err is a device-reported sentinel
// condition rather than a structural frame failure.
func isDeviceError(err error) bool {
	return errors.Is(err, ErrWeakSignal) ||
		errors.Is(err, ErrStrongSignal) ||
		errors.Is(err, ErrAmbientSaturation)
}

// isTimeout reports whether err represents an expired bounded wait,
// whichever idiom the transport uses to express it.
func isTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded)
}
