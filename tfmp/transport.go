package tfmp

import (
	"context"
	"time"
)

// Transport is the byte-oriented two-wire bus capability a session
// consumes. It is the only seam between the protocol engine and the
// physical bus: implementations exist for the Linux I2C character device
// (package i2cbus) and for an in-memory device (package simulator).
//
// The transport handle is owned by the caller; sessions never open, close
// or reopen it. Implementations need not be goroutine-safe: the session
// serializes all exchanges.
type Transport interface {
	// WriteBytes transmits data to the device at addr.
	WriteBytes(ctx context.Context, addr byte, data []byte) error

	// ReadBytes reads exactly n bytes from the device at addr, waiting
	// at most timeout. It returns an error wrapping or mappable to
	// ErrTimeout when fewer than n bytes arrive in time; it never
	// silently returns a short buffer.
	ReadBytes(ctx context.Context, addr byte, n int, timeout time.Duration) ([]byte, error)

	// Probe checks that a device answers at addr without exchanging
	// data (a zero-byte write on I2C).
	Probe(ctx context.Context, addr byte) error
}
