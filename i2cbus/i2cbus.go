//go:build linux

// Package i2cbus implements [tfmp.Transport] on top of the Linux I2C
// character device (/dev/i2c-N).
//
// The bus handle is caller-owned, mirroring the driver's resource model:
// open it before creating sessions, close it on shutdown. The TFMini-Plus
// occupies a single 7-bit slave address per device, selected with the
// I2C_SLAVE ioctl before each transfer.
package i2cbus

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/arloliu/go-tfmp/logger"
	"github.com/arloliu/go-tfmp/tfmp"
)

// i2cSlave is the I2C_SLAVE ioctl request (linux/i2c-dev.h).
const i2cSlave = 0x0703

// settleDelay is the pause between read attempts while waiting for the
// device to fill its output registers.
const settleDelay = 2 * time.Millisecond

// Bus is an open Linux I2C bus.
type Bus struct {
	mu     sync.Mutex
	file   *os.File
	logger logger.Logger

	// bound is the address currently selected with I2C_SLAVE, or 0.
	bound byte
}

var _ tfmp.Transport = (*Bus)(nil)

// Open opens an I2C bus by adapter number (4 → /dev/i2c-4).
func Open(adapter int) (*Bus, error) {
	return OpenPath(fmt.Sprintf("/dev/i2c-%d", adapter))
}

// OpenPath opens an I2C bus character device by path.
func OpenPath(path string) (*Bus, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("i2cbus: open %s: %w", path, err)
	}

	return &Bus{
		file:   f,
		logger: logger.With("bus", path),
	}, nil
}

// Close releases the bus handle.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.file.Close()
}

// bind selects the slave address for subsequent transfers.
// Called with b.mu held.
func (b *Bus) bind(addr byte) error {
	if b.bound == addr {
		return nil
	}

	if err := unix.IoctlSetInt(int(b.file.Fd()), i2cSlave, int(addr)); err != nil {
		return fmt.Errorf("i2cbus: bind address 0x%02X: %w", addr, err)
	}
	b.bound = addr

	return nil
}

// Probe checks for a device at addr by issuing a one-byte receive.
// An absent device fails the transfer with ENXIO or EREMOTEIO.
func (b *Bus) Probe(ctx context.Context, addr byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := b.bind(addr); err != nil {
		return err
	}

	var one [1]byte
	if _, err := b.file.Read(one[:]); err != nil {
		return fmt.Errorf("i2cbus: probe 0x%02X: %w", addr, err)
	}

	return nil
}

// WriteBytes transmits data to the device at addr in a single transfer.
func (b *Bus) WriteBytes(ctx context.Context, addr byte, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := b.bind(addr); err != nil {
		return err
	}

	if _, err := b.file.Write(data); err != nil {
		return fmt.Errorf("i2cbus: write %d bytes to 0x%02X: %w", len(data), addr, err)
	}

	return nil
}

// ReadBytes reads exactly n bytes from the device at addr.
//
// I2C reads complete in a single transfer once the device has data, but
// the device needs time to fill its registers after a command, and a
// wedged device fails every transfer. ReadBytes retries the transfer
// until the timeout budget is spent, then reports the bounded wait as
// expired.
func (b *Bus) ReadBytes(ctx context.Context, addr byte, n int, timeout time.Duration) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.bind(addr); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(timeout)
	buf := make([]byte, n)

	var lastErr error
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		got, err := b.file.Read(buf)
		if err == nil && got == n {
			return buf, nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("i2cbus: short read: got %d bytes, want %d", got, n)
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("i2cbus: read from 0x%02X timed out after %v (%v): %w",
				addr, timeout, lastErr, os.ErrDeadlineExceeded)
		}

		time.Sleep(settleDelay)
	}
}
