package tfmp

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-tfmp/logger"
)

// Default session settings.
const (
	// DefaultDeviceAddress is the factory I2C address (decimal 16).
	DefaultDeviceAddress byte = 0x10

	// DefaultReadTimeout bounds each transport read.
	DefaultReadTimeout = 500 * time.Millisecond
)

// Device address and timeout limits.
const (
	MinDeviceAddress = 0x01
	MaxDeviceAddress = 0x7F

	MinReadTimeout = 10 * time.Millisecond
	MaxReadTimeout = 30 * time.Second
)

// Unit selects the distance unit of fetched measurements.
type Unit int

const (
	// UnitCentimeter is the device default.
	UnitCentimeter Unit = iota

	// UnitMillimeter trades range for resolution: 0.5cm resolution and
	// ±5cm accuracy make millimeter output mostly cosmetic.
	UnitMillimeter
)

// String returns the unit suffix.
func (u Unit) String() string {
	if u == UnitMillimeter {
		return "mm"
	}

	return "cm"
}

// maxDistance returns the top of the device's documented measuring range
// in the unit.
func (u Unit) maxDistance() int {
	if u == UnitMillimeter {
		return 12000
	}

	return 1200
}

// dataFrameCommand returns the obtain-data-frame command for the unit.
func (u Unit) dataFrameCommand() Command {
	if u == UnitMillimeter {
		return CmdI2CFormatMM
	}

	return CmdI2CFormatCM
}

// SessionConfig holds all configuration for a device session.
type SessionConfig struct {
	address     byte
	readTimeout time.Duration
	unit        Unit
	logger      logger.Logger
}

// NewSessionConfig creates a session configuration with the factory
// device address and default timeouts. opts are applied in order; see the
// With* functions.
func NewSessionConfig(opts ...SessionOption) (*SessionConfig, error) {
	cfg := &SessionConfig{
		address:     DefaultDeviceAddress,
		readTimeout: DefaultReadTimeout,
		unit:        UnitCentimeter,
		logger:      logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Address returns the configured 7-bit device address.
func (cfg *SessionConfig) Address() byte { return cfg.address }

// ReadTimeout returns the bounded wait applied to each transport read.
func (cfg *SessionConfig) ReadTimeout() time.Duration { return cfg.readTimeout }

// DistanceUnit returns the configured distance unit.
func (cfg *SessionConfig) DistanceUnit() Unit { return cfg.unit }

// GetLogger returns the configured logger.
func (cfg *SessionConfig) GetLogger() logger.Logger { return cfg.logger }

// SessionOption is a functional option for configuring a SessionConfig.
type SessionOption interface {
	apply(*SessionConfig) error
}

type sessionOptFunc func(*SessionConfig) error

func (f sessionOptFunc) apply(cfg *SessionConfig) error { return f(cfg) }

// WithAddress sets the 7-bit device address. Must be in [0x01, 0x7F].
func WithAddress(addr byte) SessionOption {
	return sessionOptFunc(func(cfg *SessionConfig) error {
		if addr < MinDeviceAddress || addr > MaxDeviceAddress {
			return fmt.Errorf("tfmp: device address 0x%02X out of range [0x%02X, 0x%02X]",
				addr, MinDeviceAddress, MaxDeviceAddress)
		}
		cfg.address = addr

		return nil
	})
}

// WithReadTimeout sets the bounded wait for each transport read.
func WithReadTimeout(d time.Duration) SessionOption {
	return sessionOptFunc(func(cfg *SessionConfig) error {
		if d < MinReadTimeout || d > MaxReadTimeout {
			return fmt.Errorf("tfmp: read timeout %v out of range [%v, %v]",
				d, MinReadTimeout, MaxReadTimeout)
		}
		cfg.readTimeout = d

		return nil
	})
}

// WithUnit sets the distance unit requested from the device.
func WithUnit(u Unit) SessionOption {
	return sessionOptFunc(func(cfg *SessionConfig) error {
		if u != UnitCentimeter && u != UnitMillimeter {
			return fmt.Errorf("tfmp: unknown unit %d", u)
		}
		cfg.unit = u

		return nil
	})
}

// WithLogger sets the logger for the session.
func WithLogger(l logger.Logger) SessionOption {
	return sessionOptFunc(func(cfg *SessionConfig) error {
		if l == nil {
			return errors.New("tfmp: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
