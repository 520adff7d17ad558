package tfmp

import (
	"errors"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// Bus manages sessions for multiple devices sharing one transport handle,
// such as several TFMini-Plus units on a single I2C bus with distinct
// slave addresses.
//
// All sessions created by a bus share one wire mutex, so concurrent
// callers against different devices still serialize at the transport:
// the bus is half-duplex and the devices cannot interleave frames.
type Bus struct {
	transport Transport
	wire      sync.Mutex
	opts      []SessionOption
	sessions  *xsync.MapOf[byte, *Session]
}

// NewBus creates a bus over t. opts are applied to every session the bus
// creates, before the per-session address option.
func NewBus(t Transport, opts ...SessionOption) (*Bus, error) {
	if t == nil {
		return nil, errors.New("tfmp: transport is nil")
	}

	return &Bus{
		transport: t,
		opts:      opts,
		sessions:  xsync.NewMapOf[byte, *Session](),
	}, nil
}

// Session returns the session for the device at addr, creating it on
// first use. Repeated calls with the same address return the same
// session.
func (b *Bus) Session(addr byte, opts ...SessionOption) (*Session, error) {
	if s, ok := b.sessions.Load(addr); ok {
		return s, nil
	}

	merged := make([]SessionOption, 0, len(b.opts)+len(opts)+1)
	merged = append(merged, b.opts...)
	merged = append(merged, opts...)
	merged = append(merged, WithAddress(addr))

	cfg, err := NewSessionConfig(merged...)
	if err != nil {
		return nil, err
	}

	s, _ := b.sessions.LoadOrStore(addr, newSession(b.transport, cfg, &b.wire))

	return s, nil
}

// Addresses returns the addresses of all sessions the bus has created.
func (b *Bus) Addresses() []byte {
	addrs := make([]byte, 0, b.sessions.Size())
	b.sessions.Range(func(addr byte, _ *Session) bool {
		addrs = append(addrs, addr)

		return true
	})

	return addrs
}
