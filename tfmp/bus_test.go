package tfmp

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_SessionPerAddress(t *testing.T) {
	bus, err := NewBus(&stubTransport{})
	require.NoError(t, err)

	s1, err := bus.Session(0x10)
	require.NoError(t, err)
	s2, err := bus.Session(0x21)
	require.NoError(t, err)

	assert.NotSame(t, s1, s2)
	assert.Equal(t, byte(0x10), s1.Address())
	assert.Equal(t, byte(0x21), s2.Address())

	again, err := bus.Session(0x10)
	require.NoError(t, err)
	assert.Same(t, s1, again)

	assert.ElementsMatch(t, []byte{0x10, 0x21}, bus.Addresses())
}

func TestBus_InvalidAddress(t *testing.T) {
	bus, err := NewBus(&stubTransport{})
	require.NoError(t, err)

	_, err = bus.Session(0x00)
	assert.Error(t, err)
}

func TestBus_NilTransport(t *testing.T) {
	_, err := NewBus(nil)
	assert.Error(t, err)
}

func TestBus_BusOptionsApplyToSessions(t *testing.T) {
	bus, err := NewBus(&stubTransport{}, WithReadTimeout(20*time.Millisecond))
	require.NoError(t, err)

	s, err := bus.Session(0x10)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, s.cfg.ReadTimeout())
}

func TestBus_SharedWireSerializes(t *testing.T) {
	// Sessions on one bus share one wire mutex: concurrent fetches
	// against different addresses never interleave transport calls.
	stub := &serializingTransport{}
	bus, err := NewBus(stub, WithReadTimeout(20*time.Millisecond))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, addr := range []byte{0x10, 0x11, 0x12} {
		s, err := bus.Session(addr)
		require.NoError(t, err)

		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				s.FetchMeasurement(context.Background())
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, stub.overlaps.Load(), "transport calls must not overlap")
}

// serializingTransport detects overlapping calls from multiple goroutines.
type serializingTransport struct {
	inCall   sync.Mutex
	busy     bool
	overlaps atomicInt
}

type atomicInt struct {
	mu sync.Mutex
	n  int
}

func (a *atomicInt) Add(v int) {
	a.mu.Lock()
	a.n += v
	a.mu.Unlock()
}

func (a *atomicInt) Load() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.n
}

func (s *serializingTransport) enter() {
	s.inCall.Lock()
	if s.busy {
		s.overlaps.Add(1)
	}
	s.busy = true
	s.inCall.Unlock()
}

func (s *serializingTransport) leave() {
	s.inCall.Lock()
	s.busy = false
	s.inCall.Unlock()
}

func (s *serializingTransport) WriteBytes(_ context.Context, _ byte, _ []byte) error {
	s.enter()
	time.Sleep(100 * time.Microsecond)
	s.leave()

	return nil
}

func (s *serializingTransport) ReadBytes(_ context.Context, _ byte, n int, _ time.Duration) ([]byte, error) {
	s.enter()
	time.Sleep(100 * time.Microsecond)
	s.leave()

	return makeDataFrame(100, 900, 2048)[:n], nil
}

func (s *serializingTransport) Probe(_ context.Context, _ byte) error {
	return nil
}
