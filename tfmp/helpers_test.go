package tfmp

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// stubRead is one scripted answer of a stubTransport.
type stubRead struct {
	data []byte
	err  error
}

// stubTransport is a scripted Transport: it records every write and
// serves reads from a fixed script. An exhausted script behaves like a
// silent device.
type stubTransport struct {
	writes   [][]byte
	reads    []stubRead
	probeErr error
	writeErr error
}

func (s *stubTransport) WriteBytes(_ context.Context, _ byte, data []byte) error {
	if s.writeErr != nil {
		return s.writeErr
	}

	s.writes = append(s.writes, append([]byte(nil), data...))

	return nil
}

func (s *stubTransport) ReadBytes(_ context.Context, _ byte, n int, timeout time.Duration) ([]byte, error) {
	if len(s.reads) == 0 {
		return nil, fmt.Errorf("stub: no data within %v: %w", timeout, os.ErrDeadlineExceeded)
	}

	r := s.reads[0]
	s.reads = s.reads[1:]
	if r.err != nil {
		return nil, r.err
	}
	if len(r.data) < n {
		return nil, fmt.Errorf("stub: only %d of %d bytes: %w", len(r.data), n, os.ErrDeadlineExceeded)
	}

	return r.data[:n], nil
}

func (s *stubTransport) Probe(_ context.Context, _ byte) error {
	return s.probeErr
}

// newTestSession creates a session over the given stub with debug-free
// defaults and a short read timeout.
func newTestSession(t *testing.T, transport Transport, opts ...SessionOption) *Session {
	t.Helper()

	opts = append([]SessionOption{WithReadTimeout(50 * time.Millisecond)}, opts...)
	cfg, err := NewSessionConfig(opts...)
	require.NoError(t, err)

	s, err := NewSession(transport, cfg)
	require.NoError(t, err)

	return s
}
