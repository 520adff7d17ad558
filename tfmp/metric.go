package tfmp

import (
	"sync/atomic"
)

// SessionMetrics contains atomic metrics for a device session.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type SessionMetrics struct {
	// FrameRecvCount indicates the number of data frames decoded successfully.
	FrameRecvCount atomic.Uint64
	// FrameErrCount indicates the number of data frames rejected
	// (header, checksum or range failures) or reported as device errors.
	FrameErrCount atomic.Uint64

	// CmdSendCount indicates the number of commands sent and acknowledged.
	CmdSendCount atomic.Uint64
	// CmdErrCount indicates the number of command exchanges that failed.
	CmdErrCount atomic.Uint64

	// TimeoutCount indicates the number of bounded reads that expired.
	TimeoutCount atomic.Uint64
}

func (m *SessionMetrics) incFrameRecvCount() {
	m.FrameRecvCount.Add(1)
}

func (m *SessionMetrics) incFrameErrCount() {
	m.FrameErrCount.Add(1)
}

func (m *SessionMetrics) incCmdSendCount() {
	m.CmdSendCount.Add(1)
}

func (m *SessionMetrics) incCmdErrCount() {
	m.CmdErrCount.Add(1)
}

func (m *SessionMetrics) incTimeoutCount() {
	m.TimeoutCount.Add(1)
}
