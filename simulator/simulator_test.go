package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-tfmp/tfmp"
)

func newTestSession(t *testing.T, dev *Device) *tfmp.Session {
	t.Helper()

	cfg, err := tfmp.NewSessionConfig(tfmp.WithReadTimeout(50 * time.Millisecond))
	require.NoError(t, err)

	s, err := tfmp.NewSession(dev, cfg)
	require.NoError(t, err)

	return s
}

func TestDevice_ProbeAndFetch(t *testing.T) {
	dev := New()
	dev.SetMeasurement(321, 2000, 30)
	s := newTestSession(t, dev)

	require.True(t, s.Probe(context.Background()))
	require.True(t, s.FetchMeasurement(context.Background()))

	assert.Equal(t, 321, s.Distance())
	assert.Equal(t, 2000, s.Flux())
	assert.InDelta(t, 30.0, s.Temperature(), 0.125)
}

func TestDevice_ProbeWrongAddress(t *testing.T) {
	dev := New()

	cfg, err := tfmp.NewSessionConfig(tfmp.WithAddress(0x42))
	require.NoError(t, err)
	s, err := tfmp.NewSession(dev, cfg)
	require.NoError(t, err)

	assert.False(t, s.Probe(context.Background()))
	assert.Equal(t, tfmp.StatusOpenFail, s.Status())
}

func TestDevice_FirmwareVersion(t *testing.T) {
	dev := New()
	s := newTestSession(t, dev)

	require.True(t, s.SendCommand(context.Background(), tfmp.CmdFirmwareVersion, 0))
	assert.Equal(t, "2.3.6", s.Version())
}

func TestDevice_SetFrameRate(t *testing.T) {
	dev := New()
	s := newTestSession(t, dev)

	require.True(t, s.SendCommand(context.Background(), tfmp.CmdSetFrameRate, tfmp.FrameRate250))
	assert.Equal(t, uint16(250), dev.FrameRate())

	require.True(t, s.SendCommand(context.Background(), tfmp.CmdSaveSettings, 0))
}

func TestDevice_OutputToggle(t *testing.T) {
	dev := New()
	s := newTestSession(t, dev)

	require.True(t, s.SendCommand(context.Background(), tfmp.CmdDisableOutput, 0))
	assert.False(t, dev.OutputEnabled())

	require.True(t, s.SendCommand(context.Background(), tfmp.CmdEnableOutput, 0))
	assert.True(t, dev.OutputEnabled())
}

func TestDevice_SystemResetRestoresDefaults(t *testing.T) {
	dev := New()
	s := newTestSession(t, dev)

	require.True(t, s.SendCommand(context.Background(), tfmp.CmdSetFrameRate, tfmp.FrameRate5))
	require.Equal(t, uint16(5), dev.FrameRate())

	require.True(t, s.SendCommand(context.Background(), tfmp.CmdSystemReset, 0))
	assert.Equal(t, DefaultFrameRate, dev.FrameRate())
}

func TestDevice_TriggerThenFetch(t *testing.T) {
	dev := New()
	dev.SetMeasurement(77, 600, 20)
	s := newTestSession(t, dev)

	// Zero frame rate: trigger queues a data frame, fetch does too;
	// drain the triggered frame first.
	require.True(t, s.SendCommand(context.Background(), tfmp.CmdSetFrameRate, tfmp.FrameRate0))
	require.True(t, s.SendCommand(context.Background(), tfmp.CmdTriggerDetection, 0))
	require.True(t, s.FetchMeasurement(context.Background()))

	assert.Equal(t, 77, s.Distance())
}

func TestDevice_Sentinels(t *testing.T) {
	dev := New()
	s := newTestSession(t, dev)

	dev.ReportWeakSignal()
	assert.False(t, s.FetchMeasurement(context.Background()))
	assert.Equal(t, tfmp.StatusWeakSignal, s.Status())

	dev.ReportSaturation()
	assert.False(t, s.FetchMeasurement(context.Background()))
	assert.Equal(t, tfmp.StatusSaturation, s.Status())

	dev.ReportAmbientLight()
	assert.False(t, s.FetchMeasurement(context.Background()))
	assert.Equal(t, tfmp.StatusAmbientLight, s.Status())
}

func TestDevice_FaultInjection(t *testing.T) {
	dev := New()
	s := newTestSession(t, dev)

	dev.SilenceNextReply()
	assert.False(t, s.FetchMeasurement(context.Background()))
	assert.Equal(t, tfmp.StatusTimeout, s.Status())

	dev.CorruptNextChecksum()
	assert.False(t, s.FetchMeasurement(context.Background()))
	assert.Equal(t, tfmp.StatusChecksum, s.Status())

	dev.TruncateNextReply(3)
	assert.False(t, s.SendCommand(context.Background(), tfmp.CmdSaveSettings, 0))
	assert.Equal(t, tfmp.StatusTimeout, s.Status())

	dev.StaleNextReply()
	assert.False(t, s.SendCommand(context.Background(), tfmp.CmdSaveSettings, 0))
	assert.Equal(t, tfmp.StatusOpcode, s.Status())

	// The device recovers after each single fault.
	assert.True(t, s.FetchMeasurement(context.Background()))
}

func TestDevice_ChangeAddress(t *testing.T) {
	dev := New()
	s := newTestSession(t, dev)

	// The new address takes effect only after a reset, as on hardware.
	require.True(t, s.SendCommand(context.Background(), tfmp.CmdSetI2CAddress, 0x42))
	assert.Equal(t, DefaultAddress, dev.Address())

	require.True(t, s.SendCommand(context.Background(), tfmp.CmdSystemReset, 0))
	assert.Equal(t, byte(0x42), dev.Address())

	// The old session address no longer answers.
	assert.False(t, s.Probe(context.Background()))
}

func TestDevice_BusWithMultipleSessions(t *testing.T) {
	dev := New()
	bus, err := tfmp.NewBus(dev, tfmp.WithReadTimeout(50*time.Millisecond))
	require.NoError(t, err)

	s, err := bus.Session(DefaultAddress)
	require.NoError(t, err)
	require.True(t, s.FetchMeasurement(context.Background()))

	ghost, err := bus.Session(0x33)
	require.NoError(t, err)
	assert.False(t, ghost.Probe(context.Background()))
}
