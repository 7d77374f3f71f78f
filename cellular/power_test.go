package cellular

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPsmSettingsModeOnly(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+QPSMS?\r\n": {"+QPSMS: 1\r\n", "OK\r\n"},
	}
	h, mm := newTestHandle(t, cmdSet)
	defer mm.Close()
	defer h.Cleanup()

	st, err := h.GetPsmSettings(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, uint8(1), st.Mode)
}

func TestGetPsmSettingsParseFailure(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+QPSMS?\r\n": {"OK\r\n"},
	}
	h, mm := newTestHandle(t, cmdSet)
	defer mm.Close()
	defer h.Cleanup()

	_, err := h.GetPsmSettings(context.Background())
	if assert.Error(t, err) {
		cerr, ok := err.(*CellularError)
		assert.True(t, ok)
		assert.Equal(t, InternalFailure, cerr.Kind)
	}
}

func TestSetPsmSettings(t *testing.T) {
	h, mm := newTestHandle(t, nil)
	defer mm.Close()
	defer h.Cleanup()

	assert.NoError(t, h.SetPsmSettings(context.Background(), 1, 600, 60))
}

func TestSetPsmSettingsZeroActiveTime(t *testing.T) {
	// S6: nonzero TAU with zero active-time must format active-time as a
	// bare empty field rather than the quoted literal "00000000".
	cmdSet := map[string][]string{
		`AT+QPSMS=1,,,"01000010",` + "\r\n": {"OK\r\n"},
	}
	h, mm := newTestHandle(t, cmdSet)
	defer mm.Close()
	defer h.Cleanup()

	assert.NoError(t, h.SetPsmSettings(context.Background(), 1, 0x42, 0))
}

func TestSetPSMEntry(t *testing.T) {
	h, mm := newTestHandle(t, nil)
	defer mm.Close()
	defer h.Cleanup()

	assert.NoError(t, h.SetPSMEntry(context.Background(), 1))
}

func TestPowerDown(t *testing.T) {
	h, mm := newTestHandle(t, nil)
	defer mm.Close()
	defer h.Cleanup()

	assert.NoError(t, h.PowerDown(context.Background(), 1))
}
