package cellular

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/binsentry/cellular-bg770/celltypes"
)

func TestGetModemTemperatures(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+QTEMP\r\n": {"+QTEMP: 32,35,30\r\n", "OK\r\n"},
	}
	h, mm := newTestHandle(t, cmdSet)
	defer mm.Close()
	defer h.Cleanup()

	tmp, err := h.GetModemTemperatures(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, celltypes.Temperatures{PMIC: 32, PA: 35, Board: 30}, tmp)
}

func TestGetModemTemperaturesParseFailure(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+QTEMP\r\n": {"OK\r\n"},
	}
	h, mm := newTestHandle(t, cmdSet)
	defer mm.Close()
	defer h.Cleanup()

	_, err := h.GetModemTemperatures(context.Background())
	if assert.Error(t, err) {
		cerr, ok := err.(*CellularError)
		assert.True(t, ok)
		assert.Equal(t, InternalFailure, cerr.Kind)
	}
}
