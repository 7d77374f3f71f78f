package cellular

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/binsentry/cellular-bg770/band"
	"github.com/binsentry/cellular-bg770/celltypes"
)

func TestGetSignalInfoQCSQ(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+QCSQ\r\n": {`+QCSQ: "eMTC",-80,-95,125,-10` + "\r\n", "OK\r\n"},
	}
	h, mm := newTestHandle(t, cmdSet)
	defer mm.Close()
	defer h.Cleanup()

	info, err := h.GetSignalInfo(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int32(-80), info.RSSI)
	assert.Equal(t, int32(-95), info.RSRP)
}

func TestGetSignalInfoFallsBackToCSQ(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+QCSQ\r\n": {"OK\r\n"},
		"AT+CSQ\r\n":  {"+CSQ: 20,3\r\n", "OK\r\n"},
	}
	h, mm := newTestHandle(t, cmdSet)
	defer mm.Close()
	defer h.Cleanup()

	info, err := h.GetSignalInfo(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, uint8(3), info.BER)
}

func TestGetLTENetworkInfo(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+QNWINFO\r\n": {`+QNWINFO: "eMTC","310410","LTE BAND 4",2300` + "\r\n", "OK\r\n"},
	}
	h, mm := newTestHandle(t, cmdSet)
	defer mm.Close()
	defer h.Cleanup()

	info, err := h.GetLTENetworkInfo(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, celltypes.NetworkInfo{Service: "eMTC", PLMN: "310410", Band: 4, ChannelID: 2300}, info)
}

func TestGetLTENetworkInfoParseFailure(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+QNWINFO\r\n": {"garbage\r\n", "OK\r\n"},
	}
	h, mm := newTestHandle(t, cmdSet)
	defer mm.Close()
	defer h.Cleanup()

	_, err := h.GetLTENetworkInfo(context.Background())
	if assert.Error(t, err) {
		cerr, ok := err.(*CellularError)
		assert.True(t, ok)
		assert.Equal(t, InternalFailure, cerr.Kind)
	}
}

func TestGetServiceSelection(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+COPS?\r\n": {`+COPS: 0,2,"310410",9` + "\r\n", "OK\r\n"},
	}
	h, mm := newTestHandle(t, cmdSet)
	defer mm.Close()
	defer h.Cleanup()

	sel, err := h.GetServiceSelection(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, celltypes.ServiceSelection{
		Mode: 0, Format: celltypes.OperatorFormatNumeric, Operator: "310410", RAT: celltypes.RATEMTC,
	}, sel)
}

func TestGetRatPriority(t *testing.T) {
	cmdSet := map[string][]string{
		`AT+QCFG="nwscanseq"` + "\r\n": {`+QCFG: "nwscanseq",0203` + "\r\n", "OK\r\n"},
	}
	h, mm := newTestHandle(t, cmdSet)
	defer mm.Close()
	defer h.Cleanup()

	seq, err := h.GetRatPriority(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, celltypes.RATTriple{celltypes.RATEMTC, celltypes.RATNBIoT, celltypes.RATInvalid}, seq)
}

func TestSetLTEFrequencyBandsAllZeroRejected(t *testing.T) {
	h, mm := newTestHandle(t, nil)
	defer mm.Close()
	defer h.Cleanup()

	_, err := h.SetLTEFrequencyBands(context.Background(), band.Mask{})
	if assert.Error(t, err) {
		cerr, ok := err.(*CellularError)
		assert.True(t, ok)
		assert.Equal(t, BadParameter, cerr.Kind)
	}
}

func TestSetLTEFrequencyBandsFiltersToSupported(t *testing.T) {
	h, mm := newTestHandle(t, nil)
	defer mm.Close()
	defer h.Cleanup()

	cleared, err := h.SetLTEFrequencyBands(context.Background(), band.SupportedMask)
	assert.NoError(t, err)
	assert.False(t, cleared)
}

func TestGetBandScanPriorityList(t *testing.T) {
	cmdSet := map[string][]string{
		`AT+QCFG="lte/bandprior"` + "\r\n": {`+QCFG: "lte/bandprior",3,4,12` + "\r\n", "OK\r\n"},
	}
	h, mm := newTestHandle(t, cmdSet)
	defer mm.Close()
	defer h.Cleanup()

	list, err := h.GetBandScanPriorityList(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []int{3, 4, 12}, list)
}

func TestSetBandScanPriorityListTooLong(t *testing.T) {
	h, mm := newTestHandle(t, nil)
	defer mm.Close()
	defer h.Cleanup()

	bands := make([]int, 100)
	err := h.SetBandScanPriorityList(context.Background(), bands)
	if assert.Error(t, err) {
		cerr, ok := err.(*CellularError)
		assert.True(t, ok)
		assert.Equal(t, BadParameter, cerr.Kind)
	}
}
