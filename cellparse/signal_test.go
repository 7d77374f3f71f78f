package cellparse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/binsentry/cellular-bg770/celltypes"
)

func TestParseQCSQ(t *testing.T) {
	patterns := []struct {
		name string
		line string
		want celltypes.SignalInfo
		ok   bool
	}{
		{
			// spec scenario S1.
			name: "S1 eMTC rescale",
			line: `+QCSQ: "eMTC",-80,-95,125,-10`,
			want: celltypes.SignalInfo{
				RSSI: -80, RSRP: -95, SINR: 5, RSRQ: -10,
				BER: celltypes.InvalidByte, Bars: celltypes.InvalidByte,
			},
			ok: true,
		},
		{
			name: "missing prefix",
			line: `-80,-95,125,-10`,
			want: celltypes.InvalidSignalInfo,
			ok:   false,
		},
		{
			name: "too few fields",
			line: `+QCSQ: "eMTC",-80,-95`,
			want: celltypes.InvalidSignalInfo,
			ok:   false,
		},
		{
			name: "non-numeric field",
			line: `+QCSQ: "eMTC",nope,-95,125,-10`,
			want: celltypes.InvalidSignalInfo,
			ok:   false,
		},
	}
	for _, p := range patterns {
		t.Run(p.name, func(t *testing.T) {
			got, ok := ParseQCSQ(p.line)
			assert.Equal(t, p.ok, ok)
			assert.Equal(t, p.want, got)
		})
	}
}

func TestParseCSQ(t *testing.T) {
	patterns := []struct {
		name string
		line string
		want celltypes.SignalInfo
		ok   bool
	}{
		{
			name: "valid",
			line: "+CSQ: 20,3",
			want: celltypes.SignalInfo{
				RSSI: -73, RSRP: celltypes.Invalid, SINR: celltypes.Invalid,
				RSRQ: celltypes.Invalid, BER: 3, Bars: celltypes.InvalidByte,
			},
			ok: true,
		},
		{
			name: "unknown rssi index 99",
			line: "+CSQ: 99,99",
			want: celltypes.SignalInfo{
				RSSI: celltypes.Invalid, RSRP: celltypes.Invalid, SINR: celltypes.Invalid,
				RSRQ: celltypes.Invalid, BER: celltypes.InvalidByte, Bars: celltypes.InvalidByte,
			},
			ok: true,
		},
		{
			name: "malformed",
			line: "+CSQ: nope",
			want: celltypes.InvalidSignalInfo,
			ok:   false,
		},
	}
	for _, p := range patterns {
		t.Run(p.name, func(t *testing.T) {
			got, ok := ParseCSQ(p.line)
			assert.Equal(t, p.ok, ok)
			assert.Equal(t, p.want, got)
		})
	}
}
