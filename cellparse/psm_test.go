package cellparse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/binsentry/cellular-bg770/celltypes"
)

func TestParseQPSMS(t *testing.T) {
	patterns := []struct {
		name string
		line string
		want celltypes.PSMSettings
		ok   bool
	}{
		{
			name: "mode only",
			line: "+QPSMS: 1",
			want: celltypes.PSMSettings{Mode: 1},
			ok:   true,
		},
		{
			name: "full binary timers",
			line: `+QPSMS: 1,"00000000","00000000","00100100","00000011"`,
			want: celltypes.PSMSettings{
				Mode: 1, PeriodicTAU: 0b00100100, ActiveTime: 0b00000011,
			},
			ok: true,
		},
		{
			name: "empty timer field parses as zero",
			line: `+QPSMS: 1,,,"00100100","00000011"`,
			want: celltypes.PSMSettings{
				Mode: 1, PeriodicTAU: 0b00100100, ActiveTime: 0b00000011,
			},
			ok: true,
		},
		{
			name: "malformed timer digit for base-2",
			line: `+QPSMS: 1,"00000000","00000000","00100129","00000011"`,
			want: celltypes.PSMSettings{},
			ok:   false,
		},
		{
			name: "missing prefix",
			line: `1,"00000000"`,
			want: celltypes.PSMSettings{},
			ok:   false,
		},
	}
	for _, p := range patterns {
		t.Run(p.name, func(t *testing.T) {
			got, ok := ParseQPSMS(p.line, DefaultPSMTimerBase)
			assert.Equal(t, p.ok, ok)
			assert.Equal(t, p.want, got)
		})
	}
}

func TestParseQPSMCFG(t *testing.T) {
	line := `+QPSMCFG: 1,"00000001","00000010","00100100","00000011"`
	got, ok := ParseQPSMCFG(line, DefaultPSMTimerBase)
	assert.True(t, ok)
	assert.Equal(t, celltypes.PSMSettings{
		Mode: 1, PeriodicRAU: 1, GPRSReadyTimer: 2,
		PeriodicTAU: 0b00100100, ActiveTime: 0b00000011,
	}, got)
}
