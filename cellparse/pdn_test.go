package cellparse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/binsentry/cellular-bg770/celltypes"
)

func TestParsePdnStatus(t *testing.T) {
	patterns := []struct {
		name string
		line string
		want celltypes.PdnStatus
		ok   bool
	}{
		{
			name: "valid ipv4",
			line: `+QIACT: 1,1,1,"10.0.0.5"`,
			want: celltypes.PdnStatus{
				ContextID: 1, State: 1,
				Type: celltypes.ContextTypeIPv4, Family: celltypes.AddressFamilyV4,
				IPAddress: "10.0.0.5",
			},
			ok: true,
		},
		{
			name: "ipv4v6 rejected",
			line: `+QIACT: 1,1,3,"10.0.0.5"`,
			want: celltypes.PdnStatus{ContextID: celltypes.PdnContextUnused},
			ok:   false,
		},
		{
			name: "context id out of range",
			line: `+QIACT: 17,1,1,"10.0.0.5"`,
			want: celltypes.PdnStatus{ContextID: celltypes.PdnContextUnused},
			ok:   false,
		},
		{
			name: "missing prefix",
			line: `1,1,1,"10.0.0.5"`,
			want: celltypes.PdnStatus{ContextID: celltypes.PdnContextUnused},
			ok:   false,
		},
	}
	for _, p := range patterns {
		t.Run(p.name, func(t *testing.T) {
			got, ok := ParsePdnStatus(p.line)
			assert.Equal(t, p.ok, ok)
			assert.Equal(t, p.want, got)
		})
	}
}

func TestParseQICSGP(t *testing.T) {
	patterns := []struct {
		name string
		line string
		want celltypes.PdnConfig
		ok   bool
	}{
		{
			name: "valid",
			line: `+QICSGP: 1,"apn.example","user","pass",1`,
			want: celltypes.PdnConfig{
				ContextType: celltypes.ContextTypeIPv4,
				APN:         "apn.example", Username: "user", Password: "pass",
				Auth: celltypes.AuthPAP,
			},
			ok: true,
		},
		{
			name: "pap-or-chap rejected",
			line: `+QICSGP: 1,"apn.example","user","pass",3`,
			want: celltypes.PdnConfig{},
			ok:   false,
		},
		{
			name: "malformed",
			line: `+QICSGP: nope`,
			want: celltypes.PdnConfig{},
			ok:   false,
		},
	}
	for _, p := range patterns {
		t.Run(p.name, func(t *testing.T) {
			got, ok := ParseQICSGP(p.line)
			assert.Equal(t, p.ok, ok)
			assert.Equal(t, p.want, got)
		})
	}
}
