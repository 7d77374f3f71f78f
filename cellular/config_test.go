package cellular

import (
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/binsentry/cellular-bg770/celltypes"
)

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, celltypes.RATTriple{celltypes.RATEMTC}, c.DefaultRAT)
	assert.Equal(t, celltypes.URCPortMain, c.URCPort)
	assert.Equal(t, 2*1024*1024, c.MaxFileUploadSize)
	assert.False(t, c.SkipPostHWFlowControlSetupIfChanged)
	assert.Equal(t, 90*time.Second, c.EnableTimeout)
	assert.Equal(t, 2, c.PSMTimerBase)
	assert.Equal(t, 1, c.PDPContextID)
	assert.Equal(t, log.Default(), c.Logger)
}

func TestNewConfigOptions(t *testing.T) {
	rat := celltypes.RATTriple{celltypes.RATGSM, celltypes.RATEMTC}
	logger := log.New(nil, "x", 0)
	c := NewConfig(
		WithDefaultRAT(rat),
		WithURCPort(celltypes.URCPortAux),
		WithMaxFileUploadSize(1024),
		WithSkipPostHWFlowControlSetupIfChanged(true),
		WithEnableTimeout(30*time.Second),
		WithPSMTimerBase(10),
		WithPDPContextID(3),
		WithLogger(logger),
	)
	assert.Equal(t, rat, c.DefaultRAT)
	assert.Equal(t, celltypes.URCPortAux, c.URCPort)
	assert.Equal(t, 1024, c.MaxFileUploadSize)
	assert.True(t, c.SkipPostHWFlowControlSetupIfChanged)
	assert.Equal(t, 30*time.Second, c.EnableTimeout)
	assert.Equal(t, 10, c.PSMTimerBase)
	assert.Equal(t, 3, c.PDPContextID)
	assert.Equal(t, logger, c.Logger)
}
