package cellparse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/binsentry/cellular-bg770/celltypes"
)

func TestParseReceiveStats(t *testing.T) {
	got, ok := ParseReceiveStats(`+QIRD: 100,40,60`, "+QIRD:")
	assert.True(t, ok)
	assert.Equal(t, celltypes.ReceiveStats{Total: 100, Read: 40, Unread: 60}, got)

	got, ok = ParseReceiveStats(`+QSSLRECV: 100,40,60`, "+QSSLRECV:")
	assert.True(t, ok)
	assert.Equal(t, celltypes.ReceiveStats{Total: 100, Read: 40, Unread: 60}, got)

	_, ok = ParseReceiveStats(`+QIRD: 100,40`, "+QIRD:")
	assert.False(t, ok)

	_, ok = ParseReceiveStats(`+QSSLRECV: 100,40,60`, "+QIRD:")
	assert.False(t, ok)
}
