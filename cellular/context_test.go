package cellular

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/binsentry/cellular-bg770/dnsresolve"
	"github.com/binsentry/cellular-bg770/socket"
)

func TestAllocSocketLowestFreeIndex(t *testing.T) {
	mc, err := newModuleContext(&dnsresolve.Resolver{})
	assert.NoError(t, err)

	s0, cerr := mc.allocSocket(func(id int) *socket.Socket { return socket.New(nil, id, 1) })
	assert.Nil(t, cerr)
	assert.Equal(t, 0, s0.ID())

	s1, cerr := mc.allocSocket(func(id int) *socket.Socket { return socket.New(nil, id, 1) })
	assert.Nil(t, cerr)
	assert.Equal(t, 1, s1.ID())

	mc.freeSocket(0)
	s2, cerr := mc.allocSocket(func(id int) *socket.Socket { return socket.New(nil, id, 1) })
	assert.Nil(t, cerr)
	assert.Equal(t, 0, s2.ID(), "freed slot 0 should be reused before a new slot 2")
}

func TestAllocSocketExhaustion(t *testing.T) {
	mc, err := newModuleContext(&dnsresolve.Resolver{})
	assert.NoError(t, err)

	for i := 0; i < MaxSockets; i++ {
		_, cerr := mc.allocSocket(func(id int) *socket.Socket { return socket.New(nil, id, 1) })
		assert.Nil(t, cerr)
	}
	_, cerr := mc.allocSocket(func(id int) *socket.Socket { return socket.New(nil, id, 1) })
	if assert.NotNil(t, cerr) {
		assert.Equal(t, NoMemory, cerr.Kind)
	}
}

func TestSocketAtOutOfRange(t *testing.T) {
	mc, err := newModuleContext(&dnsresolve.Resolver{})
	assert.NoError(t, err)
	assert.Nil(t, mc.socketAt(-1))
	assert.Nil(t, mc.socketAt(MaxSockets))
	assert.Nil(t, mc.socketAt(0))
}

func TestEachSocketSnapshot(t *testing.T) {
	mc, err := newModuleContext(&dnsresolve.Resolver{})
	assert.NoError(t, err)
	_, _ = mc.allocSocket(func(id int) *socket.Socket { return socket.New(nil, id, 1) })
	_, _ = mc.allocSocket(func(id int) *socket.Socket { return socket.New(nil, id, 1) })

	seen := 0
	mc.eachSocket(func(s *socket.Socket) { seen++ })
	assert.Equal(t, 2, seen)
}

func TestSignalAppReadyOnce(t *testing.T) {
	mc, err := newModuleContext(&dnsresolve.Resolver{})
	assert.NoError(t, err)
	mc.signalAppReady()
	assert.NotPanics(t, func() { mc.signalAppReady() })
	select {
	case <-mc.appReady:
	default:
		t.Fatal("appReady not closed")
	}
}

func TestCloseIdempotent(t *testing.T) {
	mc, err := newModuleContext(&dnsresolve.Resolver{})
	assert.NoError(t, err)
	_, _ = mc.allocSocket(func(id int) *socket.Socket { return socket.New(nil, id, 1) })
	mc.close()
	assert.Nil(t, mc.socketAt(0))
	assert.NotPanics(t, func() { mc.close() })
}
