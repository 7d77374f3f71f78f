package cellular

import (
	"sync"

	"github.com/binsentry/cellular-bg770/dnsresolve"
	"github.com/binsentry/cellular-bg770/socket"
)

// MaxSockets is the number of socket indices (0..MaxSockets-1) the BG770's
// TCP/IP stack exposes via AT+QIOPEN/AT+QSSLOPEN.
const MaxSockets = 12

// fullInitResult is the one-shot FullInitSkippedResult flag from spec.md
// §4.10: Unknown until EnableUE has run once, then latched Yes or No.
type fullInitResult int

const (
	fullInitUnknown fullInitResult = iota
	fullInitSkipped
	fullInitCompleted
)

// moduleContext is the process-wide, per-modem state spec.md §4.10
// describes as the module context (C10): the socket registry, the single
// DNS resolver slot, the init event group, and the enablement
// short-circuit flags. It is created exactly once by newModuleContext and
// torn down by close, both of which are idempotent-safe: a failed
// allocation rolls back everything already allocated.
type moduleContext struct {
	mu      sync.Mutex
	sockets [MaxSockets]*socket.Socket
	dns     *dnsresolve.Resolver

	appReady     chan struct{}
	appReadyOnce sync.Once

	fullInit fullInitResult
}

// newModuleContext allocates the module context's internal resources. Per
// spec.md §4.10 this must roll back cleanly on partial failure; nothing it
// allocates today (a channel and a zero-valued array) can fail, but the
// rollback path is kept so a future resource (e.g. a platform event-group
// handle) can be added without changing the contract.
func newModuleContext(dns *dnsresolve.Resolver) (mc *moduleContext, err error) {
	mc = &moduleContext{dns: dns}
	defer func() {
		if err != nil {
			mc.close()
			mc = nil
		}
	}()
	mc.appReady = make(chan struct{})
	return mc, nil
}

// close releases the module context. Safe to call more than once.
func (mc *moduleContext) close() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for i := range mc.sockets {
		mc.sockets[i] = nil
	}
}

// signalAppReady closes the AppReady bit exactly once, per spec.md's
// single-writer/single-waiter init event group.
func (mc *moduleContext) signalAppReady() {
	mc.appReadyOnce.Do(func() { close(mc.appReady) })
}

// allocSocket claims the lowest free socket index and installs sock there.
// It returns NoMemory if every index is already in use, matching spec.md
// §7's mapping for exhausted socket slots.
func (mc *moduleContext) allocSocket(newSock func(id int) *socket.Socket) (*socket.Socket, *CellularError) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for i := range mc.sockets {
		if mc.sockets[i] == nil {
			s := newSock(i)
			mc.sockets[i] = s
			return s, nil
		}
	}
	return nil, newErr(NoMemory)
}

// socketAt returns the socket registered at id, or nil if id is out of
// range or unallocated.
func (mc *moduleContext) socketAt(id int) *socket.Socket {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if id < 0 || id >= MaxSockets {
		return nil
	}
	return mc.sockets[id]
}

// freeSocket removes id from the registry so a later allocSocket can reuse
// it. Called once a Socket has been Closed with removal requested.
func (mc *moduleContext) freeSocket(id int) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if id >= 0 && id < MaxSockets {
		mc.sockets[id] = nil
	}
}

// eachSocket calls fn for every currently-allocated socket; used by the
// shared URC dispatcher to fan "+QIOPEN:"/"+QIURC: \"closed\"" lines out by
// id without holding the registry lock during fn.
func (mc *moduleContext) eachSocket(fn func(*socket.Socket)) {
	mc.mu.Lock()
	snapshot := make([]*socket.Socket, 0, MaxSockets)
	for _, s := range mc.sockets {
		if s != nil {
			snapshot = append(snapshot, s)
		}
	}
	mc.mu.Unlock()
	for _, s := range snapshot {
		fn(s)
	}
}
