// Package cellular ties the at/cellparse/cellfmt/socket/dnsresolve/band
// packages into the BG770 modem handle spec.md §3 describes: one Handle per
// physical modem, created by New/Init and torn down by Cleanup, after which
// every operation fails with InvalidHandle.
package cellular

import (
	"context"
	"io"

	"github.com/binsentry/cellular-bg770/at"
	"github.com/binsentry/cellular-bg770/cellparse"
	"github.com/binsentry/cellular-bg770/dnsresolve"
	"github.com/binsentry/cellular-bg770/socket"
)

// Handle is the modem handle: it decorates an at.Engine (the teacher's own
// GSM/AT decorator shape) with the module context and the single set of
// shared URC registrations every Socket/Resolver fans results out from.
type Handle struct {
	*at.Engine
	*moduleContext
	cfg Config
}

// New constructs a Handle over modem but does not talk to it; call Init to
// run the enablement sequence before issuing any other operation.
func New(modem io.ReadWriter, opts ...Option) (*Handle, error) {
	cfg := NewConfig(opts...)
	engine := at.New(modem, at.WithLogger(cfg.Logger))
	dns := dnsresolve.New(engine, cfg.PDPContextID, dnsresolve.WithLogger(cfg.Logger))
	mc, err := newModuleContext(dns)
	if err != nil {
		return nil, err
	}
	h := &Handle{Engine: engine, moduleContext: mc, cfg: cfg}
	if err := h.registerIndications(); err != nil {
		mc.close()
		return nil, err
	}
	return h, nil
}

// registerIndications installs the engine-wide handlers for every prefix
// more than one logical consumer shares, and spawns one dispatch goroutine
// per prefix to fan lines out via the Deliver* callbacks. at.Engine permits
// only a single handler per literal prefix (AddIndication returns
// ErrIndicationExists on a second registration), so Handle is the sole
// owner of "+QIOPEN:", "+QIURC:" and "APP RDY".
func (h *Handle) registerIndications() error {
	open, err := h.Engine.AddIndication("+QIOPEN:", 0)
	if err != nil {
		return err
	}
	go h.dispatchOpen(open)

	urc, err := h.Engine.AddIndication("+QIURC:", 0)
	if err != nil {
		return err
	}
	go h.dispatchURC(urc)

	rdy, err := h.Engine.AddIndication("APP RDY", 0)
	if err != nil {
		return err
	}
	go h.dispatchAppReady(rdy)

	return nil
}

func (h *Handle) dispatchOpen(ch <-chan []string) {
	for lines := range ch {
		id, code, ok := cellparse.ParseSocketOpenResult(lines[0])
		if !ok {
			continue
		}
		if s := h.socketAt(id); s != nil {
			s.DeliverOpenResult(code)
		}
	}
}

// dispatchURC demultiplexes every line sharing the "+QIURC:" prefix by its
// quoted sub-tag: "closed" goes to the matching Socket, "dnsgip" goes to
// the DNS resolver, anything else is dropped (spec.md names no consumer for
// it at this layer).
func (h *Handle) dispatchURC(ch <-chan []string) {
	for lines := range ch {
		line := lines[0]
		if id, ok := cellparse.ParseSocketClosedURC(line); ok {
			if s := h.socketAt(id); s != nil {
				s.DeliverClosed()
			}
			continue
		}
		if code, count, ok := cellparse.ParseDNSResultURC(line); ok {
			h.dns.DeliverResult(code, count)
			continue
		}
		if ip, ok := cellparse.ParseDNSAddressURC(line); ok {
			h.dns.DeliverAddress(ip)
			continue
		}
	}
}

func (h *Handle) dispatchAppReady(ch <-chan []string) {
	for range ch {
		h.signalAppReady()
	}
}

// Cleanup releases the Handle's resources, per spec.md's ModuleCleanUp.
// Safe to call once Init has failed partway through.
func (h *Handle) Cleanup() {
	h.Engine.CancelIndication("+QIOPEN:")
	h.Engine.CancelIndication("+QIURC:")
	h.Engine.CancelIndication("APP RDY")
	h.moduleContext.close()
}

// newSocket wraps moduleContext.allocSocket, translating a full registry
// into the host-facing CellularError the way every other Handle method
// does.
func (h *Handle) newSocket(tls bool, ctxID, sslCtxID int) (*socket.Socket, *CellularError) {
	return h.moduleContext.allocSocket(func(id int) *socket.Socket {
		if tls {
			return socket.NewTLS(h.Engine, id, ctxID, sslCtxID)
		}
		return socket.New(h.Engine, id, ctxID)
	})
}

// Init runs the module enablement sequence (spec.md §4.8) and blocks until
// it completes or ctx is done.
func (h *Handle) Init(ctx context.Context) error {
	return EnableUE(ctx, h)
}
