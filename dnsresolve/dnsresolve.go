// Package dnsresolve implements the DNS rendezvous (spec.md component C7):
// a single-slot producer/consumer that turns the modem's two-phase
// "+QIURC: \"dnsgip\", ..." URC sequence into a synchronous Resolve call.
//
// "+QIURC:" is a prefix shared with several other unsolicited result codes
// (socket-closed, PDP-deactivated, ...), so a Resolver never registers its
// own engine indication; the owning cellular.Handle registers exactly one
// "+QIURC:" handler and routes "dnsgip" lines here via DeliverResult and
// DeliverAddress, the same fan-out shape the socket package uses for
// "+QIOPEN:"/"+QIURC: \"closed\"".
package dnsresolve

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/binsentry/cellular-bg770/at"
	"github.com/binsentry/cellular-bg770/celltok"
	"github.com/binsentry/cellular-bg770/cellfmt"
)

// ResolveTimeout bounds how long Resolve waits on the DNS URC queue after
// AT+QIDNSGIP's synchronous OK, per spec.md §4.7.
const ResolveTimeout = 60 * time.Second

var (
	// ErrFailed indicates the modem reported a nonzero DNS result code or
	// zero resolved addresses.
	ErrFailed = errors.New("dnsresolve: lookup failed")
	// ErrTimeout indicates no usable DNS URC arrived within ResolveTimeout.
	ErrTimeout = errors.New("dnsresolve: timed out waiting for result")
)

type result struct {
	ip  string
	err error
}

// Resolver serialises AT+QIDNSGIP lookups over ctxID's PDP context.
type Resolver struct {
	engine *at.Engine
	ctxID  int
	logger *log.Logger

	resolveMu sync.Mutex // the DNS mutex: one resolve in flight at a time

	stateMu   sync.Mutex // guards the fields below, touched from DeliverResult/DeliverAddress
	active    bool
	resultNum int
	index     int
	ch        chan result
}

// Option configures a Resolver constructed by New.
type Option func(*Resolver)

// WithLogger sets the logger used for spurious/discarded DNS URCs. A nil
// logger, the default, disables this logging.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New constructs a Resolver issuing lookups against ctxID.
func New(engine *at.Engine, ctxID int, opts ...Option) *Resolver {
	r := &Resolver{engine: engine, ctxID: ctxID}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) logf(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}

// Resolve looks up hostname and returns its first resolved address.
// Concurrent calls are serialised: only one AT+QIDNSGIP is ever in flight.
func (r *Resolver) Resolve(ctx context.Context, hostname string) (string, error) {
	r.resolveMu.Lock()
	defer r.resolveMu.Unlock()

	r.stateMu.Lock()
	r.active = true
	r.resultNum = 0
	r.index = 0
	ch := make(chan result, 1)
	r.ch = ch
	r.stateMu.Unlock()

	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatDNSResolve(buf[:], r.ctxID, hostname)
	if err != nil {
		r.deactivate()
		return "", err
	}
	if _, err := r.engine.Execute(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}); err != nil {
		r.deactivate()
		return "", err
	}

	select {
	case res := <-ch:
		if res.err != nil {
			return "", res.err
		}
		return res.ip, nil
	case <-time.After(ResolveTimeout):
		r.deactivate()
		return "", ErrTimeout
	case <-ctx.Done():
		r.deactivate()
		return "", ctx.Err()
	}
}

func (r *Resolver) deactivate() {
	r.stateMu.Lock()
	r.active = false
	r.stateMu.Unlock()
}

// DeliverResult is called by the owning registry's URC dispatch goroutine
// with the first "+QIURC: \"dnsgip\",<code>,<count>[,<ttl>]" line's code and
// count. A nonzero code or a zero count fails the in-flight Resolve
// immediately; otherwise it arms the resolver to accept up to count
// DeliverAddress calls.
func (r *Resolver) DeliverResult(code, count int) {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	if !r.active {
		r.logf("dnsresolve: spurious result code=%d count=%d", code, count)
		return
	}
	if code != 0 || count == 0 {
		r.active = false
		r.send(result{err: ErrFailed})
		return
	}
	r.resultNum = count
	r.index = 0
}

// DeliverAddress is called for each "+QIURC: \"dnsgip\",\"<ip>\"" line that
// follows a successful DeliverResult. Only the first such line while still
// active is delivered to the blocked Resolve call; every subsequent line is
// logged and discarded, per spec.md §4.7.
func (r *Resolver) DeliverAddress(ip string) {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	if !r.active || r.index >= r.resultNum {
		r.logf("dnsresolve: spurious or extra address %q", ip)
		return
	}
	r.index++
	r.active = false
	r.send(result{ip: ip})
}

// send is non-blocking: ch is always buffered 1 and only ever written once
// per active resolve, so this never drops a result Resolve is waiting for.
func (r *Resolver) send(res result) {
	select {
	case r.ch <- res:
	default:
	}
}

func cmdText(buf []byte) string {
	if len(buf) < 2 {
		return ""
	}
	return string(buf[2:])
}
