// Package at implements the AT command/response engine (spec.md component
// C4) and the data-plane prefix detectors that frame raw socket-receive
// payloads inline with the line protocol (component C5).
//
// The engine serialises command execution over a single half-duplex
// transport, demultiplexes unsolicited result codes (URCs) away from
// command responses, and classifies response lines against a configurable
// set of token tables rather than hardcoding a single modem dialect — the
// BG770 tables live in the celltok package and are the default.
package at

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/binsentry/cellular-bg770/celltok"
)

// options holds an Engine's configurable token tables and timing.
type options struct {
	errorTokens    []string
	successTokens  []string
	prefixlessURCs []string
	urcPrefixes    []string
	writeGuard     time.Duration
	logger         *log.Logger
}

// Option configures an Engine constructed by New.
type Option func(*options)

// WithErrorTokens overrides the line-prefix tokens that terminate a command
// with failure.
func WithErrorTokens(tokens []string) Option {
	return func(o *options) { o.errorTokens = tokens }
}

// WithSuccessTokens overrides the line-prefix tokens that terminate a
// command with success.
func WithSuccessTokens(tokens []string) Option {
	return func(o *options) { o.successTokens = tokens }
}

// WithPrefixlessURCs overrides the full-line URC literal table stored in the
// Engine's options (celltok.PrefixlessURCs by default). The Engine does not
// consult this table: only literals registered with AddIndication are
// peeled off as indications.
func WithPrefixlessURCs(tokens []string) Option {
	return func(o *options) { o.prefixlessURCs = tokens }
}

// WithURCPrefixes overrides the "+..." URC prefix table stored in the
// Engine's options (celltok.URCPrefixes by default). nLoop does not consult
// this table: it peels off only lines matching a prefix registered with
// AddIndication and forwards every other line to the command stream.
func WithURCPrefixes(prefixes []string) Option {
	return func(o *options) { o.urcPrefixes = prefixes }
}

// WithWriteGuard overrides the minimum delay enforced between the end of
// one command's response and the start of the next write, which gives the
// modem's UART time to settle. The teacher's fixed 20ms is kept as the
// default.
func WithWriteGuard(d time.Duration) Option {
	return func(o *options) { o.writeGuard = d }
}

// WithLogger sets the logger stored in the Engine's options (nil by
// default). The Engine writes nothing to it: a line for a prefix with no
// registered handler is forwarded to the command stream without being
// logged.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Engine drives a modem connected over modem using half-duplex AT command
// exchange. Once closed (the underlying Read returns an error) an Engine
// cannot be reopened; a fresh one must be constructed.
type Engine struct {
	o       options
	modem   io.ReadWriter
	cmdCh   chan func()
	indCh   chan func()
	closed  chan struct{}
	iLines  chan rxLine
	cLines  chan rxLine
	inds    map[string]indication // only touched from nLoop's goroutine
	wgmu    sync.Mutex
	guarded bool
	wGuard  <-chan time.Time
}

// indication is one registered URC handler: lines matching prefix are
// bundled with totalLines-1 trailing lines and sent to c.
type indication struct {
	prefix     string
	totalLines int
	c          chan []string
}

// New constructs an Engine over modem and starts its background goroutines.
// Without options it uses the BG770 token tables in celltok.
func New(modem io.ReadWriter, opts ...Option) *Engine {
	o := options{
		errorTokens:    celltok.ErrorTokens,
		successTokens:  celltok.SuccessTokens,
		prefixlessURCs: celltok.PrefixlessURCs,
		urcPrefixes:    celltok.URCPrefixes,
		writeGuard:     20 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&o)
	}
	e := &Engine{
		o:      o,
		modem:  modem,
		cmdCh:  make(chan func()),
		indCh:  make(chan func()),
		iLines: make(chan rxLine),
		cLines: make(chan rxLine),
		closed: make(chan struct{}),
		inds:   make(map[string]indication),
	}
	go lineReader(e.modem, e.iLines)
	go e.nLoop(e.indCh, e.iLines, e.cLines)
	go cmdLoop(e.cmdCh, e.cLines, e.closed)
	return e
}

// Closed returns a channel that is closed once the modem connection is
// lost; every outstanding and future Execute then fails with ErrClosed.
func (e *Engine) Closed() <-chan struct{} {
	return e.closed
}

// Execute issues req to the modem and returns its framed response. ctx
// cancellation aborts the wait for a response but does not guarantee the
// modem did not still act on the command.
func (e *Engine) Execute(ctx context.Context, req Request) (Response, error) {
	done := make(chan result)
	select {
	case <-e.closed:
		return Response{}, ErrClosed
	case e.cmdCh <- func() {
		done <- e.processReq(ctx, req)
	}:
		r := <-done
		return r.rsp, r.err
	}
}

// AddIndication registers a handler for lines beginning with prefix. Each
// match, plus trailingLines further lines, is delivered as one slice on the
// returned channel, which is closed when the Engine closes.
func (e *Engine) AddIndication(prefix string, trailingLines int) (<-chan []string, error) {
	done := make(chan chan []string)
	errs := make(chan error)
	select {
	case <-e.closed:
		return nil, ErrClosed
	case e.indCh <- func() {
		if _, ok := e.inds[prefix]; ok {
			errs <- ErrIndicationExists
			return
		}
		i := indication{prefix, trailingLines + 1, make(chan []string)}
		e.inds[prefix] = i
		done <- i.c
	}:
		select {
		case ch := <-done:
			return ch, nil
		case err := <-errs:
			return nil, err
		}
	}
}

// CancelIndication removes any indication registered for prefix, closing
// its channel.
func (e *Engine) CancelIndication(prefix string) {
	done := make(chan struct{})
	select {
	case <-e.closed:
		return
	case e.indCh <- func() {
		if i, ok := e.inds[prefix]; ok {
			close(i.c)
			delete(e.inds, prefix)
		}
		close(done)
	}:
		<-done
	}
}

type result struct {
	rsp Response
	err error
}

// cmdLoop serialises command execution: it runs each submitted func() to
// completion before accepting the next, and exits once in (forwarded
// command-stream lines) closes, signalling the pipeline has shut down.
func cmdLoop(cmds chan func(), in <-chan rxLine, out chan struct{}) {
	for {
		select {
		case cmd := <-cmds:
			cmd()
		case _, ok := <-in:
			if !ok {
				close(out)
				return
			}
		}
	}
}

// nLoop pulls rxLines from in, peeling off indications and forwarding
// everything else (including raw data-plane frames, which never match an
// indication prefix) to out.
func (e *Engine) nLoop(cmds chan func(), in <-chan rxLine, out chan rxLine) {
	defer func() {
		for k, v := range e.inds {
			close(v.c)
			delete(e.inds, k)
		}
	}()
	for {
		select {
		case cmd := <-cmds:
			cmd()
		case line, ok := <-in:
			if !ok {
				close(out)
				return
			}
			if !line.isRaw {
				if matched := e.dispatchIndication(line.text, in); matched {
					continue
				}
			}
			out <- line
		}
	}
}

// dispatchIndication checks line against every registered indication
// prefix, collecting and delivering its trailing lines if it matches.
func (e *Engine) dispatchIndication(line string, in <-chan rxLine) bool {
	for k, v := range e.inds {
		if !hasPrefix(line, k) {
			continue
		}
		n := make([]string, v.totalLines)
		n[0] = line
		for i := 1; i < v.totalLines; i++ {
			t, ok := <-in
			if !ok {
				return true
			}
			n[i] = t.text
		}
		v.c <- n
		return true
	}
	return false
}

func hasPrefix(line, prefix string) bool {
	return len(line) >= len(prefix) && line[:len(prefix)] == prefix
}

// startWriteGuard arms a delay before the next write is permitted.
func (e *Engine) startWriteGuard() {
	e.wgmu.Lock()
	e.guarded = true
	e.wGuard = time.After(e.o.writeGuard)
	e.wgmu.Unlock()
}

// waitWriteGuard blocks until any armed write guard has elapsed.
func (e *Engine) waitWriteGuard() {
	e.wgmu.Lock()
	defer e.wgmu.Unlock()
	if !e.guarded {
		return
	}
	for {
		select {
		case _, ok := <-e.cLines:
			if !ok {
				return
			}
		case <-e.wGuard:
			e.guarded = false
			e.wGuard = nil
			return
		}
	}
}

// writeCommand writes req's command line to the modem. If req carries a
// SendPayload, the command line ends in a bare CR with no LF; the payload
// itself is written verbatim, with no terminator, once the ">" prompt
// arrives (see applyLine).
func (e *Engine) writeCommand(req Request) error {
	line := "AT" + req.Cmd + "\r\n"
	if req.SendPayload != nil {
		line = line[:len(line)-1]
	}
	_, err := e.modem.Write([]byte(line))
	return err
}
