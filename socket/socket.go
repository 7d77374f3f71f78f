// Package socket implements the per-socket state machine (spec.md
// component C6): connect/send/recv/close over a shared at.Engine, plus the
// close-policy and statistics query every PDP-bearer socket needs.
//
// A Socket never registers its own engine indication — "+QIOPEN:" and
// "+QIURC:" are shared across every socket on the link, so the owning
// cellular.Handle registers them once and fans results out to the right
// Socket by id via DeliverOpenResult/DeliverClosed. That keeps this package
// free of any dependency on the rest of the registry.
package socket

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/binsentry/cellular-bg770/at"
	"github.com/binsentry/cellular-bg770/cellfmt"
	"github.com/binsentry/cellular-bg770/cellparse"
	"github.com/binsentry/cellular-bg770/celltok"
	"github.com/binsentry/cellular-bg770/celltypes"
)

// State is one node of the socket lifecycle in spec.md §4.6.
type State int

const (
	StateAllocated State = iota
	StateConnecting
	StateConnected
	StateDisconnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateAllocated:
		return "allocated"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var (
	// ErrNotConnected is returned by Send/Recv/ReceiveStats from Allocated
	// or Connecting.
	ErrNotConnected = errors.New("socket: not connected")
	// ErrClosed is returned by Send/Recv/ReceiveStats on a Disconnected or
	// Closed socket, and by Close on a socket that is already Closed.
	ErrClosed = errors.New("socket: closed")
	// ErrInvalidState is returned by Connect on anything but Allocated.
	ErrInvalidState = errors.New("socket: invalid state for operation")
)

// OpenError reports a nonzero <err> field from the "+QIOPEN:"/"+QSSLOPEN:"
// completion URC; Code is the raw Quectel PDP/connect error.
type OpenError struct {
	Code int
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("socket: open failed, code %d", e.Code)
}

// Socket is one TCP/UDP-service or TLS socket multiplexed over a single
// at.Engine. Its state, read through State, cannot be set from outside
// this package; every transition happens via Connect/Close or the Deliver*
// callbacks a registry invokes from the engine's URC dispatch goroutine.
type Socket struct {
	engine   *at.Engine
	id       int
	ctxID    int
	sslCtxID int
	tls      bool

	mu         sync.Mutex
	state      State
	lastResult int
	opened     chan int
}

// New creates a plain TCP/UDP-service socket bound to PDP context ctxID.
func New(engine *at.Engine, id, ctxID int) *Socket {
	return &Socket{engine: engine, id: id, ctxID: ctxID, opened: make(chan int, 1)}
}

// NewTLS creates a TLS socket bound to PDP context ctxID and SSL context
// sslCtxID.
func NewTLS(engine *at.Engine, id, ctxID, sslCtxID int) *Socket {
	return &Socket{engine: engine, id: id, ctxID: ctxID, sslCtxID: sslCtxID, tls: true, opened: make(chan int, 1)}
}

// ID returns the socket's Quectel-side index, 0..11.
func (s *Socket) ID() int { return s.id }

// State returns the socket's current lifecycle state.
func (s *Socket) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastResultCode returns the most recent open result code reported by
// the modem, 0 if none has been reported yet.
func (s *Socket) LastResultCode() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

// Connect opens the socket to ip:port, issuing AT+QIOPEN (or AT+QSSLOPEN
// for a TLS socket) and then blocking for the asynchronous completion URC.
// It requires the socket be Allocated; on failure the socket reverts to
// Allocated and may be retried.
func (s *Socket) Connect(ctx context.Context, ip string, port, localPort uint16, mode cellfmt.AccessMode) error {
	s.mu.Lock()
	if s.state != StateAllocated {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.state = StateConnecting
	s.mu.Unlock()

	var buf [cellfmt.MaxCommandLen]byte
	var n int
	var err error
	if s.tls {
		n, err = cellfmt.FormatSocketOpenTLS(buf[:], s.ctxID, s.sslCtxID, s.id, ip, port, mode)
	} else {
		n, err = cellfmt.FormatSocketOpenPlain(buf[:], s.ctxID, s.id, cellfmt.ProtocolTCP, ip, port, localPort, mode)
	}
	if err != nil {
		s.revertToAllocated()
		return err
	}
	req := at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}
	if _, err := s.engine.ExecuteWithRetry(ctx, req, at.DefaultRetryPolicy); err != nil {
		s.revertToAllocated()
		return err
	}

	select {
	case code := <-s.opened:
		s.mu.Lock()
		s.lastResult = code
		if code != 0 {
			s.state = StateAllocated
			s.mu.Unlock()
			return &OpenError{Code: code}
		}
		s.state = StateConnected
		s.mu.Unlock()
		return nil
	case <-ctx.Done():
		s.revertToAllocated()
		return ctx.Err()
	}
}

func (s *Socket) revertToAllocated() {
	s.mu.Lock()
	s.state = StateAllocated
	s.mu.Unlock()
}

// Send writes data to a Connected socket.
func (s *Socket) Send(ctx context.Context, data []byte) error {
	if err := s.requireConnected(); err != nil {
		return err
	}
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatSocketSendHeader(buf[:], s.id, len(data), s.tls)
	if err != nil {
		return err
	}
	_, err = s.engine.ExecuteSend(ctx, cmdText(buf[:n]), data)
	return err
}

// Recv reads up to maxLen bytes from a Connected socket's receive buffer,
// returning whatever the modem had ready (which may be fewer bytes, or
// zero, without being an error).
func (s *Socket) Recv(ctx context.Context, maxLen int) ([]byte, error) {
	if err := s.requireConnected(); err != nil {
		return nil, err
	}
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatSocketRecv(buf[:], s.id, maxLen, s.tls)
	if err != nil {
		return nil, err
	}
	prefix := "+QIRD:"
	if s.tls {
		prefix = "+QSSLRECV:"
	}
	rsp, err := s.engine.Execute(ctx, at.Request{
		Cmd: cmdText(buf[:n]), Shape: celltok.MultiDataWoPrefix, Prefix: prefix,
	})
	if err != nil {
		return nil, err
	}
	return rsp.Raw, nil
}

// ReceiveStats queries the socket's buffered-byte counters without
// consuming any data. It requires Connected, per spec.md §4.6.
func (s *Socket) ReceiveStats(ctx context.Context) (celltypes.ReceiveStats, error) {
	if err := s.requireConnected(); err != nil {
		return celltypes.ReceiveStats{}, err
	}
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatSocketRecvStats(buf[:], s.id, s.tls)
	if err != nil {
		return celltypes.ReceiveStats{}, err
	}
	prefix := "+QIRD:"
	if s.tls {
		prefix = "+QSSLRECV:"
	}
	rsp, err := s.engine.Execute(ctx, at.Request{
		Cmd: cmdText(buf[:n]), Shape: celltok.WithPrefix, Prefix: prefix,
	})
	if err != nil {
		return celltypes.ReceiveStats{}, err
	}
	if len(rsp.Info) == 0 {
		return celltypes.ReceiveStats{}, errors.New("socket: no stats line in reply")
	}
	stats, ok := cellparse.ParseReceiveStats(rsp.Info[0], prefix)
	if !ok {
		return celltypes.ReceiveStats{}, errors.New("socket: malformed stats line")
	}
	return stats, nil
}

// SetSSLOption configures a single SSL context option ahead of Connect; it
// is only meaningful for TLS sockets but carries no state requirement of
// its own.
func (s *Socket) SetSSLOption(ctx context.Context, name string, numericValue uint32, stringValue string) error {
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatSetSSLOpt(buf[:], name, s.sslCtxID, numericValue, stringValue)
	if err != nil {
		return err
	}
	_, err = s.engine.Execute(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult})
	return err
}

// Close tears down the socket. It issues AT+QICLOSE/AT+QSSLCLOSE on any of
// {Connecting, Connected, Disconnected} and transitions to Closed on
// success. If removeOnError is set, the socket is forced to Closed even if
// the AT command fails — the only way to recover an orphaned socket id.
func (s *Socket) Close(ctx context.Context, removeOnError bool, timeoutSec int) error {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	if state == StateClosed {
		return ErrClosed
	}
	if state == StateAllocated {
		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()
		return nil
	}

	var buf [cellfmt.MaxCommandLen]byte
	var n int
	var err error
	if s.tls {
		n, err = cellfmt.FormatSocketCloseTLS(buf[:], s.id, timeoutSec)
	} else {
		n, err = cellfmt.FormatSocketClosePlain(buf[:], s.id, timeoutSec)
	}
	if err == nil {
		_, err = s.engine.Execute(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult})
	}

	if err != nil && !removeOnError {
		return err
	}
	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()
	return err
}

func (s *Socket) requireConnected() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateConnected:
		return nil
	case StateClosed, StateDisconnected:
		return ErrClosed
	default:
		return ErrNotConnected
	}
}

// DeliverOpenResult is called by the owning registry's URC dispatch
// goroutine when a "+QIOPEN:"/"+QSSLOPEN:" completion arrives for this
// socket's id. It is a no-op unless the socket is currently Connecting —
// Connect discards stale or duplicate deliveries rather than blocking the
// dispatcher.
func (s *Socket) DeliverOpenResult(errCode int) {
	s.mu.Lock()
	connecting := s.state == StateConnecting
	s.mu.Unlock()
	if !connecting {
		return
	}
	select {
	case s.opened <- errCode:
	default:
	}
}

// DeliverClosed is called by the owning registry when a "+QIURC:
// \"closed\",<id>" URC arrives for this socket's id, signalling the peer or
// network tore the connection down asynchronously.
func (s *Socket) DeliverClosed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateConnecting || s.state == StateConnected {
		s.state = StateDisconnected
	}
}

func cmdText(buf []byte) string {
	if len(buf) < 2 {
		return ""
	}
	return string(buf[2:])
}

