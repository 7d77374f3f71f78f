package cellular

import (
	"context"

	"github.com/binsentry/cellular-bg770/cellfmt"
	"github.com/binsentry/cellular-bg770/celltypes"
	"github.com/binsentry/cellular-bg770/socket"
)

// SocketOpen allocates a socket handle in the lowest free index and opens
// it against ip:port over ctxID. tls selects AT+QSSLOPEN (sslCtxID names
// the TLS security context) over plain AT+QIOPEN.
func (h *Handle) SocketOpen(ctx context.Context, ctxID int, proto cellfmt.Protocol, ip string, port, localPort uint16, tls bool, sslCtxID int) (*socket.Socket, error) {
	tlsProto := tls || proto == cellfmt.ProtocolTLS
	s, cerr := h.newSocket(tlsProto, ctxID, sslCtxID)
	if cerr != nil {
		return nil, cerr
	}
	if err := s.Connect(ctx, ip, port, localPort, cellfmt.AccessModeBuffer); err != nil {
		h.freeSocket(s.ID())
		return nil, translatePktStatus(err)
	}
	return s, nil
}

// SocketSend writes data to an already-connected socket.
func (h *Handle) SocketSend(ctx context.Context, s *socket.Socket, data []byte) error {
	return translatePktStatus(s.Send(ctx, data))
}

// SocketRecv reads up to maxLen bytes from a connected socket's receive
// buffer.
func (h *Handle) SocketRecv(ctx context.Context, s *socket.Socket, maxLen int) ([]byte, error) {
	data, err := s.Recv(ctx, maxLen)
	return data, translatePktStatus(err)
}

// GetSocketReceiveStats reports the socket's total/read/unread byte
// counters.
func (h *Handle) GetSocketReceiveStats(ctx context.Context, s *socket.Socket) (celltypes.ReceiveStats, error) {
	st, err := s.ReceiveStats(ctx)
	return st, translatePktStatus(err)
}

// SocketSetSSLOpt sets one AT+QSSLCFG option on a TLS socket's security
// context.
func (h *Handle) SocketSetSSLOpt(ctx context.Context, s *socket.Socket, name string, numericValue uint32, stringValue string) error {
	return translatePktStatus(s.SetSSLOption(ctx, name, numericValue, stringValue))
}

// GetSocketLastResultCode reports the last AT+QIOPEN/AT+QSSLOPEN result
// code observed for s, 0 meaning success or "none yet".
func (h *Handle) GetSocketLastResultCode(s *socket.Socket) int {
	return s.LastResultCode()
}

// SocketClose closes s, optionally forcing it to the Closed/removed state
// even if the AT close command itself fails, and frees its slot in the
// registry once closed.
func (h *Handle) SocketClose(ctx context.Context, s *socket.Socket, removeOnError bool, timeoutSec int) error {
	err := s.Close(ctx, removeOnError, timeoutSec)
	if s.State() == socket.StateClosed {
		h.freeSocket(s.ID())
	}
	return translatePktStatus(err)
}
