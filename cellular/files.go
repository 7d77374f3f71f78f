package cellular

import (
	"context"

	"github.com/binsentry/cellular-bg770/at"
	"github.com/binsentry/cellular-bg770/cellfmt"
	"github.com/binsentry/cellular-bg770/cellparse"
	"github.com/binsentry/cellular-bg770/celltok"
	"github.com/binsentry/cellular-bg770/celltypes"
)

// UploadFileToModem writes data to the modem's filesystem under name via
// the AT+QFUPL prompt-then-binary-payload dance, the same send-prompt
// protocol socket.Socket.Send drives for +QISEND. Unlike +QISEND, +QFUPL's
// completion line carries the accepted length and checksum, so this calls
// Execute directly with a WithPrefix shape rather than the no-result
// at.Engine.ExecuteSend helper.
func (h *Handle) UploadFileToModem(ctx context.Context, name string, data []byte, timeoutSec int) (celltypes.FileUploadResult, error) {
	if h.cfg.MaxFileUploadSize > 0 && len(data) > h.cfg.MaxFileUploadSize {
		return celltypes.FileUploadResult{}, newErr(BadParameter)
	}
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatFileUploadHeader(buf[:], name, len(data), timeoutSec)
	if err != nil {
		return celltypes.FileUploadResult{}, wrapErr(NoMemory, err)
	}
	rsp, err := h.Execute(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.WithPrefix, Prefix: "+QFUPL:", SendPayload: data})
	if err != nil {
		return celltypes.FileUploadResult{}, translatePktStatus(err)
	}
	for _, line := range rsp.Info {
		if res, ok := cellparse.ParseQFUPL(line); ok {
			return res, nil
		}
	}
	return celltypes.FileUploadResult{}, newErr(FileUploadFailure)
}

// DeleteFileOnModem removes name from the modem's filesystem via
// AT+QFDEL=.
func (h *Handle) DeleteFileOnModem(ctx context.Context, name string) error {
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatFileDelete(buf[:], name)
	if err != nil {
		return wrapErr(NoMemory, err)
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return translatePktStatus(err)
}

// GetModemFileCRC32 reads name's CRC32/CRC16/CRC16-CCITT via AT+QFCRC=.
func (h *Handle) GetModemFileCRC32(ctx context.Context, name string) (celltypes.FileCRC, error) {
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatFileCRC(buf[:], name)
	if err != nil {
		return celltypes.FileCRC{}, wrapErr(NoMemory, err)
	}
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.WithPrefix, Prefix: "+QFCRC:"}, at.DefaultRetryPolicy)
	if err != nil {
		return celltypes.FileCRC{}, translatePktStatus(err)
	}
	if len(rsp.Info) == 0 {
		return celltypes.FileCRC{}, newErr(InternalFailure)
	}
	crc, ok := cellparse.ParseQFCRC(rsp.Info[0])
	if !ok {
		return celltypes.FileCRC{}, newErr(InternalFailure)
	}
	return crc, nil
}
