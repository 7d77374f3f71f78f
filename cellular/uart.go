package cellular

import (
	"context"

	"github.com/binsentry/cellular-bg770/at"
	"github.com/binsentry/cellular-bg770/cellfmt"
	"github.com/binsentry/cellular-bg770/cellparse"
	"github.com/binsentry/cellular-bg770/celltok"
	"github.com/binsentry/cellular-bg770/celltypes"
)

// GetModuleFlowControlSetting reads the UART flow-control mode via
// AT+IFC?.
func (h *Handle) GetModuleFlowControlSetting(ctx context.Context) (celltypes.FlowControl, error) {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: "+IFC?", Shape: celltok.WithPrefix, Prefix: "+IFC:"}, at.DefaultRetryPolicy)
	if err != nil {
		return celltypes.FlowControlUnknown, translatePktStatus(err)
	}
	if len(rsp.Info) == 0 {
		return celltypes.FlowControlUnknown, newErr(InternalFailure)
	}
	fc, ok := cellparse.ParseIFC(rsp.Info[0])
	if !ok {
		return celltypes.FlowControlUnknown, newErr(InternalFailure)
	}
	return fc, nil
}

// SetModuleFlowControlSetting writes the UART flow-control mode via
// AT+IFC=.
func (h *Handle) SetModuleFlowControlSetting(ctx context.Context, fc celltypes.FlowControl) error {
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatFlowControlSet(buf[:], fc)
	if err != nil {
		return wrapErr(BadParameter, err)
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return translatePktStatus(err)
}

// GetModuleBaudRateSetting reads the UART baud rate via AT+IPR?.
func (h *Handle) GetModuleBaudRateSetting(ctx context.Context) (uint32, error) {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: "+IPR?", Shape: celltok.WithPrefix, Prefix: "+IPR:"}, at.DefaultRetryPolicy)
	if err != nil {
		return 0, translatePktStatus(err)
	}
	if len(rsp.Info) == 0 {
		return 0, newErr(InternalFailure)
	}
	baud, ok := cellparse.ParseIPR(rsp.Info[0])
	if !ok {
		return 0, newErr(InternalFailure)
	}
	return baud, nil
}

// SetModuleBaudRateSetting writes the UART baud rate via AT+IPR=. The new
// rate only takes effect once the host reconfigures its own serial port to
// match.
func (h *Handle) SetModuleBaudRateSetting(ctx context.Context, baud uint32) error {
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatBaudRateSet(buf[:], baud)
	if err != nil {
		return wrapErr(BadParameter, err)
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return translatePktStatus(err)
}
