package cellular

import (
	"context"

	"github.com/binsentry/cellular-bg770/at"
	"github.com/binsentry/cellular-bg770/cellfmt"
	"github.com/binsentry/cellular-bg770/cellparse"
	"github.com/binsentry/cellular-bg770/celltok"
	"github.com/binsentry/cellular-bg770/celltypes"
)

// GetPsmSettings reads the 3GPP PSM settings via AT+QPSMS?.
func (h *Handle) GetPsmSettings(ctx context.Context) (celltypes.PSMSettings, error) {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: "+QPSMS?", Shape: celltok.WithPrefix, Prefix: "+QPSMS:"}, at.DefaultRetryPolicy)
	if err != nil {
		return celltypes.PSMSettings{}, translatePktStatus(err)
	}
	if len(rsp.Info) == 0 {
		return celltypes.PSMSettings{}, newErr(InternalFailure)
	}
	st, ok := cellparse.ParseQPSMS(rsp.Info[0], h.cfg.PSMTimerBase)
	if !ok {
		return celltypes.PSMSettings{}, newErr(InternalFailure)
	}
	return st, nil
}

// SetPsmSettings writes the 3GPP PSM settings via AT+QPSMS=.
func (h *Handle) SetPsmSettings(ctx context.Context, mode uint8, periodicTAU, activeTime uint32) error {
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatPSMSet(buf[:], mode, periodicTAU, activeTime)
	if err != nil {
		return wrapErr(BadParameter, err)
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return translatePktStatus(err)
}

// GetPsmConfigSettings reads Quectel's extended PSM knobs via AT+QPSMCFG?.
func (h *Handle) GetPsmConfigSettings(ctx context.Context) (celltypes.PSMSettings, error) {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: "+QPSMCFG?", Shape: celltok.WithPrefix, Prefix: "+QPSMCFG:"}, at.DefaultRetryPolicy)
	if err != nil {
		return celltypes.PSMSettings{}, translatePktStatus(err)
	}
	if len(rsp.Info) == 0 {
		return celltypes.PSMSettings{}, newErr(InternalFailure)
	}
	st, ok := cellparse.ParseQPSMCFG(rsp.Info[0], h.cfg.PSMTimerBase)
	if !ok {
		return celltypes.PSMSettings{}, newErr(InternalFailure)
	}
	return st, nil
}

// SetPsmConfigSettings writes Quectel's extended PSM knobs via AT+QPSMCFG=.
func (h *Handle) SetPsmConfigSettings(ctx context.Context, mode uint8, rau, ready, tau, active uint32) error {
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatPSMConfigSet(buf[:], mode, rau, ready, tau, active)
	if err != nil {
		return wrapErr(BadParameter, err)
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return translatePktStatus(err)
}

// SetPSMEntry forces an immediate PSM-entry policy change via AT+QPSMS=
// mode-only form.
func (h *Handle) SetPSMEntry(ctx context.Context, mode uint8) error {
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatPSMEntry(buf[:], mode)
	if err != nil {
		return wrapErr(BadParameter, err)
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return translatePktStatus(err)
}

// PowerDown issues AT+QPOWD=<mode> to request an orderly (or immediate)
// power-down. The caller should treat the Handle as invalid once this
// returns, per spec.md's modem-handle lifecycle.
func (h *Handle) PowerDown(ctx context.Context, mode uint8) error {
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatPowerDown(buf[:], mode)
	if err != nil {
		return wrapErr(BadParameter, err)
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return translatePktStatus(err)
}
