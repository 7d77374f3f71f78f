package cellular

import (
	"context"

	"github.com/binsentry/cellular-bg770/at"
	"github.com/binsentry/cellular-bg770/cellparse"
	"github.com/binsentry/cellular-bg770/celltok"
	"github.com/binsentry/cellular-bg770/celltypes"
)

// GetSimCardStatus reports the SIM's PIN/PUK lock state via AT+CPIN?.
func (h *Handle) GetSimCardStatus(ctx context.Context) (celltypes.SimLockState, error) {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: "+CPIN?", Shape: celltok.WithPrefix, Prefix: "+CPIN:"}, at.DefaultRetryPolicy)
	if err != nil {
		return celltypes.SimLockUnknown, translatePktStatus(err)
	}
	if len(rsp.Info) == 0 {
		return celltypes.SimLockUnknown, newErr(InternalFailure)
	}
	state, ok := cellparse.ParseCPIN(rsp.Info[0])
	if !ok {
		return celltypes.SimLockUnknown, newErr(InternalFailure)
	}
	return state, nil
}

// GetSimCardInfo reads the HPLMN (home network MCC/MNC) out of the SIM's
// EFHPLMNwAcT file via AT+CRSM.
func (h *Handle) GetSimCardInfo(ctx context.Context) (celltypes.HPLMNInfo, error) {
	const cmd = `+CRSM=176,28514,0,0,0`
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: cmd, Shape: celltok.WithPrefix, Prefix: "+CRSM:"}, at.DefaultRetryPolicy)
	if err != nil {
		return celltypes.HPLMNInfo{}, translatePktStatus(err)
	}
	if len(rsp.Info) == 0 {
		return celltypes.HPLMNInfo{}, newErr(InternalFailure)
	}
	info, ok := cellparse.ParseCRSMHPLMN(rsp.Info[0])
	if !ok {
		return celltypes.HPLMNInfo{}, newErr(InternalFailure)
	}
	return info, nil
}
