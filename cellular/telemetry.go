package cellular

import (
	"context"

	"github.com/binsentry/cellular-bg770/at"
	"github.com/binsentry/cellular-bg770/cellparse"
	"github.com/binsentry/cellular-bg770/celltok"
	"github.com/binsentry/cellular-bg770/celltypes"
)

// GetModemTemperatures reads the PMIC/PA/board temperature sensors via
// AT+QTEMP.
func (h *Handle) GetModemTemperatures(ctx context.Context) (celltypes.Temperatures, error) {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: "+QTEMP", Shape: celltok.WithPrefix, Prefix: "+QTEMP:"}, at.DefaultRetryPolicy)
	if err != nil {
		invalid := celltypes.Temperatures{PMIC: celltypes.Invalid, PA: celltypes.Invalid, Board: celltypes.Invalid}
		return invalid, translatePktStatus(err)
	}
	if len(rsp.Info) == 0 {
		return celltypes.Temperatures{}, newErr(InternalFailure)
	}
	t, ok := cellparse.ParseQTEMP(rsp.Info[0])
	if !ok {
		return celltypes.Temperatures{}, newErr(InternalFailure)
	}
	return t, nil
}
