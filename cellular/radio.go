package cellular

import (
	"context"

	"github.com/binsentry/cellular-bg770/at"
	"github.com/binsentry/cellular-bg770/band"
	"github.com/binsentry/cellular-bg770/cellfmt"
	"github.com/binsentry/cellular-bg770/cellparse"
	"github.com/binsentry/cellular-bg770/celltok"
	"github.com/binsentry/cellular-bg770/celltypes"
)

// GetSignalInfo reports signal quality via AT+QCSQ, falling back to the
// coarser AT+CSQ if QCSQ is not answered with a usable line.
func (h *Handle) GetSignalInfo(ctx context.Context) (celltypes.SignalInfo, error) {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: "+QCSQ", Shape: celltok.WithPrefix, Prefix: "+QCSQ:"}, at.DefaultRetryPolicy)
	if err == nil && len(rsp.Info) > 0 {
		if info, ok := cellparse.ParseQCSQ(rsp.Info[0]); ok {
			return info, nil
		}
	}
	rsp, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: "+CSQ", Shape: celltok.WithPrefix, Prefix: "+CSQ:"}, at.DefaultRetryPolicy)
	if err != nil {
		return celltypes.InvalidSignalInfo, translatePktStatus(err)
	}
	if len(rsp.Info) == 0 {
		return celltypes.InvalidSignalInfo, newErr(InternalFailure)
	}
	info, ok := cellparse.ParseCSQ(rsp.Info[0])
	if !ok {
		return celltypes.InvalidSignalInfo, newErr(InternalFailure)
	}
	return info, nil
}

// GetLTENetworkInfo reports the currently camped cell via AT+QNWINFO.
func (h *Handle) GetLTENetworkInfo(ctx context.Context) (celltypes.NetworkInfo, error) {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: "+QNWINFO", Shape: celltok.WithPrefix, Prefix: "+QNWINFO:"}, at.DefaultRetryPolicy)
	if err != nil {
		return celltypes.NetworkInfo{}, translatePktStatus(err)
	}
	if len(rsp.Info) == 0 {
		return celltypes.NetworkInfo{}, newErr(InternalFailure)
	}
	info, ok := cellparse.ParseQNWINFO(rsp.Info[0])
	if !ok {
		return celltypes.NetworkInfo{}, newErr(InternalFailure)
	}
	return info, nil
}

// GetServiceSelection reads the current PLMN selection via AT+COPS?.
func (h *Handle) GetServiceSelection(ctx context.Context) (celltypes.ServiceSelection, error) {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: "+COPS?", Shape: celltok.WithPrefix, Prefix: "+COPS:"}, at.DefaultRetryPolicy)
	if err != nil {
		return celltypes.ServiceSelection{}, translatePktStatus(err)
	}
	if len(rsp.Info) == 0 {
		return celltypes.ServiceSelection{}, newErr(InternalFailure)
	}
	sel, ok := cellparse.ParseCOPS(rsp.Info[0])
	if !ok {
		return celltypes.ServiceSelection{}, newErr(InternalFailure)
	}
	return sel, nil
}

// SetServiceSelection writes a PLMN selection via AT+COPS=.
func (h *Handle) SetServiceSelection(ctx context.Context, mode uint8, format celltypes.OperatorFormat, operator string, rat celltypes.RAT) error {
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatServiceSelectionSet(buf[:], mode, format, operator, rat)
	if err != nil {
		return wrapErr(NoMemory, err)
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return translatePktStatus(err)
}

// GetRatPriority reads the AT+QCFG="nwscanseq" RAT scan order.
func (h *Handle) GetRatPriority(ctx context.Context) (celltypes.RATTriple, error) {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: `+QCFG="nwscanseq"`, Shape: celltok.WithPrefix, Prefix: "+QCFG:"}, at.DefaultRetryPolicy)
	if err != nil {
		return celltypes.RATTriple{}, translatePktStatus(err)
	}
	if len(rsp.Info) == 0 {
		return celltypes.RATTriple{}, newErr(InternalFailure)
	}
	seq, ok := cellparse.ParseNwscanseq(rsp.Info[0])
	if !ok {
		return celltypes.RATTriple{}, newErr(InternalFailure)
	}
	return seq, nil
}

// SetRatPriority writes the AT+QCFG="nwscanseq" RAT scan order, applying
// immediately.
func (h *Handle) SetRatPriority(ctx context.Context, seq celltypes.RATTriple) error {
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatNwscanseqSet(buf[:], seq, true)
	if err != nil {
		return wrapErr(BadParameter, err)
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return translatePktStatus(err)
}

// GetLTEFrequencyBands reads the AT+QCFG="band" LTE band mask.
func (h *Handle) GetLTEFrequencyBands(ctx context.Context) (band.Mask, error) {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: `+QCFG="band"`, Shape: celltok.WithPrefix, Prefix: "+QCFG:"}, at.DefaultRetryPolicy)
	if err != nil {
		return band.Mask{}, translatePktStatus(err)
	}
	if len(rsp.Info) == 0 {
		return band.Mask{}, newErr(InternalFailure)
	}
	m, ok := cellparse.ParseBandConfig(rsp.Info[0])
	if !ok {
		return band.Mask{}, newErr(InternalFailure)
	}
	return m, nil
}

// SetLTEFrequencyBands filters requested against the supported-band mask
// (spec.md §4.9) and writes it via AT+QCFG="band". A filtered mask that
// becomes all-zero is rejected as BadParameter.
func (h *Handle) SetLTEFrequencyBands(ctx context.Context, requested band.Mask) (cleared bool, err error) {
	filtered, cleared := band.Filter(requested)
	if filtered.IsZero() {
		return cleared, newErr(BadParameter)
	}
	var buf [cellfmt.MaxCommandLen]byte
	n, ferr := cellfmt.FormatBandSet(buf[:], filtered)
	if ferr != nil {
		return cleared, wrapErr(NoMemory, ferr)
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return cleared, translatePktStatus(err)
}

// GetBandScanPriorityList reads the AT+QCFG="lte/bandprior" ordered list.
func (h *Handle) GetBandScanPriorityList(ctx context.Context) ([]int, error) {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: `+QCFG="lte/bandprior"`, Shape: celltok.WithPrefix, Prefix: "+QCFG:"}, at.DefaultRetryPolicy)
	if err != nil {
		return nil, translatePktStatus(err)
	}
	if len(rsp.Info) == 0 {
		return nil, newErr(InternalFailure)
	}
	list, ok := cellparse.ParseBandPriority(rsp.Info[0])
	if !ok {
		return nil, newErr(InternalFailure)
	}
	return list, nil
}

// SetBandScanPriorityList writes the AT+QCFG="lte/bandprior" ordered list.
func (h *Handle) SetBandScanPriorityList(ctx context.Context, bands []int) error {
	if len(bands) > cellparse.MaxBandPriorityLen {
		return newErr(BadParameter)
	}
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatBandPrioritySet(buf[:], bands)
	if err != nil {
		return wrapErr(NoMemory, err)
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return translatePktStatus(err)
}

// GetNetworkOperatorMode reads the AT+QCFG="nwoper" carrier-specific
// operator profile.
func (h *Handle) GetNetworkOperatorMode(ctx context.Context) (celltypes.NetworkOperatorConfig, error) {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: `+QCFG="nwoper"`, Shape: celltok.WithPrefix, Prefix: "+QCFG:"}, at.DefaultRetryPolicy)
	if err != nil {
		return celltypes.NetworkOperatorConfig{}, translatePktStatus(err)
	}
	if len(rsp.Info) == 0 {
		return celltypes.NetworkOperatorConfig{}, newErr(InternalFailure)
	}
	cfg, ok := cellparse.ParseNwoper(rsp.Info[0])
	if !ok {
		return celltypes.NetworkOperatorConfig{}, newErr(InternalFailure)
	}
	return cfg, nil
}

// SetNetworkOperatorMode writes the AT+QCFG="nwoper" carrier-specific
// operator profile.
func (h *Handle) SetNetworkOperatorMode(ctx context.Context, mode celltypes.NetworkOperatorMode) error {
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatNwoperSet(buf[:], mode)
	if err != nil {
		return wrapErr(BadParameter, err)
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return translatePktStatus(err)
}
