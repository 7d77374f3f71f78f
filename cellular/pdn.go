package cellular

import (
	"context"

	"github.com/binsentry/cellular-bg770/at"
	"github.com/binsentry/cellular-bg770/cellfmt"
	"github.com/binsentry/cellular-bg770/cellparse"
	"github.com/binsentry/cellular-bg770/celltok"
	"github.com/binsentry/cellular-bg770/celltypes"
)

// GetPdnConfig reads a PDP context's APN/credentials via AT+QICSGP?.
func (h *Handle) GetPdnConfig(ctx context.Context, ctxID int) (celltypes.PdnConfig, error) {
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatPdnConfigGet(buf[:], ctxID)
	if err != nil {
		return celltypes.PdnConfig{}, wrapErr(BadParameter, err)
	}
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.WithPrefix, Prefix: "+QICSGP:"}, at.DefaultRetryPolicy)
	if err != nil {
		return celltypes.PdnConfig{}, translatePktStatus(err)
	}
	if len(rsp.Info) == 0 {
		return celltypes.PdnConfig{}, newErr(InternalFailure)
	}
	cfg, ok := cellparse.ParseQICSGP(rsp.Info[0])
	if !ok {
		return celltypes.PdnConfig{}, newErr(InternalFailure)
	}
	return cfg, nil
}

// SetPdnConfig writes a PDP context's APN/credentials via AT+QICSGP=.
func (h *Handle) SetPdnConfig(ctx context.Context, ctxID int, cfg celltypes.PdnConfig) error {
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatPdnConfigSet(buf[:], ctxID, cfg)
	if err != nil {
		return wrapErr(BadParameter, err)
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return translatePktStatus(err)
}

// ActivatePdn brings up ctxID's PDP context via AT+QIACT=.
func (h *Handle) ActivatePdn(ctx context.Context, ctxID int) error {
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatPdnActivate(buf[:], ctxID)
	if err != nil {
		return wrapErr(BadParameter, err)
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return translatePktStatus(err)
}

// DeactivatePdn tears down ctxID's PDP context via AT+QIDEACT=.
func (h *Handle) DeactivatePdn(ctx context.Context, ctxID int) error {
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatPdnDeactivate(buf[:], ctxID)
	if err != nil {
		return wrapErr(BadParameter, err)
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return translatePktStatus(err)
}

// GetPdnStatus reads every active PDP context via AT+QIACT?, which can
// answer with one line per context. Lines that fail to parse (including
// the deliberately-unsupported IPv4v6 context type) are skipped rather than
// failing the whole call, and the lines after them are still read. The
// returned slice holds only the records that parsed; it carries no
// celltypes.PdnContextUnused sentinel entry.
func (h *Handle) GetPdnStatus(ctx context.Context) ([]celltypes.PdnStatus, error) {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: "+QIACT?", Shape: celltok.WithPrefix, Prefix: "+QIACT:"}, at.DefaultRetryPolicy)
	if err != nil {
		return nil, translatePktStatus(err)
	}
	out := make([]celltypes.PdnStatus, 0, len(rsp.Info))
	for _, line := range rsp.Info {
		st, ok := cellparse.ParsePdnStatus(line)
		if !ok {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

// SetDns writes the manually-configured DNS servers for ctxID via
// AT+QIDNSCFG=.
func (h *Handle) SetDns(ctx context.Context, ctxID int, primary, secondary string) error {
	var buf [cellfmt.MaxCommandLen]byte
	n, err := cellfmt.FormatSetDNS(buf[:], ctxID, primary, secondary)
	if err != nil {
		return wrapErr(BadParameter, err)
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return translatePktStatus(err)
}

// GetHostByName resolves hostname over ctxID's PDP context, delegating to
// the dnsresolve.Resolver the way spec.md §4.7 describes.
func (h *Handle) GetHostByName(ctx context.Context, hostname string) (string, error) {
	ip, err := h.dns.Resolve(ctx, hostname)
	if err != nil {
		return "", translatePktStatus(err)
	}
	return ip, nil
}
