package cellular

import (
	"context"
	"time"

	"github.com/binsentry/cellular-bg770/at"
	"github.com/binsentry/cellular-bg770/cellfmt"
	"github.com/binsentry/cellular-bg770/cellparse"
	"github.com/binsentry/cellular-bg770/celltok"
	"github.com/binsentry/cellular-bg770/celltypes"
)

// appReadySettle is the empirical settling delay spec.md §4.8 step 1
// applies after the APP RDY URC, before the modem will reliably answer AT.
const appReadySettle = 5 * time.Second

// EnableUE runs the eleven-step module enablement sequence from spec.md
// §4.8: deterministic, ordered, read-before-write, and idempotent — each
// step only issues a write when the modem's current setting differs from
// the target, so a second call after a successful first is a cheap no-op
// save for the one-shot URC-enable commands at the end. It returns early,
// with FullInitSkipped recorded, after a flow-control write if
// Config.SkipPostHWFlowControlSetupIfChanged is set: the caller must
// re-invoke EnableUE once the UART has reconfigured to match.
func EnableUE(ctx context.Context, h *Handle) error {
	if h.cfg.EnableTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.EnableTimeout)
		defer cancel()
	}
	if err := stepWaitAppReady(ctx, h); err != nil {
		return translatePktStatus(err)
	}
	if err := stepProbeAT(ctx, h); err != nil {
		return translatePktStatus(err)
	}
	if err := stepEchoOff(ctx, h); err != nil {
		return translatePktStatus(err)
	}
	if err := stepDisableDTR(ctx, h); err != nil {
		return translatePktStatus(err)
	}
	skip, err := stepFlowControl(ctx, h)
	if err != nil {
		return translatePktStatus(err)
	}
	if skip {
		h.fullInit = fullInitSkipped
		return nil
	}
	if err := stepCFUN(ctx, h); err != nil {
		return translatePktStatus(err)
	}
	if err := stepURCPort(ctx, h); err != nil {
		return translatePktStatus(err)
	}
	if err := stepIoTOpMode(ctx, h); err != nil {
		return translatePktStatus(err)
	}
	if err := stepNwscanseq(ctx, h); err != nil {
		return translatePktStatus(err)
	}
	if err := stepLwm2m(ctx, h); err != nil {
		return translatePktStatus(err)
	}
	stepEnableURCs(ctx, h)
	h.fullInit = fullInitCompleted
	return nil
}

// stepWaitAppReady blocks for the APP RDY URC (see Handle.dispatchAppReady)
// for up to 10s, then sleeps the empirical settling delay. If APP RDY was
// already observed by an earlier EnableUE call, the wait returns
// immediately since appReady is a closed-once channel.
func stepWaitAppReady(ctx context.Context, h *Handle) error {
	select {
	case <-h.appReady:
	case <-time.After(10 * time.Second):
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-time.After(appReadySettle):
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func stepProbeAT(ctx context.Context, h *Handle) error {
	_, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: "", Shape: celltok.NoResult}, at.RetryPolicy{MaxAttempts: 4, BaseDelay: 100 * time.Millisecond})
	return err
}

// stepEchoOff issues ATE0. Shape is Multi-without-prefix per spec.md §4.8
// step 3: echo may still be on for this very command, so the engine must
// tolerate the echoed "ATE0" line arriving before the final OK.
func stepEchoOff(ctx context.Context, h *Handle) error {
	_, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: "E0", Shape: celltok.MultiWoPrefix}, at.DefaultRetryPolicy)
	return err
}

func stepDisableDTR(ctx context.Context, h *Handle) error {
	_, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: "&D0", Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return err
}

// stepFlowControl reads +IFC and, if it is not already {RTS+CTS,RTS+CTS},
// writes it. It reports skip=true when a write happened and the caller has
// asked to short-circuit the sequence at that point.
func stepFlowControl(ctx context.Context, h *Handle) (skip bool, err error) {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: "+IFC?", Shape: celltok.WithPrefix, Prefix: "+IFC:"}, at.DefaultRetryPolicy)
	if err != nil {
		return false, err
	}
	cur := celltypes.FlowControlUnknown
	if len(rsp.Info) > 0 {
		if fc, ok := cellparse.ParseIFC(rsp.Info[0]); ok {
			cur = fc
		}
	}
	if cur == celltypes.FlowControlRTSCTS {
		return false, nil
	}
	var buf [cellfmt.MaxCommandLen]byte
	n, ferr := cellfmt.FormatFlowControlSet(buf[:], celltypes.FlowControlRTSCTS)
	if ferr != nil {
		return false, ferr
	}
	if _, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy); err != nil {
		return false, err
	}
	return h.cfg.SkipPostHWFlowControlSetupIfChanged, nil
}

func stepCFUN(ctx context.Context, h *Handle) error {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: "+CFUN?", Shape: celltok.WithPrefix, Prefix: "+CFUN:"}, at.DefaultRetryPolicy)
	if err != nil {
		return err
	}
	cur := celltypes.CFUNUnknown
	if len(rsp.Info) > 0 {
		if v, ok := cellparse.ParseCFUN(rsp.Info[0]); ok {
			cur = v
		}
	}
	if cur == celltypes.CFUNSIMOnly {
		return nil
	}
	var buf [cellfmt.MaxCommandLen]byte
	n, ferr := cellfmt.FormatCFUNSet(buf[:], celltypes.CFUNSIMOnly)
	if ferr != nil {
		return ferr
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return err
}

func stepURCPort(ctx context.Context, h *Handle) error {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: `+QURCCFG="urcport"`, Shape: celltok.WithPrefix, Prefix: "+QURCCFG:"}, at.DefaultRetryPolicy)
	if err != nil {
		return err
	}
	cur := celltypes.URCPortUnknown
	if len(rsp.Info) > 0 {
		if v, ok := cellparse.ParseURCPort(rsp.Info[0]); ok {
			cur = v
		}
	}
	target := h.cfg.URCPort
	if target == celltypes.URCPortUnknown {
		target = celltypes.URCPortMain
	}
	if cur == target {
		return nil
	}
	var buf [cellfmt.MaxCommandLen]byte
	n, ferr := cellfmt.FormatURCPortSet(buf[:], target)
	if ferr != nil {
		return ferr
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return err
}

func stepIoTOpMode(ctx context.Context, h *Handle) error {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: `+QCFG="iotopmode"`, Shape: celltok.WithPrefix, Prefix: "+QCFG:"}, at.DefaultRetryPolicy)
	if err != nil {
		return err
	}
	cur := celltypes.IoTOpModeBoth
	if len(rsp.Info) > 0 {
		if v, ok := cellparse.ParseIoTOpMode(rsp.Info[0]); ok {
			cur = v
		}
	}
	if cur == celltypes.IoTOpModeEMTC {
		return nil
	}
	var buf [cellfmt.MaxCommandLen]byte
	n, ferr := cellfmt.FormatIoTOpModeSet(buf[:], celltypes.IoTOpModeEMTC, true)
	if ferr != nil {
		return ferr
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return err
}

// stepNwscanseq reads +QCFG="nwscanseq" and compares it to the configured
// default RAT scan sequence on its non-invalid prefix only (RATTriple.Equal),
// per spec.md §3's prefix-equivalence rule: a shorter configured sequence
// matches a modem value that agrees on every entry it specifies.
func stepNwscanseq(ctx context.Context, h *Handle) error {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: `+QCFG="nwscanseq"`, Shape: celltok.WithPrefix, Prefix: "+QCFG:"}, at.DefaultRetryPolicy)
	if err != nil {
		return err
	}
	var cur celltypes.RATTriple
	if len(rsp.Info) > 0 {
		if v, ok := cellparse.ParseNwscanseq(rsp.Info[0]); ok {
			cur = v
		}
	}
	if cur.Equal(h.cfg.DefaultRAT) {
		return nil
	}
	var buf [cellfmt.MaxCommandLen]byte
	n, ferr := cellfmt.FormatNwscanseqSet(buf[:], h.cfg.DefaultRAT, true)
	if ferr != nil {
		return ferr
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return err
}

func stepLwm2m(ctx context.Context, h *Handle) error {
	rsp, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: `+QCFG="lwm2m"`, Shape: celltok.WithPrefix, Prefix: "+QCFG:"}, at.DefaultRetryPolicy)
	if err != nil {
		return err
	}
	enabled := false
	if len(rsp.Info) > 0 {
		if v, ok := cellparse.ParseLwm2m(rsp.Info[0]); ok {
			enabled = v
		}
	}
	if !enabled {
		return nil
	}
	var buf [cellfmt.MaxCommandLen]byte
	n, ferr := cellfmt.FormatLwm2mSet(buf[:], false)
	if ferr != nil {
		return ferr
	}
	_, err = h.ExecuteWithRetry(ctx, at.Request{Cmd: cmdText(buf[:n]), Shape: celltok.NoResult}, at.DefaultRetryPolicy)
	return err
}

// stepEnableURCs fires the one-shot, fire-and-forget registration/timezone/
// PSM URC-enable commands spec.md §4.8 lists after the main sequence. A
// failure here is logged, not fatal: the modem is already usable.
func stepEnableURCs(ctx context.Context, h *Handle) {
	cmds := []string{`+COPS=3,2`, `+CREG=2`, `+CEREG=2`, `+CTZR=1`, `+QCFG="psm/urc",1`}
	for _, cmd := range cmds {
		if _, err := h.ExecuteWithRetry(ctx, at.Request{Cmd: cmd, Shape: celltok.NoResult}, at.DefaultRetryPolicy); err != nil {
			h.cfg.Logger.Printf("cellular: one-shot URC enable %q failed: %v", cmd, err)
		}
	}
}

func cmdText(buf []byte) string {
	if len(buf) < 2 {
		return ""
	}
	return string(buf[2:])
}
