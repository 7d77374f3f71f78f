package cellparse

import (
	"strconv"

	"github.com/binsentry/cellular-bg770/celltypes"
)

// DefaultPSMTimerBase is the default radix for the PSM timer fields.
// spec.md §9 documents the wire format as 8-character binary strings but
// flags the base as an open question across firmware families; callers
// that have confirmed their firmware reports base-10 strings instead can
// pass 10 to ParseQPSMS/ParseQPSMCFG.
const DefaultPSMTimerBase = 2

// ParseQPSMS parses a "+QPSMS:" line: mode, then four timer fields
// (two reserved/unsupported, periodic-TAU, active-time) each parsed with
// base. On malformed input all fields are zeroed.
func ParseQPSMS(line string, base int) (celltypes.PSMSettings, bool) {
	var invalid celltypes.PSMSettings
	body, ok := stripPrefix(line, "+QPSMS:")
	if !ok {
		return invalid, false
	}
	tok := splitFields(body)
	if len(tok) < 1 {
		return invalid, false
	}
	mode, err := strconv.ParseUint(tok[0], 10, 8)
	if err != nil {
		return invalid, false
	}
	out := celltypes.PSMSettings{Mode: uint8(mode)}
	if len(tok) < 5 {
		// mode-only response: timers left zeroed.
		return out, true
	}
	rau, ok1 := parseTimerField(tok[1], base)
	ready, ok2 := parseTimerField(tok[2], base)
	tau, ok3 := parseTimerField(tok[3], base)
	active, ok4 := parseTimerField(tok[4], base)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return invalid, false
	}
	out.PeriodicRAU = rau
	out.GPRSReadyTimer = ready
	out.PeriodicTAU = tau
	out.ActiveTime = active
	return out, true
}

// ParseQPSMCFG parses a "+QPSMCFG:" line with the same field layout as
// +QPSMS.
func ParseQPSMCFG(line string, base int) (celltypes.PSMSettings, bool) {
	var invalid celltypes.PSMSettings
	body, ok := stripPrefix(line, "+QPSMCFG:")
	if !ok {
		return invalid, false
	}
	tok := splitFields(body)
	if len(tok) < 1 {
		return invalid, false
	}
	mode, err := strconv.ParseUint(tok[0], 10, 8)
	if err != nil {
		return invalid, false
	}
	out := celltypes.PSMSettings{Mode: uint8(mode)}
	if len(tok) < 5 {
		return out, true
	}
	rau, ok1 := parseTimerField(tok[1], base)
	ready, ok2 := parseTimerField(tok[2], base)
	tau, ok3 := parseTimerField(tok[3], base)
	active, ok4 := parseTimerField(tok[4], base)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return invalid, false
	}
	out.PeriodicRAU = rau
	out.GPRSReadyTimer = ready
	out.PeriodicTAU = tau
	out.ActiveTime = active
	return out, true
}

// parseTimerField parses a single PSM timer token. An empty token (the
// formatter's representation of an absent field, per spec.md S6) parses
// as zero.
func parseTimerField(tok string, base int) (uint32, bool) {
	if tok == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(tok, base, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}
