package cellparse

import (
	"strconv"

	"github.com/binsentry/cellular-bg770/celltypes"
)

// MaxContextID is the highest valid PDP context-id on this variant.
const MaxContextID = 16

// ParsePdnStatus parses one "+QIACT:" line: context-id, state, type, IP
// address. CELLULAR_PDN_CONTEXT_IPV4V6 is rejected (spec.md §9 open
// question, resolved to Unsupported rather than silently coerced).
func ParsePdnStatus(line string) (celltypes.PdnStatus, bool) {
	invalid := celltypes.PdnStatus{ContextID: celltypes.PdnContextUnused}
	body, ok := stripPrefix(line, "+QIACT:")
	if !ok {
		return invalid, false
	}
	tok := splitFields(body)
	if len(tok) < 4 {
		return invalid, false
	}
	cid, err := strconv.ParseUint(tok[0], 10, 8)
	if err != nil || cid < 1 || cid > MaxContextID {
		return invalid, false
	}
	state, err := strconv.ParseUint(tok[1], 10, 8)
	if err != nil {
		return invalid, false
	}
	typeCode, err := strconv.ParseUint(tok[2], 10, 8)
	if err != nil {
		return invalid, false
	}
	out := celltypes.PdnStatus{
		ContextID: uint8(cid),
		State:     uint8(state),
	}
	switch typeCode {
	case 1:
		out.Type = celltypes.ContextTypeIPv4
		out.Family = celltypes.AddressFamilyV4
	case 2:
		out.Type = celltypes.ContextTypeIPv6
		out.Family = celltypes.AddressFamilyV6
	default:
		// Includes the IPv4v6 (3) code: rejected as unsupported rather
		// than coerced to one family.
		return invalid, false
	}
	ip := tok[3]
	const maxIPLen = 45 // max+1 guaranteed-NUL, per spec.md §4.2
	if len(ip) >= maxIPLen {
		ip = ip[:maxIPLen-1]
	}
	out.IPAddress = ip
	return out, true
}

// ParseQICSGP parses a "+QICSGP:" get-reply: context-type, APN, username,
// password, auth-code. Auth code 3 ("PAP-or-CHAP") is rejected as
// unsupported.
func ParseQICSGP(line string) (celltypes.PdnConfig, bool) {
	var invalid celltypes.PdnConfig
	body, ok := stripPrefix(line, "+QICSGP:")
	if !ok {
		return invalid, false
	}
	tok := splitFields(body)
	if len(tok) < 5 {
		return invalid, false
	}
	typeCode, err := strconv.ParseUint(tok[0], 10, 8)
	if err != nil {
		return invalid, false
	}
	out := celltypes.PdnConfig{
		APN:      tok[1],
		Username: tok[2],
		Password: tok[3],
	}
	switch typeCode {
	case 1:
		out.ContextType = celltypes.ContextTypeIPv4
	case 2:
		out.ContextType = celltypes.ContextTypeIPv6
	case 3:
		out.ContextType = celltypes.ContextTypeIPv4v6
	default:
		return invalid, false
	}
	authCode, err := strconv.ParseUint(tok[4], 10, 8)
	if err != nil {
		return invalid, false
	}
	switch authCode {
	case 0:
		out.Auth = celltypes.AuthNone
	case 1:
		out.Auth = celltypes.AuthPAP
	case 2:
		out.Auth = celltypes.AuthCHAP
	default:
		// 3 == "PAP-or-CHAP", not supported.
		return invalid, false
	}
	return out, true
}
