package cellparse

import (
	"strconv"
	"strings"

	"github.com/binsentry/cellular-bg770/band"
	"github.com/binsentry/cellular-bg770/celltypes"
)

// MaxBandPriorityLen is the longest band scan priority list this variant
// accepts.
const MaxBandPriorityLen = 16

// ratCode maps a two-character RAT code to a RAT value.
func ratCode(code string) (celltypes.RAT, bool) {
	switch code {
	case "00":
		return celltypes.RATAutomatic, true
	case "01":
		return celltypes.RATGSM, true
	case "02":
		return celltypes.RATEMTC, true
	case "03":
		return celltypes.RATNBIoT, true
	default:
		return celltypes.RATInvalid, false
	}
}

// ratCodeString is the inverse of ratCode, used by cellfmt.
func ratCodeString(r celltypes.RAT) (string, bool) {
	switch r {
	case celltypes.RATAutomatic:
		return "00", true
	case celltypes.RATGSM:
		return "01", true
	case celltypes.RATEMTC:
		return "02", true
	case celltypes.RATNBIoT:
		return "03", true
	default:
		return "", false
	}
}

// RATCodeString exports ratCodeString for cellfmt.
func RATCodeString(r celltypes.RAT) (string, bool) { return ratCodeString(r) }

// ParseNwscanseq parses a `+QCFG: "nwscanseq",<seq>` get-reply. seq is a
// concatenation of two-character RAT codes, length a multiple of 2 and at
// most 6 characters (3 RATs); the result is padded with RATInvalid.
func ParseNwscanseq(line string) (celltypes.RATTriple, bool) {
	var invalid celltypes.RATTriple
	body, ok := stripPrefix(line, "+QCFG:")
	if !ok {
		return invalid, false
	}
	tok := splitFields(body)
	if len(tok) < 2 || tok[0] != "nwscanseq" {
		return invalid, false
	}
	seq := tok[1]
	if len(seq)%2 != 0 || len(seq) > 6 {
		return invalid, false
	}
	var out celltypes.RATTriple
	for i := range out {
		out[i] = celltypes.RATInvalid
	}
	for i := 0; i*2 < len(seq); i++ {
		r, ok := ratCode(seq[i*2 : i*2+2])
		if !ok {
			return invalid, false
		}
		out[i] = r
	}
	return out, true
}

// ParseBandConfig parses a `+QCFG: "band",<gsm-hex>,<lte-hex>,<nbiot-hex>`
// get-reply, decoding the LTE band mask. The GSM and NB-IoT masks are not
// modelled by this driver and are ignored.
func ParseBandConfig(line string) (band.Mask, bool) {
	var invalid band.Mask
	body, ok := stripPrefix(line, "+QCFG:")
	if !ok {
		return invalid, false
	}
	tok := splitFields(body)
	if len(tok) < 3 || tok[0] != "band" {
		return invalid, false
	}
	m, err := band.Decode(tok[2])
	if err != nil {
		return invalid, false
	}
	return m, true
}

// ParseBandPriority parses a `+QCFG: "lte/bandprior",<b1>,<b2>,…`
// get-reply into an ordered list of band numbers. An empty list is valid.
func ParseBandPriority(line string) ([]int, bool) {
	body, ok := stripPrefix(line, "+QCFG:")
	if !ok {
		return nil, false
	}
	tok := splitFields(body)
	if len(tok) < 1 || tok[0] != "lte/bandprior" {
		return nil, false
	}
	rest := tok[1:]
	if len(rest) == 1 && rest[0] == "" {
		return []int{}, true
	}
	if len(rest) > MaxBandPriorityLen {
		return nil, false
	}
	out := make([]int, 0, len(rest))
	for _, t := range rest {
		v, err := strconv.ParseUint(t, 10, 16)
		if err != nil {
			return nil, false
		}
		out = append(out, int(v))
	}
	return out, true
}

// ParseQNWINFO parses a "+QNWINFO:" line: service (must be "emtc",
// case-folded), PLMN, "LTE BAND <n>" (space-tolerant), channel-id.
func ParseQNWINFO(line string) (celltypes.NetworkInfo, bool) {
	var invalid celltypes.NetworkInfo
	body, ok := stripPrefix(line, "+QNWINFO:")
	if !ok {
		return invalid, false
	}
	tok := splitFields(body)
	if len(tok) < 4 {
		return invalid, false
	}
	if strings.ToLower(tok[0]) != "emtc" {
		return invalid, false
	}
	bandStr := strings.Join(strings.Fields(tok[2]), " ")
	const prefix = "LTE BAND "
	if !strings.HasPrefix(strings.ToUpper(bandStr), prefix) {
		return invalid, false
	}
	bandNum, err := strconv.Atoi(bandStr[len(prefix):])
	if err != nil {
		return invalid, false
	}
	chID, err := strconv.ParseUint(tok[3], 10, 32)
	if err != nil {
		return invalid, false
	}
	return celltypes.NetworkInfo{
		Service:   tok[0],
		PLMN:      tok[1],
		Band:      bandNum,
		ChannelID: uint32(chID),
	}, true
}

// ParseCOPS parses a "+COPS:" read-response line: registration-mode,
// operator-name-format, operator string, RAT.
func ParseCOPS(line string) (celltypes.ServiceSelection, bool) {
	var invalid celltypes.ServiceSelection
	body, ok := stripPrefix(line, "+COPS:")
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
	switch mode {
	case 0, 1, 2, 4:
	default:
		return invalid, false
	}
	out := celltypes.ServiceSelection{Mode: uint8(mode)}
	if len(tok) < 4 {
		// mode-only (not registered to an operator).
		return out, true
	}
	formatCode, err := strconv.ParseUint(tok[1], 10, 8)
	if err != nil {
		return invalid, false
	}
	switch formatCode {
	case 0:
		out.Format = celltypes.OperatorFormatLong
	case 1:
		out.Format = celltypes.OperatorFormatShort
	case 2:
		out.Format = celltypes.OperatorFormatNumeric
	default:
		// 3 ("not present") is invalid as a read-response value.
		return invalid, false
	}
	opStr := tok[2]
	if out.Format == celltypes.OperatorFormatNumeric && len(opStr) != 5 && len(opStr) != 6 {
		return invalid, false
	}
	out.Operator = opStr
	rat, err := strconv.ParseUint(tok[3], 10, 8)
	if err != nil {
		return invalid, false
	}
	switch rat {
	case 8, 9: // eMTC / NB-IoT LTE RAT codes reported by +COPS
		out.RAT = celltypes.RATEMTC
	default:
		out.RAT = celltypes.RAT(rat)
	}
	return out, true
}

// ParseCEREG parses a "+CEREG?" read-response line, skipping the leading
// URC-mode token: registration-state, TAC (hex), cell-id (hex), RAT. If
// the state is not home/roaming, or the RAT is not LTE, TAC and cell-id
// are blanked to their sentinels.
func ParseCEREG(line string) (celltypes.CEREGInfo, bool) {
	var invalid celltypes.CEREGInfo
	body, ok := stripPrefix(line, "+CEREG:")
	if !ok {
		return invalid, false
	}
	tok := splitFields(body)
	if len(tok) < 2 {
		return invalid, false
	}
	stateCode, err := strconv.ParseUint(tok[1], 10, 8)
	if err != nil {
		return invalid, false
	}
	var state celltypes.RegistrationState
	switch stateCode {
	case 0:
		state = celltypes.RegNotRegistered
	case 1:
		state = celltypes.RegHome
	case 2:
		state = celltypes.RegSearching
	case 3:
		state = celltypes.RegDenied
	case 4:
		state = celltypes.RegUnknown
	case 5:
		state = celltypes.RegRoaming
	default:
		return invalid, false
	}
	out := celltypes.CEREGInfo{
		State:  state,
		TAC:    0xFFFF,
		CellID: 0xFFFFFFFF,
		RAT:    celltypes.RATInvalid,
	}
	if len(tok) >= 5 {
		rat := parseCEREGRAT(tok[4])
		tac, tacErr := strconv.ParseUint(strings.Trim(tok[2], "\""), 16, 16)
		cid, cidErr := strconv.ParseUint(strings.Trim(tok[3], "\""), 16, 32)
		if tacErr == nil && cidErr == nil && (state == celltypes.RegHome || state == celltypes.RegRoaming) && rat == celltypes.RATEMTC {
			out.TAC = uint16(tac)
			out.CellID = uint32(cid)
		}
		out.RAT = rat
	}
	return out, true
}

func parseCEREGRAT(tok string) celltypes.RAT {
	switch tok {
	case "7", "9": // eMTC / NB-IoT AcT codes used by +CEREG
		return celltypes.RATEMTC
	default:
		return celltypes.RATInvalid
	}
}

// ParseIFC parses a "+IFC?" line: two tokens each 0 or 2.
func ParseIFC(line string) (celltypes.FlowControl, bool) {
	body, ok := stripPrefix(line, "+IFC:")
	if !ok {
		return celltypes.FlowControlUnknown, false
	}
	tok := splitFields(body)
	if len(tok) < 2 {
		return celltypes.FlowControlUnknown, false
	}
	switch {
	case tok[0] == "0" && tok[1] == "0":
		return celltypes.FlowControlNone, true
	case tok[0] == "2" && tok[1] == "0":
		return celltypes.FlowControlRTSOnly, true
	case tok[0] == "0" && tok[1] == "2":
		return celltypes.FlowControlCTSOnly, true
	case tok[0] == "2" && tok[1] == "2":
		return celltypes.FlowControlRTSCTS, true
	default:
		return celltypes.FlowControlUnknown, true
	}
}

// ParseIPR parses a "+IPR?" line: a single unsigned baud rate.
func ParseIPR(line string) (uint32, bool) {
	body, ok := stripPrefix(line, "+IPR:")
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(strings.TrimSpace(body), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// ParseCFUN parses a "+CFUN?" line: a single integer 0/1/4.
func ParseCFUN(line string) (celltypes.CFUNMode, bool) {
	body, ok := stripPrefix(line, "+CFUN:")
	if !ok {
		return celltypes.CFUNUnknown, false
	}
	v, err := strconv.ParseUint(strings.TrimSpace(body), 10, 8)
	if err != nil {
		return celltypes.CFUNUnknown, false
	}
	switch v {
	case 0:
		return celltypes.CFUNMinimum, true
	case 1:
		return celltypes.CFUNFull, true
	case 4:
		return celltypes.CFUNSIMOnly, true
	default:
		return celltypes.CFUNUnknown, true
	}
}

// ParseURCPort parses a `+QCFG: "urcport",<port>` get-reply.
func ParseURCPort(line string) (celltypes.URCPort, bool) {
	body, ok := stripPrefix(line, "+QCFG:")
	if !ok {
		return celltypes.URCPortUnknown, false
	}
	tok := splitFields(body)
	if len(tok) < 2 || tok[0] != "urcport" {
		return celltypes.URCPortUnknown, false
	}
	switch tok[1] {
	case "main":
		return celltypes.URCPortMain, true
	case "aux":
		return celltypes.URCPortAux, true
	case "emux":
		return celltypes.URCPortEMUX, true
	default:
		return celltypes.URCPortUnknown, false
	}
}

// ParseIoTOpMode parses a `+QCFG: "iotopmode",<mode>` get-reply.
func ParseIoTOpMode(line string) (celltypes.IoTOpMode, bool) {
	body, ok := stripPrefix(line, "+QCFG:")
	if !ok {
		return 0, false
	}
	tok := splitFields(body)
	if len(tok) < 2 || tok[0] != "iotopmode" {
		return 0, false
	}
	switch tok[1] {
	case "0":
		return celltypes.IoTOpModeEMTC, true
	case "1":
		return celltypes.IoTOpModeNBIoT, true
	case "2":
		return celltypes.IoTOpModeBoth, true
	default:
		return 0, false
	}
}

// ParseLwm2m parses a `+QCFG: "lwm2m",<0|1>` get-reply.
func ParseLwm2m(line string) (bool, bool) {
	body, ok := stripPrefix(line, "+QCFG:")
	if !ok {
		return false, false
	}
	tok := splitFields(body)
	if len(tok) < 2 || tok[0] != "lwm2m" {
		return false, false
	}
	switch tok[1] {
	case "0":
		return false, true
	case "1":
		return true, true
	default:
		return false, false
	}
}

// ParseNwoper parses a `+QCFG: "nwoper",<mode>[,"AUTO"]` get-reply,
// tolerating both the prefixed shape and firmware variants that omit the
// "+QCFG:"/"nwoper" prefix entirely and report only the mode (and
// optional AUTO marker).
func ParseNwoper(line string) (celltypes.NetworkOperatorConfig, bool) {
	var invalid celltypes.NetworkOperatorConfig
	body := strings.TrimSpace(line)
	if b, ok := stripPrefix(body, "+QCFG:"); ok {
		body = b
	}
	tok := splitFields(body)
	if len(tok) == 0 || tok[0] == "" {
		return invalid, false
	}
	if tok[0] == "nwoper" {
		tok = tok[1:]
	}
	if len(tok) == 0 {
		return invalid, false
	}
	out := celltypes.NetworkOperatorConfig{
		Mode: parseNwoperMode(tok[0]),
	}
	if len(tok) >= 2 && strings.EqualFold(tok[1], "AUTO") {
		out.Automatic = true
	}
	return out, true
}

func parseNwoperMode(tok string) celltypes.NetworkOperatorMode {
	switch strings.ToLower(tok) {
	case "default":
		return celltypes.NwoperDefault
	case "att":
		return celltypes.NwoperATT
	case "vzw":
		return celltypes.NwoperVZW
	default:
		return celltypes.NwoperUnknown
	}
}

// ParseQIGetError parses a "+QIGETERROR:" line: a single unsigned result
// code.
func ParseQIGetError(line string) (uint32, bool) {
	body, ok := stripPrefix(line, "+QIGETERROR:")
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(strings.TrimSpace(body), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}
