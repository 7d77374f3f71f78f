package cellparse

import (
	"strconv"
	"strings"

	"github.com/binsentry/cellular-bg770/celltypes"
)

// ParseCRSMHPLMN parses a "+CRSM:" response to a HPLMN file read:
// sw1, sw2, payload. sw1 must be 144, 145, or 146 (normal completion
// variants); sw2 must not be 64 (memory problem). The payload is decoded
// per the SIM-file nibble-swapped PLMN encoding (3GPP TS 51.011): byte 0
// holds MCC digits 1 and 2, byte 1 holds MCC digit 3 and MNC digit 3 (or
// 0xF if the MNC is 2 digits), byte 2 holds MNC digits 1 and 2.
func ParseCRSMHPLMN(line string) (celltypes.HPLMNInfo, bool) {
	var invalid celltypes.HPLMNInfo
	body, ok := stripPrefix(line, "+CRSM:")
	if !ok {
		return invalid, false
	}
	tok := splitFields(body)
	if len(tok) < 3 {
		return invalid, false
	}
	switch tok[0] {
	case "144", "145", "146":
	default:
		return invalid, false
	}
	if tok[1] == "64" {
		return invalid, false
	}
	payload := tok[2]
	if len(payload) < 6 {
		return invalid, false
	}
	nibbles := make([]byte, 6)
	for i := 0; i < 6; i++ {
		v, err := strconv.ParseUint(payload[i:i+1], 16, 8)
		if err != nil {
			return invalid, false
		}
		nibbles[i] = byte(v)
	}
	// byte0 = [hi=MCC2][lo=MCC1], byte1 = [hi=MNC3][lo=MCC3], byte2 = [hi=MNC2][lo=MNC1]
	mcc1, mcc2, mcc3 := nibbles[1], nibbles[0], nibbles[3]
	mnc3, mnc1, mnc2 := nibbles[2], nibbles[5], nibbles[4]
	var sb strings.Builder
	sb.WriteByte(digitChar(mcc1))
	sb.WriteByte(digitChar(mcc2))
	sb.WriteByte(digitChar(mcc3))
	mcc := sb.String()
	var mnc string
	if mnc3 == 0xF {
		mnc = string(digitChar(mnc1)) + string(digitChar(mnc2))
	} else {
		mnc = string(digitChar(mnc1)) + string(digitChar(mnc2)) + string(digitChar(mnc3))
	}
	return celltypes.HPLMNInfo{MCC: mcc, MNC: mnc}, true
}

func digitChar(nibble byte) byte {
	if nibble > 9 {
		return '?'
	}
	return '0' + nibble
}

// ParseCPIN parses a "+CPIN:" line mapping the literal lock-state string
// to celltypes.SimLockState. Any unrecognised string maps to
// SimLockUnknown but still returns true: an unrecognised-but-present
// literal is not a malformed line.
func ParseCPIN(line string) (celltypes.SimLockState, bool) {
	body, ok := stripPrefix(line, "+CPIN:")
	if !ok {
		return celltypes.SimLockUnknown, false
	}
	switch strings.TrimSpace(body) {
	case "READY":
		return celltypes.SimReady, true
	case "SIM PIN":
		return celltypes.SimPIN, true
	case "SIM PUK":
		return celltypes.SimPUK, true
	case "SIM PIN2":
		return celltypes.SimPIN2, true
	case "SIM PUK2":
		return celltypes.SimPUK2, true
	case "PH-SIM PIN":
		return celltypes.SimPHSimPIN, true
	case "PH-NET PIN":
		return celltypes.SimPHNetPIN, true
	case "PH-NET PUK":
		return celltypes.SimPHNetPUK, true
	case "PH-SP PIN":
		return celltypes.SimPHSPPIN, true
	case "PH-SP PUK":
		return celltypes.SimPHSPPUK, true
	case "PH-CORP PIN":
		return celltypes.SimPHCorpPIN, true
	case "PH-CORP PUK":
		return celltypes.SimPHCorpPUK, true
	default:
		return celltypes.SimLockUnknown, true
	}
}
