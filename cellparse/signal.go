package cellparse

import (
	"strconv"

	"github.com/binsentry/cellular-bg770/celltypes"
)

// ParseQCSQ parses a "+QCSQ:" line: sysmode, rssi, rsrp, sinr, rsrq.
// sysmode must be "eMTC" or "NBIoT"; sinr is rescaled from the modem's
// 0..250 integer as -20 + v/5. ber and bars are not reported by +QCSQ and
// are set to their Invalid sentinels.
func ParseQCSQ(line string) (celltypes.SignalInfo, bool) {
	body, ok := stripPrefix(line, "+QCSQ:")
	if !ok {
		return celltypes.InvalidSignalInfo, false
	}
	tok := splitFields(body)
	if len(tok) < 5 {
		return celltypes.InvalidSignalInfo, false
	}
	switch tok[0] {
	case "eMTC", "NBIoT":
	default:
		return celltypes.InvalidSignalInfo, false
	}
	rssi, ok1 := parseInt32(tok[1])
	rsrp, ok2 := parseInt32(tok[2])
	rawSinr, ok3 := parseInt32(tok[3])
	rsrq, ok4 := parseInt32(tok[4])
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return celltypes.InvalidSignalInfo, false
	}
	return celltypes.SignalInfo{
		RSSI: rssi,
		RSRP: rsrp,
		SINR: rescaleSINR(rawSinr),
		RSRQ: rsrq,
		BER:  celltypes.InvalidByte,
		Bars: celltypes.InvalidByte,
	}, true
}

// rescaleSINR converts the modem's raw 0..250 SINR reading to dB.
func rescaleSINR(raw int32) int32 {
	return -20 + raw/5
}

// ParseCSQ parses a "+CSQ:" line: two unsigned fields, rssi index and ber
// index, converted to dBm-rssi and a ber-index respectively. 99 in either
// field means "not known" and maps to Invalid. bars is not reported and is
// set to InvalidByte.
func ParseCSQ(line string) (celltypes.SignalInfo, bool) {
	body, ok := stripPrefix(line, "+CSQ:")
	if !ok {
		return celltypes.InvalidSignalInfo, false
	}
	tok := splitFields(body)
	if len(tok) < 2 {
		return celltypes.InvalidSignalInfo, false
	}
	rssiIdx, err1 := strconv.ParseUint(tok[0], 10, 8)
	berIdx, err2 := strconv.ParseUint(tok[1], 10, 8)
	if err1 != nil || err2 != nil {
		return celltypes.InvalidSignalInfo, false
	}
	out := celltypes.InvalidSignalInfo
	if rssiIdx != 99 {
		dbm := -113 + int64(rssiIdx)*2
		if dbm < -32768 || dbm > 32767 {
			return celltypes.InvalidSignalInfo, false
		}
		out.RSSI = int32(dbm)
	}
	if berIdx != 99 {
		out.BER = uint8(berIdx)
	}
	return out, true
}

func parseInt32(s string) (int32, bool) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}
