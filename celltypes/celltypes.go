// Package celltypes holds the domain record types shared between the
// field parsers (cellparse), command formatters (cellfmt), and the public
// cellular API: the typed records spec.md §3 names as the data model.
package celltypes

import "math"

// Invalid is the sentinel value field parsers write into signed
// integer-valued fields (rssi, rsrp, rsrq, sinr) when the field could not
// be determined, per spec.md §4.2's "always fully-initialise... failure
// paths set every field to a documented sentinel" contract.
const Invalid int32 = math.MinInt32

// InvalidByte is the sentinel for small unsigned fields (ber 0..7, bars
// 0..5) that have no valid value.
const InvalidByte uint8 = 0xFF

// RAT identifies a radio access technology.
type RAT int

const (
	RATInvalid RAT = iota
	RATGSM
	RATEMTC
	RATNBIoT
	RATAutomatic
)

// RATTriple is an ordered scan-sequence/default-RAT list of up to three
// RATs, trailing RATInvalid entries meaning "not set".
type RATTriple [3]RAT

// Equal compares two RATTriples on their non-RATInvalid prefix only, per
// spec.md §3's "Equivalence defined only on the non-Invalid prefix".
func (t RATTriple) Equal(o RATTriple) bool {
	for i := 0; i < 3; i++ {
		if t[i] == RATInvalid && o[i] == RATInvalid {
			return true
		}
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// SignalInfo holds the last-read signal quality metrics.
type SignalInfo struct {
	RSSI int32
	RSRP int32
	RSRQ int32
	SINR int32
	BER  uint8
	Bars uint8
}

// InvalidSignalInfo is a fully-sentineled SignalInfo, the value every
// signal parser must produce on a malformed line.
var InvalidSignalInfo = SignalInfo{
	RSSI: Invalid, RSRP: Invalid, RSRQ: Invalid, SINR: Invalid,
	BER: InvalidByte, Bars: InvalidByte,
}

// ContextType is the PDP/PDN context type.
type ContextType int

const (
	ContextTypeInvalid ContextType = iota
	ContextTypeIPv4
	ContextTypeIPv6
	ContextTypeIPv4v6
)

// AddressFamily identifies the address family of a socket remote address
// or a resolved PDN IP address.
type AddressFamily int

const (
	AddressFamilyInvalid AddressFamily = iota
	AddressFamilyV4
	AddressFamilyV6
)

// PdnContextUnused is the sentinel context-id meaning "no further status
// records" when scanning getPdnStatus results, per spec.md §7's
// partial-failure policy.
const PdnContextUnused uint8 = 0xFF

// PdnStatus is one status record for a PDP/PDN context, as returned by
// +QIACT.
type PdnStatus struct {
	ContextID uint8
	State     uint8
	Type      ContextType
	Family    AddressFamily
	IPAddress string
}

// AuthType is the PDN authentication method. The modem's "PAP-or-CHAP"
// (auth code 3) is explicitly not supported, per spec.md §3/§4.2.
type AuthType int

const (
	AuthNone AuthType = iota
	AuthPAP
	AuthCHAP
)

// PdnConfig is the APN/credentials configuration for one PDP context.
type PdnConfig struct {
	ContextType ContextType
	APN         string
	Username    string
	Password    string
	Auth        AuthType
}

// PSMSettings mirrors +QPSMS: requested PSM mode and timers.
type PSMSettings struct {
	Mode         uint8
	PeriodicRAU  uint32
	GPRSReadyTimer uint32
	PeriodicTAU  uint32
	ActiveTime   uint32
}

// FlowControl identifies the +IFC setting.
type FlowControl int

const (
	FlowControlUnknown FlowControl = iota
	FlowControlNone
	FlowControlRTSOnly
	FlowControlCTSOnly
	FlowControlRTSCTS
)

// CFUNMode is the functionality level reported/set by +CFUN.
type CFUNMode int

const (
	CFUNUnknown CFUNMode = iota
	CFUNMinimum
	CFUNFull
	CFUNSIMOnly
)

// SimLockState is the lock state reported by +CPIN.
type SimLockState int

const (
	SimLockUnknown SimLockState = iota
	SimReady
	SimPIN
	SimPUK
	SimPIN2
	SimPUK2
	SimPHSimPIN
	SimPHNetPIN
	SimPHNetPUK
	SimPHSPPIN
	SimPHSPPUK
	SimPHCorpPIN
	SimPHCorpPUK
)

// HPLMNInfo is the decoded result of a +CRSM HPLMN file read.
type HPLMNInfo struct {
	MCC string
	MNC string
}

// RegistrationState mirrors the +CEREG/+COPS registration-state field.
type RegistrationState int

const (
	RegUnknown RegistrationState = iota
	RegNotRegistered
	RegHome
	RegSearching
	RegDenied
	RegRoaming
)

// CEREGInfo is the decoded result of +CEREG?.
type CEREGInfo struct {
	State  RegistrationState
	TAC    uint16
	CellID uint32
	RAT    RAT
}

// OperatorFormat is the +COPS operator-name format.
type OperatorFormat int

const (
	OperatorFormatLong OperatorFormat = iota
	OperatorFormatShort
	OperatorFormatNumeric
)

// ServiceSelection is the decoded result of +COPS?.
type ServiceSelection struct {
	Mode     uint8
	Format   OperatorFormat
	Operator string
	RAT      RAT
}

// NetworkInfo is the decoded result of +QNWINFO.
type NetworkInfo struct {
	Service   string
	PLMN      string
	Band      int
	ChannelID uint32
}

// NetworkOperatorMode is the decoded result of +QCFG="nwoper".
type NetworkOperatorMode int

const (
	NwoperUnknown NetworkOperatorMode = iota
	NwoperDefault
	NwoperATT
	NwoperVZW
)

// NetworkOperatorConfig bundles the mode with the optional AUTO flag.
type NetworkOperatorConfig struct {
	Mode      NetworkOperatorMode
	Automatic bool
}

// URCPort identifies the physical/logical port URCs are routed to.
type URCPort int

const (
	URCPortUnknown URCPort = iota
	URCPortMain
	URCPortAux
	URCPortEMUX
)

// IoTOpMode is the network-category search mode (+QCFG="iotopmode").
type IoTOpMode int

const (
	IoTOpModeEMTC IoTOpMode = iota
	IoTOpModeNBIoT
	IoTOpModeBoth
)

// ReceiveStats is the result of an AT+Q[SSL]RECV=<id>,0 statistics query.
type ReceiveStats struct {
	Total  uint32
	Read   uint32
	Unread uint32
}

// FileUploadResult is the result of +QFUPL.
type FileUploadResult struct {
	Length   uint32
	Checksum uint16
}

// FileCRC is the result of +QFCRC.
type FileCRC struct {
	CRC32     uint32
	CRC16     uint16
	CRC16CCIT uint16
}

// Temperatures is the result of +QTEMP.
type Temperatures struct {
	PMIC  int32
	PA    int32
	Board int32
}
