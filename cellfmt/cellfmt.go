// Package cellfmt implements the command formatters (spec.md component
// C3): one pure function per write-side AT command, each producing the
// exact command byte string for a typed request into a caller-supplied
// buffer. None of these formatters allocate beyond a single returned
// length; all enforce the buffer's length budget and report ErrTooLong
// (mapped by the cellular package to CellularError's InternalFailure)
// rather than writing a truncated command.
package cellfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/binsentry/cellular-bg770/band"
	"github.com/binsentry/cellular-bg770/cellparse"
	"github.com/binsentry/cellular-bg770/celltypes"
)

// ErrTooLong indicates the caller's buffer was too small to hold the
// formatted command.
var ErrTooLong = errors.New("cellfmt: command exceeds buffer")

// MaxCommandLen bounds any single formatted command, including the "AT"
// prefix every formatter writes and excluding the line terminator the at
// engine adds.
const MaxCommandLen = 256

// write copies s into buf, or returns ErrTooLong without writing anything
// if s does not fit. This is the one place truncation is decided, so every
// formatter shares the same all-or-nothing behaviour required by
// spec.md's testable property 4.
func write(buf []byte, s string) (int, error) {
	if len(s) > len(buf) {
		return 0, ErrTooLong
	}
	return copy(buf, s), nil
}

// Protocol identifies the socket protocol for a socket-open command.
type Protocol int

const (
	ProtocolTCP Protocol = iota
	ProtocolUDPService
	ProtocolTLS
)

// AccessMode is the socket data-access mode. Only AccessModeBuffer is
// supported by the socket engine (spec.md §3's invariant).
type AccessMode int

const (
	AccessModeBuffer AccessMode = 1
)

// FormatSocketOpenPlain formats "AT+QIOPEN=<ctx>,<sid>,"<TCP|UDP
// SERVICE>","<ip>",<port>,<lport>,<mode>" for a plain TCP or UDP-service
// socket.
func FormatSocketOpenPlain(buf []byte, ctxID, sockID int, proto Protocol, ip string, port, localPort uint16, mode AccessMode) (int, error) {
	protoStr := "TCP"
	if proto == ProtocolUDPService {
		protoStr = "UDP SERVICE"
	}
	s := fmt.Sprintf(`AT+QIOPEN=%d,%d,"%s","%s",%d,%d,%d`,
		ctxID, sockID, protoStr, ip, port, localPort, mode)
	return write(buf, s)
}

// FormatSocketOpenTLS formats "AT+QSSLOPEN=<ctx>,<sslctx>,<sid>,"<ip>",<port>,<mode>".
// The caller should log a warning if localPort is non-zero: TLS sockets
// ignore it entirely.
func FormatSocketOpenTLS(buf []byte, ctxID, sslCtxID, sockID int, ip string, port uint16, mode AccessMode) (int, error) {
	s := fmt.Sprintf(`AT+QSSLOPEN=%d,%d,%d,"%s",%d,%d`,
		ctxID, sslCtxID, sockID, ip, port, mode)
	return write(buf, s)
}

// FormatSocketClosePlain formats "AT+QICLOSE=<sid>[,<timeoutSec>]".
func FormatSocketClosePlain(buf []byte, sockID int, timeoutSec int) (int, error) {
	s := fmt.Sprintf("AT+QICLOSE=%d", sockID)
	if timeoutSec > 0 {
		s += fmt.Sprintf(",%d", timeoutSec)
	}
	return write(buf, s)
}

// FormatSocketCloseTLS formats "AT+QSSLCLOSE=<sid>[,<timeoutSec>]".
func FormatSocketCloseTLS(buf []byte, sockID int, timeoutSec int) (int, error) {
	s := fmt.Sprintf("AT+QSSLCLOSE=%d", sockID)
	if timeoutSec > 0 {
		s += fmt.Sprintf(",%d", timeoutSec)
	}
	return write(buf, s)
}

// FormatSocketSendHeader formats "AT+QISEND=<sid>,<len>" (plain) or
// "AT+QSSLSEND=<sid>,<len>" (tls), the command that precedes the binary
// payload write in the engine's send-prompt dance.
func FormatSocketSendHeader(buf []byte, sockID int, length int, tls bool) (int, error) {
	cmd := "AT+QISEND"
	if tls {
		cmd = "AT+QSSLSEND"
	}
	s := fmt.Sprintf("%s=%d,%d", cmd, sockID, length)
	return write(buf, s)
}

// FormatSocketRecv formats "AT+QIRD=<sid>,<len>" (plain) or
// "AT+QSSLRECV=<sid>,<len>" (tls).
func FormatSocketRecv(buf []byte, sockID int, length int, tls bool) (int, error) {
	cmd := "AT+QIRD"
	if tls {
		cmd = "AT+QSSLRECV"
	}
	s := fmt.Sprintf("%s=%d,%d", cmd, sockID, length)
	return write(buf, s)
}

// FormatSocketRecvStats formats "AT+QIRD=<sid>,0" (plain) or
// "AT+QSSLRECV=<sid>,0" (tls), the statistics-only variant.
func FormatSocketRecvStats(buf []byte, sockID int, tls bool) (int, error) {
	return FormatSocketRecv(buf, sockID, 0, tls)
}

// SSLValueStyle controls how a SetSSLOpt value is rendered.
type SSLValueStyle int

const (
	SSLValueNumeric SSLValueStyle = iota
	SSLValueHex
	SSLValueString
)

// SSLOption describes one +QSSLCFG parameter: its wire name and how its
// value should be rendered.
type SSLOption struct {
	Param string
	Style SSLValueStyle
}

// SSLOptions is the flat table mapping each supported SSL option to its
// (param-name, value-style), per spec.md §4.3.
var SSLOptions = map[string]SSLOption{
	"sslversion": {Param: "sslversion", Style: SSLValueNumeric},
	"ciphersuite": {Param: "ciphersuite", Style: SSLValueHex},
	"cacert":     {Param: "cacert", Style: SSLValueString},
	"clientcert": {Param: "clientcert", Style: SSLValueString},
	"clientkey":  {Param: "clientkey", Style: SSLValueString},
	"seclevel":   {Param: "seclevel", Style: SSLValueNumeric},
	"ignorelocaltime": {Param: "ignorelocaltime", Style: SSLValueNumeric},
	"negotiatetime":   {Param: "negotiatetime", Style: SSLValueNumeric},
}

// ErrUnknownSSLOption indicates the option name has no entry in
// SSLOptions.
var ErrUnknownSSLOption = errors.New("cellfmt: unknown SSL option")

// FormatSetSSLOpt formats `AT+QSSLCFG="<param>",<ctx>,<value>` where value
// is rendered according to the option's style: numeric as "%d", hex as
// "0X%04X", string as `"<s>"`.
func FormatSetSSLOpt(buf []byte, name string, ctxID int, numericValue uint32, stringValue string) (int, error) {
	opt, ok := SSLOptions[name]
	if !ok {
		return 0, ErrUnknownSSLOption
	}
	var valStr string
	switch opt.Style {
	case SSLValueNumeric:
		valStr = strconv.FormatUint(uint64(numericValue), 10)
	case SSLValueHex:
		valStr = fmt.Sprintf("0X%04X", numericValue)
	case SSLValueString:
		valStr = fmt.Sprintf("%q", stringValue)
	default:
		return 0, ErrUnknownSSLOption
	}
	s := fmt.Sprintf(`AT+QSSLCFG="%s",%d,%s`, opt.Param, ctxID, valStr)
	return write(buf, s)
}

// formatBinary8 renders v as an 8-character base-2 string. If v is zero
// and omitIfZero is set, it renders as an empty field, matching the
// teacher-derived PSM formatter contract in spec.md S6: an absent timer
// field is an empty string between commas, not "00000000".
func formatBinary8(v uint32, omitIfZero bool) string {
	if v == 0 && omitIfZero {
		return ""
	}
	s := strconv.FormatUint(uint64(v), 2)
	if len(s) > 8 {
		s = s[len(s)-8:]
	}
	return strings.Repeat("0", 8-len(s)) + s
}

// FormatPSMSet formats "AT+QPSMS=<mode>" alone if both periodicTAU and
// activeTime are zero, otherwise appends the four comma-separated 8-bit binary-string
// timer fields (two reserved-unsupported fields, periodic-TAU,
// active-time), each rendered empty when its value is zero.
func FormatPSMSet(buf []byte, mode uint8, periodicTAU, activeTime uint32) (int, error) {
	if periodicTAU == 0 && activeTime == 0 {
		return write(buf, fmt.Sprintf("AT+QPSMS=%d", mode))
	}
	s := fmt.Sprintf(`AT+QPSMS=%d,%s,%s,%s,%s`,
		mode,
		quoteIfSet(formatBinary8(0, true)),
		quoteIfSet(formatBinary8(0, true)),
		quoteIfSet(formatBinary8(periodicTAU, true)),
		quoteIfSet(formatBinary8(activeTime, true)),
	)
	return write(buf, s)
}

// quoteIfSet wraps a non-empty binary-string field in double quotes, leaving
// an omitted (empty) field as a bare separator.
func quoteIfSet(field string) string {
	if field == "" {
		return ""
	}
	return `"` + field + `"`
}

// FormatPSMConfigSet formats "AT+QPSMCFG=<mode>,<rau>,<ready>,<tau>,<active>"
// using the same binary-string timer encoding as FormatPSMSet.
func FormatPSMConfigSet(buf []byte, mode uint8, rau, ready, tau, active uint32) (int, error) {
	s := fmt.Sprintf(`AT+QPSMCFG=%d,"%s","%s","%s","%s"`,
		mode,
		formatBinary8(rau, false),
		formatBinary8(ready, false),
		formatBinary8(tau, false),
		formatBinary8(active, false),
	)
	return write(buf, s)
}

// FormatPSMEntry formats "AT+QPSMS=<mode>", the bare mode-only form used
// to force an immediate PSM-entry policy change.
func FormatPSMEntry(buf []byte, mode uint8) (int, error) {
	return write(buf, fmt.Sprintf("AT+QPSMS=%d", mode))
}

// FormatBandSet formats `AT+QCFG="band",0,0x<lte-hex>,0` where <lte-hex>
// is the canonical textual form of the filtered mask.
func FormatBandSet(buf []byte, m band.Mask) (int, error) {
	s := fmt.Sprintf(`AT+QCFG="band",0,0x%s,0`, band.Encode(m))
	return write(buf, s)
}

// FormatBandPrioritySet formats `AT+QCFG="lte/bandprior",<b1>,<b2>,…`.
func FormatBandPrioritySet(buf []byte, bands []int) (int, error) {
	parts := make([]string, 0, len(bands)+1)
	parts = append(parts, `AT+QCFG="lte/bandprior"`)
	for _, b := range bands {
		parts = append(parts, strconv.Itoa(b))
	}
	return write(buf, strings.Join(parts, ","))
}

// FormatNwscanseqSet formats `AT+QCFG="nwscanseq",<seq>,<applyImmediately>`
// where seq is the concatenation of each RAT's two-character code.
func FormatNwscanseqSet(buf []byte, seq celltypes.RATTriple, applyImmediately bool) (int, error) {
	var sb strings.Builder
	for _, r := range seq {
		if r == celltypes.RATInvalid {
			break
		}
		code, ok := cellparse.RATCodeString(r)
		if !ok {
			return 0, errors.New("cellfmt: invalid RAT in scan sequence")
		}
		sb.WriteString(code)
	}
	s := fmt.Sprintf(`AT+QCFG="nwscanseq",%s,%d`, sb.String(), boolToInt(applyImmediately))
	return write(buf, s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// FormatIoTOpModeSet formats `AT+QCFG="iotopmode",<mode>,<applyImmediately>`.
func FormatIoTOpModeSet(buf []byte, mode celltypes.IoTOpMode, applyImmediately bool) (int, error) {
	s := fmt.Sprintf(`AT+QCFG="iotopmode",%d,%d`, int(mode), boolToInt(applyImmediately))
	return write(buf, s)
}

// FormatLwm2mSet formats `AT+QCFG="lwm2m",<0|1>`.
func FormatLwm2mSet(buf []byte, enabled bool) (int, error) {
	return write(buf, fmt.Sprintf(`AT+QCFG="lwm2m",%d`, boolToInt(enabled)))
}

// FormatURCPortSet formats `AT+QCFG="urcport","<port>"`.
func FormatURCPortSet(buf []byte, port celltypes.URCPort) (int, error) {
	var name string
	switch port {
	case celltypes.URCPortMain:
		name = "main"
	case celltypes.URCPortAux:
		name = "aux"
	case celltypes.URCPortEMUX:
		name = "emux"
	default:
		return 0, errors.New("cellfmt: invalid URC port")
	}
	return write(buf, fmt.Sprintf(`AT+QCFG="urcport","%s"`, name))
}

// FormatNwoperSet formats `AT+QCFG="nwoper",<mode>`.
func FormatNwoperSet(buf []byte, mode celltypes.NetworkOperatorMode) (int, error) {
	var name string
	switch mode {
	case celltypes.NwoperDefault:
		name = "default"
	case celltypes.NwoperATT:
		name = "att"
	case celltypes.NwoperVZW:
		name = "vzw"
	default:
		return 0, errors.New("cellfmt: invalid network operator mode")
	}
	return write(buf, fmt.Sprintf(`AT+QCFG="nwoper","%s"`, name))
}

// FormatPdnConfigSet formats
// `AT+QICSGP=<ctx>,<type>,"<apn>","<user>","<pwd>",<auth>`.
func FormatPdnConfigSet(buf []byte, ctxID int, cfg celltypes.PdnConfig) (int, error) {
	var typeCode int
	switch cfg.ContextType {
	case celltypes.ContextTypeIPv4:
		typeCode = 1
	case celltypes.ContextTypeIPv6:
		typeCode = 2
	case celltypes.ContextTypeIPv4v6:
		typeCode = 3
	default:
		return 0, errors.New("cellfmt: invalid context type")
	}
	var authCode int
	switch cfg.Auth {
	case celltypes.AuthNone:
		authCode = 0
	case celltypes.AuthPAP:
		authCode = 1
	case celltypes.AuthCHAP:
		authCode = 2
	default:
		return 0, errors.New("cellfmt: invalid auth type")
	}
	s := fmt.Sprintf(`AT+QICSGP=%d,%d,"%s","%s","%s",%d`,
		ctxID, typeCode, cfg.APN, cfg.Username, cfg.Password, authCode)
	return write(buf, s)
}

// FormatPdnConfigGet formats "AT+QICSGP=<ctx>".
func FormatPdnConfigGet(buf []byte, ctxID int) (int, error) {
	return write(buf, fmt.Sprintf("AT+QICSGP=%d", ctxID))
}

// FormatPdnActivate formats "AT+QIACT=<ctx>".
func FormatPdnActivate(buf []byte, ctxID int) (int, error) {
	return write(buf, fmt.Sprintf("AT+QIACT=%d", ctxID))
}

// FormatPdnDeactivate formats "AT+QIDEACT=<ctx>".
func FormatPdnDeactivate(buf []byte, ctxID int) (int, error) {
	return write(buf, fmt.Sprintf("AT+QIDEACT=%d", ctxID))
}

// FormatSetDNS formats `AT+QIDNSCFG=<ctx>,"<primary>"[,"<secondary>"]`.
func FormatSetDNS(buf []byte, ctxID int, primary, secondary string) (int, error) {
	s := fmt.Sprintf(`AT+QIDNSCFG=%d,"%s"`, ctxID, primary)
	if secondary != "" {
		s += fmt.Sprintf(`,"%s"`, secondary)
	}
	return write(buf, s)
}

// FormatDNSResolve formats `AT+QIDNSGIP=<ctx>,"<host>"`.
func FormatDNSResolve(buf []byte, ctxID int, host string) (int, error) {
	return write(buf, fmt.Sprintf(`AT+QIDNSGIP=%d,"%s"`, ctxID, host))
}

// FormatServiceSelectionSet formats
// `AT+COPS=<mode>,<format>,"<oper>"[,<rat>]`.
func FormatServiceSelectionSet(buf []byte, mode uint8, format celltypes.OperatorFormat, operator string, rat celltypes.RAT) (int, error) {
	s := fmt.Sprintf(`AT+COPS=%d,%d,"%s"`, mode, int(format), operator)
	if rat != celltypes.RATInvalid {
		s += fmt.Sprintf(",%d", int(rat))
	}
	return write(buf, s)
}

// FormatFileUploadHeader formats `AT+QFUPL="<name>",<len>[,<timeoutSec>]`.
func FormatFileUploadHeader(buf []byte, name string, length int, timeoutSec int) (int, error) {
	s := fmt.Sprintf(`AT+QFUPL="%s",%d`, name, length)
	if timeoutSec > 0 {
		s += fmt.Sprintf(",%d", timeoutSec)
	}
	return write(buf, s)
}

// FormatFileDelete formats `AT+QFDEL="<name>"`.
func FormatFileDelete(buf []byte, name string) (int, error) {
	return write(buf, fmt.Sprintf(`AT+QFDEL="%s"`, name))
}

// FormatFileCRC formats `AT+QFCRC="<name>"`.
func FormatFileCRC(buf []byte, name string) (int, error) {
	return write(buf, fmt.Sprintf(`AT+QFCRC="%s"`, name))
}

// FormatFlowControlSet formats "AT+IFC=<dceByDTE>,<dteByDCE>".
func FormatFlowControlSet(buf []byte, fc celltypes.FlowControl) (int, error) {
	var dce, dte int
	switch fc {
	case celltypes.FlowControlNone:
		dce, dte = 0, 0
	case celltypes.FlowControlRTSOnly:
		dce, dte = 2, 0
	case celltypes.FlowControlCTSOnly:
		dce, dte = 0, 2
	case celltypes.FlowControlRTSCTS:
		dce, dte = 2, 2
	default:
		return 0, errors.New("cellfmt: invalid flow control setting")
	}
	return write(buf, fmt.Sprintf("AT+IFC=%d,%d", dce, dte))
}

// FormatBaudRateSet formats "AT+IPR=<baud>".
func FormatBaudRateSet(buf []byte, baud uint32) (int, error) {
	return write(buf, fmt.Sprintf("AT+IPR=%d", baud))
}

// FormatPowerDown formats "AT+QPOWD=<mode>".
func FormatPowerDown(buf []byte, mode uint8) (int, error) {
	return write(buf, fmt.Sprintf("AT+QPOWD=%d", mode))
}

// FormatCFUNSet formats "AT+CFUN=<mode>".
func FormatCFUNSet(buf []byte, mode celltypes.CFUNMode) (int, error) {
	var v int
	switch mode {
	case celltypes.CFUNMinimum:
		v = 0
	case celltypes.CFUNFull:
		v = 1
	case celltypes.CFUNSIMOnly:
		v = 4
	default:
		return 0, errors.New("cellfmt: invalid CFUN mode")
	}
	return write(buf, fmt.Sprintf("AT+CFUN=%d", v))
}
