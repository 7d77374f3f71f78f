package at

import "github.com/binsentry/cellular-bg770/celltok"

// Request describes one AT command and how its response should be framed.
type Request struct {
	// Cmd is the command text without the leading "AT" or trailing CRLF,
	// e.g. `+QCSQ` or `+QICSGP=1,1,"apn","","",0`.
	Cmd string
	// Shape controls which lines between the echoed command and the final
	// status line are collected as Info.
	Shape celltok.ResponseShape
	// Prefix is the literal line prefix (e.g. "+QCSQ:") that introduces an
	// info line belonging to this command. If empty, it is derived from Cmd
	// by trimming at the first '=' or '?' and appending ":". Required
	// (and not derivable) for MultiDataWoPrefix requests, since the data
	// prefix ("+QIRD:"/"+QSSLRECV:") never matches the command text.
	Prefix string
	// SendPayload, if non-nil, is written verbatim (no added framing) to
	// the modem as soon as a bare ">" send-prompt line is seen, completing
	// the two-step command/binary-payload dance used by +QISEND/+QSSLSEND
	// and +QFUPL.
	SendPayload []byte
}

// Response is the result of a successful Execute.
type Response struct {
	// Info holds the non-status lines collected for the request, in
	// arrival order, per its Shape's framing rule.
	Info []string
	// Raw holds the data-plane payload bytes collected for a
	// MultiDataWoPrefix request. Empty for every other shape.
	Raw []byte
}

// prefix returns the request's effective response-line prefix.
func (r Request) prefix() string {
	if r.Prefix != "" {
		return r.Prefix
	}
	return parseCmdID(r.Cmd) + ":"
}

// parseCmdID returns the identifier component of the command: the section
// prior to any '=' or '?', which is almost always the prefix its info lines
// share.
func parseCmdID(cmd string) string {
	for i, c := range cmd {
		if c == '=' || c == '?' {
			return cmd[:i]
		}
	}
	return cmd
}
