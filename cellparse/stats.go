package cellparse

import (
	"strconv"

	"github.com/binsentry/cellular-bg770/celltypes"
)

// ParseReceiveStats parses the "AT+QIRD=<id>,0" / "AT+QSSLRECV=<id>,0"
// get-statistics reply, which uses the same prefix as the data variant but
// carries three unsigned fields: total, read, unread.
func ParseReceiveStats(line, prefix string) (celltypes.ReceiveStats, bool) {
	var invalid celltypes.ReceiveStats
	body, ok := stripPrefix(line, prefix)
	if !ok {
		return invalid, false
	}
	tok := splitFields(body)
	if len(tok) < 3 {
		return invalid, false
	}
	total, err := strconv.ParseUint(tok[0], 10, 32)
	if err != nil {
		return invalid, false
	}
	read, err := strconv.ParseUint(tok[1], 10, 32)
	if err != nil {
		return invalid, false
	}
	unread, err := strconv.ParseUint(tok[2], 10, 32)
	if err != nil {
		return invalid, false
	}
	return celltypes.ReceiveStats{
		Total:  uint32(total),
		Read:   uint32(read),
		Unread: uint32(unread),
	}, true
}
