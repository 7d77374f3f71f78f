package cellparse

import "strconv"

// ParseSocketOpenResult parses the "+QIOPEN: <id>,<err>" URC the modem
// raises once an asynchronous AT+QIOPEN/AT+QSSLOPEN completes: id is the
// socket index, err is 0 on success and a PDP/connect failure code
// otherwise.
func ParseSocketOpenResult(line string) (id, errCode int, ok bool) {
	body, ok := stripPrefix(line, "+QIOPEN:")
	if !ok {
		return 0, 0, false
	}
	tok := splitFields(body)
	if len(tok) < 2 {
		return 0, 0, false
	}
	id64, err := strconv.Atoi(tok[0])
	if err != nil {
		return 0, 0, false
	}
	e64, err := strconv.Atoi(tok[1])
	if err != nil {
		return 0, 0, false
	}
	return id64, e64, true
}

// ParseSocketClosedURC parses the "+QIURC: "closed",<id>" URC the modem
// raises when the peer or the network tears down a connected socket.
func ParseSocketClosedURC(line string) (id int, ok bool) {
	body, ok := stripPrefix(line, "+QIURC:")
	if !ok {
		return 0, false
	}
	tok := splitFields(body)
	if len(tok) < 2 || tok[0] != "closed" {
		return 0, false
	}
	id64, err := strconv.Atoi(tok[1])
	if err != nil {
		return 0, false
	}
	return id64, true
}
