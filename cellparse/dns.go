package cellparse

import "strconv"

// ParseDNSResultURC parses the first line of a "+QIURC: \"dnsgip\",..."
// pair, `+QIURC: "dnsgip",<err>,<count>,<ttl>`: err is 0 on success, count
// is how many address lines follow.
func ParseDNSResultURC(line string) (code, count int, ok bool) {
	body, ok := stripPrefix(line, "+QIURC:")
	if !ok {
		return 0, 0, false
	}
	tok := splitFields(body)
	if len(tok) < 3 || tok[0] != "dnsgip" {
		return 0, 0, false
	}
	code64, err := strconv.Atoi(tok[1])
	if err != nil {
		return 0, 0, false
	}
	count64, err := strconv.Atoi(tok[2])
	if err != nil {
		return 0, 0, false
	}
	return code64, count64, true
}

// ParseDNSAddressURC parses an address line of the same burst,
// `+QIURC: "dnsgip","<ip>"`.
func ParseDNSAddressURC(line string) (ip string, ok bool) {
	body, ok := stripPrefix(line, "+QIURC:")
	if !ok {
		return "", false
	}
	tok := splitFields(body)
	if len(tok) != 2 || tok[0] != "dnsgip" {
		return "", false
	}
	if tok[1] == "" {
		return "", false
	}
	return tok[1], true
}
