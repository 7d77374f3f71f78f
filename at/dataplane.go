package at

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// rxLine is one unit read from the modem: either a CRLF-delimited text line
// or, immediately following a data-plane count line, a fixed-length block of
// raw payload bytes that must not be interpreted as text (it may contain
// arbitrary bytes, including '\r'/'\n').
type rxLine struct {
	text  string
	raw   []byte
	isRaw bool
}

// dataPlaneDetector recognises one line shape that introduces a raw payload:
// spec.md component C5 names exactly two ("+QIRD:", "+QSSLRECV:"); the third
// data-plane shape, the bare ">" send-prompt, needs no length lookup and is
// handled directly by readLine.
type dataPlaneDetector struct {
	prefix string
	length func(line string) (int, bool)
}

var dataPlaneDetectors = []dataPlaneDetector{
	{prefix: "+QIRD:", length: parseRecvDataLen},
	{prefix: "+QSSLRECV:", length: parseRecvDataLen},
}

// parseRecvDataLen extracts the payload length from a socket-receive data
// reply, e.g. "+QIRD: 42". It is distinguished from the statistics-only
// reply ("+QIRD: <total>,<read>,<unread>", parsed by
// cellparse.ParseReceiveStats) by having exactly one field: the stats reply
// never carries a trailing raw payload.
func parseRecvDataLen(line string) (int, bool) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return 0, false
	}
	body := strings.TrimSpace(line[idx+1:])
	if strings.ContainsRune(body, ',') {
		return 0, false
	}
	n, err := strconv.Atoi(body)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// detectRaw reports the number of raw payload bytes that follow text, if
// any data-plane detector's prefix matches.
func detectRaw(text string) (int, bool) {
	for _, d := range dataPlaneDetectors {
		if strings.HasPrefix(text, d.prefix) {
			if n, ok := d.length(text); ok {
				return n, true
			}
		}
	}
	return 0, false
}

// lineReader pulls rxLines from m and forwards them to out until m returns
// an error, at which point out is closed to signal end-of-pipeline.
func lineReader(m io.Reader, out chan<- rxLine) {
	defer close(out)
	br := bufio.NewReaderSize(m, 4096)
	for {
		text, err := readLine(br)
		if err != nil {
			return
		}
		out <- rxLine{text: text}
		if n, ok := detectRaw(text); ok && n > 0 {
			buf := make([]byte, n)
			if _, err := io.ReadFull(br, buf); err != nil {
				return
			}
			out <- rxLine{raw: buf, isRaw: true}
		}
	}
}

// readLine reads one logical line from br: either a CRLF-terminated text
// line (CRLF stripped), or the bare ">" send-prompt, which the modem emits
// with no CRLF of its own (matching the teacher's SMS-prompt special case)
// and which may be followed by stray trailing spaces that are swallowed
// here rather than returned as part of the token.
func readLine(br *bufio.Reader) (string, error) {
	b, err := br.ReadByte()
	if err != nil {
		return "", err
	}
	if b == '>' {
		for {
			p, err := br.Peek(1)
			if err != nil || p[0] != ' ' {
				break
			}
			_, _ = br.ReadByte()
		}
		return ">", nil
	}
	var sb strings.Builder
	sb.WriteByte(b)
	for {
		c, err := br.ReadByte()
		if err != nil {
			return strings.TrimSuffix(sb.String(), "\r"), err
		}
		if c == '\n' {
			return strings.TrimSuffix(sb.String(), "\r"), nil
		}
		sb.WriteByte(c)
	}
}
