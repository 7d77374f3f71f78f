package cellular

import (
	"errors"
	"sync"
)

// mockModem replays scripted responses keyed by the exact bytes written,
// the same test-double shape used in at/socket/dnsresolve's own tests.
// Unmatched writes get a bare "OK" so enablement steps this test doesn't
// care about don't block.
type mockModem struct {
	mu     sync.Mutex
	cmdSet map[string][]string
	r      chan []byte
	closed bool
}

func newMockModem(cmdSet map[string][]string) *mockModem {
	return &mockModem{cmdSet: cmdSet, r: make(chan []byte, 64)}
}

func (m *mockModem) Read(p []byte) (int, error) {
	data, ok := <-m.r
	if !ok {
		return 0, errors.New("closed")
	}
	return copy(p, data), nil
}

func (m *mockModem) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, errors.New("closed")
	}
	lines, ok := m.cmdSet[string(p)]
	if !ok {
		lines = []string{"\r\nOK\r\n"}
	}
	for _, l := range lines {
		m.r <- []byte(l)
	}
	return len(p), nil
}

func (m *mockModem) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.r)
	}
	return nil
}

// push injects a raw line (e.g. an unsolicited URC) as if read from the
// modem, without it having been triggered by a write.
func (m *mockModem) push(s string) {
	m.r <- []byte(s)
}
