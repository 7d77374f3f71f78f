package dnsresolve

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/binsentry/cellular-bg770/at"
)

// mockModem answers every write with "\r\nOK\r\n" and counts writes, which
// is all these tests need — the interesting behaviour lives in the
// Deliver*/Resolve rendezvous, not in AT framing (already covered by the at
// and socket packages' tests).
type mockModem struct {
	mu     sync.Mutex
	writes int
	r      chan []byte
}

func newMockModem() *mockModem {
	return &mockModem{r: make(chan []byte, 10)}
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
	m.writes++
	m.mu.Unlock()
	m.r <- []byte("\r\nOK\r\n")
	return len(p), nil
}

func (m *mockModem) Close() error { close(m.r); return nil }

func (m *mockModem) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func TestResolveSuccess(t *testing.T) {
	mm := newMockModem()
	e := at.New(mm)
	defer mm.Close()
	r := New(e, 1)

	resCh := make(chan struct {
		ip  string
		err error
	}, 1)
	go func() {
		ip, err := r.Resolve(context.Background(), "example.com")
		resCh <- struct {
			ip  string
			err error
		}{ip, err}
	}()

	waitForWrite(t, mm, 1)
	r.DeliverResult(0, 1)
	r.DeliverAddress("93.184.216.34")

	select {
	case got := <-resCh:
		assert.NoError(t, got.err)
		assert.Equal(t, "93.184.216.34", got.ip)
	case <-time.After(time.Second):
		t.Fatal("Resolve did not return")
	}
}

func TestResolveFailedCode(t *testing.T) {
	mm := newMockModem()
	e := at.New(mm)
	defer mm.Close()
	r := New(e, 1)

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Resolve(context.Background(), "example.com")
		errCh <- err
	}()

	waitForWrite(t, mm, 1)
	r.DeliverResult(565, 0)

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrFailed)
	case <-time.After(time.Second):
		t.Fatal("Resolve did not return")
	}
}

func TestResolveSpuriousSecondAddressDiscarded(t *testing.T) {
	mm := newMockModem()
	e := at.New(mm)
	defer mm.Close()
	r := New(e, 1)

	resCh := make(chan string, 1)
	go func() {
		ip, _ := r.Resolve(context.Background(), "example.com")
		resCh <- ip
	}()

	waitForWrite(t, mm, 1)
	r.DeliverResult(0, 2)
	r.DeliverAddress("93.184.216.34")
	r.DeliverAddress("93.184.216.35") // should be logged and discarded, not delivered

	select {
	case ip := <-resCh:
		assert.Equal(t, "93.184.216.34", ip)
	case <-time.After(time.Second):
		t.Fatal("Resolve did not return")
	}
}

func TestResolveContextCancel(t *testing.T) {
	mm := newMockModem()
	e := at.New(mm)
	defer mm.Close()
	r := New(e, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := r.Resolve(ctx, "example.com")
	assert.Equal(t, context.DeadlineExceeded, err)
}

func TestConcurrentResolveSerializes(t *testing.T) {
	mm := newMockModem()
	e := at.New(mm)
	defer mm.Close()
	r := New(e, 1)

	done1 := make(chan string, 1)
	go func() {
		ip, _ := r.Resolve(context.Background(), "a.example.com")
		done1 <- ip
	}()
	waitForWrite(t, mm, 1)

	done2 := make(chan string, 1)
	go func() {
		ip, _ := r.Resolve(context.Background(), "b.example.com")
		done2 <- ip
	}()

	// second resolve must not issue its AT command while the first is
	// still in flight, since resolveMu serialises the whole call.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, mm.writeCount())

	r.DeliverResult(0, 1)
	r.DeliverAddress("10.0.0.1")
	assert.Equal(t, "10.0.0.1", <-done1)

	waitForWrite(t, mm, 2)
	r.DeliverResult(0, 1)
	r.DeliverAddress("10.0.0.2")
	assert.Equal(t, "10.0.0.2", <-done2)
}

func waitForWrite(t *testing.T, mm *mockModem, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if mm.writeCount() >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d writes, got %d", n, mm.writeCount())
}
