//go:build linux

package serial

import (
	hwserial "github.com/daedaluz/goserial"
)

// HWFlowPort is a serial port opened directly against the Linux termios
// ioctls, used in place of New when the BG770 UART needs RTS/CTS hardware
// flow control. tarm/serial has no way to set CRTSCTS, so this talks to the
// kernel line discipline itself.
type HWFlowPort struct {
	p *hwserial.Port
}

// NewHardwareFlowControl opens port at baud with RTS/CTS hardware flow
// control enabled and DTR dropped, giving AT&D0/flow-control enablement
// steps a real hardware-backed counterpart to the modem-side AT negotiation.
func NewHardwareFlowControl(port string, baud uint32) (*HWFlowPort, error) {
	p, err := hwserial.Open(port, nil)
	if err != nil {
		return nil, err
	}
	attrs, err := p.GetAttr2()
	if err != nil {
		p.Close()
		return nil, err
	}
	attrs.MakeRaw()
	attrs.SetCustomSpeed(baud)
	attrs.Cflag |= hwserial.CRTSCTS
	attrs.Cflag |= hwserial.CREAD | hwserial.CLOCAL
	if err := p.SetAttr2(hwserial.TCSANOW, attrs); err != nil {
		p.Close()
		return nil, err
	}
	if err := p.DisableModemLines(hwserial.TIOCM_DTR); err != nil {
		p.Close()
		return nil, err
	}
	return &HWFlowPort{p: p}, nil
}

func (h *HWFlowPort) Read(b []byte) (int, error) {
	return h.p.Read(b)
}

func (h *HWFlowPort) Write(b []byte) (int, error) {
	return h.p.Write(b)
}

func (h *HWFlowPort) Close() error {
	return h.p.Close()
}
