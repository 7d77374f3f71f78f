// Package serial provides a serial port, which provides the io.ReadWriteCloser
// interface, that provides the connection between the at package and the
// physical modem.
package serial

import (
	"github.com/tarm/serial"
)

// Config holds the parameters for a serial port.
// The zero value is not usable directly - populate via New's Option set,
// which starts from the platform defaultConfig.
type Config struct {
	port string
	baud int
}

// Option modifies a Config created by New.
type Option func(*Config)

// WithPort overrides the device path used to open the serial port.
func WithPort(port string) Option {
	return func(c *Config) {
		c.port = port
	}
}

// WithBaud overrides the baud rate used to open the serial port.
func WithBaud(baud int) Option {
	return func(c *Config) {
		c.baud = baud
	}
}

// New opens a serial port, applying opts over the platform default
// (defaultConfig, defined per-GOOS).
func New(opts ...Option) (*serial.Port, error) {
	cfg := defaultConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	sc := &serial.Config{Name: cfg.port, Baud: cfg.baud}
	p, err := serial.OpenPort(sc)
	if err != nil {
		return nil, err
	}
	return p, nil
}
