package at

import (
	"strings"

	"github.com/pkg/errors"
)

// CMEError indicates a "+CME ERROR:" was returned by the modem. The value
// is the error value in string form, numeric or textual depending on modem
// configuration.
type CMEError string

// CMSError indicates a "+CMS ERROR:" was returned by the modem.
type CMSError string

func (e CMEError) Error() string { return "CME Error: " + string(e) }
func (e CMSError) Error() string { return "CMS Error: " + string(e) }

var (
	// ErrClosed indicates an operation cannot be performed as the modem
	// has been closed.
	ErrClosed = errors.New("at: closed")
	// ErrError indicates the modem returned a generic AT ERROR in response
	// to a command that carries no CME/CMS error code.
	ErrError = errors.New("at: ERROR")
	// ErrIndicationExists indicates there is already an indication
	// registered for a prefix.
	ErrIndicationExists = errors.New("at: indication exists")
	// ErrTruncated indicates a formatter could not fit the command into
	// its buffer; Execute never sees a truncated command line.
	ErrTruncated = errors.New("at: command truncated")
)

// newStatusError builds the error value for a matched error token.
func newStatusError(tok, line string) error {
	body := strings.TrimSpace(line[len(tok):])
	switch tok {
	case "+CMS ERROR:":
		return CMSError(body)
	case "+CME ERROR:":
		return CMEError(body)
	default:
		return ErrError
	}
}
