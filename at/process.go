package at

import (
	"context"

	"github.com/binsentry/cellular-bg770/celltok"
)

// processReq writes req's command and collects its response.
func (e *Engine) processReq(ctx context.Context, req Request) result {
	e.waitWriteGuard()
	if err := e.writeCommand(req); err != nil {
		return result{err: err}
	}
	defer e.startWriteGuard()
	prefix := req.prefix()
	cmdID := parseCmdID(req.Cmd)
	var rsp Response
	for {
		select {
		case <-ctx.Done():
			return result{rsp: rsp, err: ctx.Err()}
		case line, ok := <-e.cLines:
			if !ok {
				return result{err: ErrClosed}
			}
			done, err := e.applyLine(&rsp, line, req, prefix, cmdID)
			if err != nil {
				return result{rsp: rsp, err: err}
			}
			if done {
				return result{rsp: rsp}
			}
		}
	}
}

// applyLine folds one received line or raw frame into rsp according to
// req.Shape, reporting whether the command is now complete (and, on
// failure, the terminal error).
func (e *Engine) applyLine(rsp *Response, line rxLine, req Request, prefix, cmdID string) (bool, error) {
	if line.isRaw {
		rsp.Raw = append(rsp.Raw, line.raw...)
		return false, nil
	}
	text := line.text
	if text == "" {
		return false, nil
	}
	if text == ">" {
		if req.SendPayload != nil {
			if _, err := e.modem.Write(req.SendPayload); err != nil {
				return true, err
			}
		}
		return false, nil
	}
	if tok, ok := matchToken(text, e.o.successTokens); ok {
		_ = tok
		return true, nil
	}
	if tok, ok := matchToken(text, e.o.errorTokens); ok {
		return true, newStatusError(tok, text)
	}
	if hasPrefix(text, "AT"+cmdID) {
		// echo of the command line itself; never info.
		return false, nil
	}
	switch req.Shape {
	case celltok.NoResult:
		// unexpected info line for a no-result command: ignored.
	case celltok.WithPrefix, celltok.MultiDataWoPrefix:
		if hasPrefix(text, prefix) {
			rsp.Info = append(rsp.Info, text)
		}
	case celltok.MultiWoPrefix, celltok.WoPrefix:
		rsp.Info = append(rsp.Info, text)
	}
	return false, nil
}

func matchToken(line string, tokens []string) (string, bool) {
	for _, tok := range tokens {
		if hasPrefix(line, tok) {
			return tok, true
		}
	}
	return "", false
}

