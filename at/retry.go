package at

import (
	"context"
	"time"
)

// RetryPolicy bounds ExecuteWithRetry's quadratic backoff: the delay before
// attempt n (1-based, n>1) is BaseDelay * (n-1)^2.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy is the policy spec.md §4.4 names for transient
// command failures: up to 4 attempts, 1s/4s/9s backoff.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 4, BaseDelay: time.Second}

// ExecuteWithRetry calls Execute up to policy.MaxAttempts times, backing off
// quadratically between attempts, and returns the first success or the last
// failure. ctx cancellation aborts both an in-flight Execute and any
// pending backoff sleep.
func (e *Engine) ExecuteWithRetry(ctx context.Context, req Request, policy RetryPolicy) (Response, error) {
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := policy.BaseDelay * time.Duration((attempt-1)*(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return Response{}, ctx.Err()
			}
		}
		rsp, err := e.Execute(ctx, req)
		if err == nil {
			return rsp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
	}
	return Response{}, lastErr
}

// ExecuteSend issues cmd and, once the modem's ">" send-prompt is seen,
// writes payload as the command's binary body — the protocol +QISEND,
// +QSSLSEND, and +QFUPL all share.
func (e *Engine) ExecuteSend(ctx context.Context, cmd string, payload []byte) (Response, error) {
	return e.Execute(ctx, Request{Cmd: cmd, SendPayload: payload})
}
