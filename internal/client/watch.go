package client

import (
	"context"
	"errors"
	"time"
)

// Watch queries addr immediately and then every interval until ctx is
// cancelled, passing each [Result] to fn. Failed queries are reported
// through Result.Error and do not stop the loop.
//
// Watch blocks and returns ctx's error on cancellation.
func (c *Client) Watch(ctx context.Context, addr string, interval time.Duration, fn func(Result)) error {
	if interval <= 0 {
		return errors.New("watch interval must be positive")
	}
	if fn == nil {
		return errors.New("watch callback cannot be nil")
	}

	fn(c.fetch(ctx, addr))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			res := c.fetch(ctx, addr)
			// a query cut short by cancellation is not worth reporting
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fn(res)
		}
	}
}
