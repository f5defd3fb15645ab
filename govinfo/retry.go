package govinfo

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// DefaultRetryDelays returns the backoff schedule for large binary
// downloads: six retries spread over a few minutes, since the zip endpoint
// intermittently drops connections mid-transfer.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{
		5 * time.Second,
		10 * time.Second,
		20 * time.Second,
		30 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
}

// retry runs attempt up to len(delays)+1 times, sleeping between attempts
// and honoring context cancellation. The last error is returned when all
// attempts fail.
func retry(ctx context.Context, delays []time.Duration, logger *slog.Logger, what string, attempt func() error) error {
	maxAttempts := len(delays) + 1

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		lastErr = attempt()
		if lastErr == nil {
			return nil
		}

		if i >= maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		logger.Warn("retrying", "what", what, "attempt", i+2, "err", lastErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[i]):
		}
	}

	return lastErr
}

// rewind resets w between download attempts when it supports it, so a
// retried transfer does not append to the partial bytes of a failed one.
// File-backed sinks (the fs layer's temp files) support it.
func rewind(w io.Writer) error {
	type seekTruncater interface {
		io.Seeker
		Truncate(size int64) error
	}
	st, ok := w.(seekTruncater)
	if !ok {
		return nil
	}
	if _, err := st.Seek(0, io.SeekStart); err != nil {
		return err
	}
	return st.Truncate(0)
}
