package bot

import (
	"context"
	"time"
)

// RobustExecute calls f up to n times and waits d between failed attempts.
// It returns the last error, or ctx's error when ctx is done before f
// succeeds.
func RobustExecute(ctx context.Context, n int, d time.Duration, f func() error) error {
	if n <= 0 {
		n = 1
	}

	var err error
	for i := 0; i < n; i++ {
		if err = f(); err == nil {
			return nil
		}

		if i == n-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}
	return err
}
