package jobs

import (
	"context"
	"fmt"
	"time"
)

// Wait polls the job status every interval until the job succeeds or fails,
// or ctx ends. A failed job is reported as ErrJobFailed wrapping the
// service's message.
func Wait(ctx context.Context, svc Service, jobID string, interval time.Duration) (JobStatus, error) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := svc.Status(ctx, jobID)
		if err != nil {
			return JobStatus{}, err
		}
		switch status.State {
		case StateSucceeded:
			return status, nil
		case StateFailed:
			msg := status.Error
			if msg == "" {
				msg = "no error message"
			}
			return status, fmt.Errorf("%w: %s", ErrJobFailed, msg)
		}

		select {
		case <-ctx.Done():
			return status, fmt.Errorf("timeout waiting for job %s: %w", jobID, ctx.Err())
		case <-ticker.C:
		}
	}
}
