package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// retryPolicy bounds retries of outbound API calls.
type retryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetries      uint64
}

var defaultRetryPolicy = retryPolicy{
	InitialInterval: 300 * time.Millisecond,
	MaxInterval:     3 * time.Second,
	MaxRetries:      3,
}

func (p retryPolicy) run(ctx context.Context, logger *zap.Logger, label string, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.InitialInterval
	bo.MaxInterval = p.MaxInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, p.MaxRetries), ctx)
	return backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		logger.Warn("retrying outbound request",
			zap.String("target", label),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
}

// statusError classifies an HTTP status: 5xx and 429 are retried, other
// failures are permanent.
func statusError(label string, resp *http.Response, detail string) error {
	err := fmt.Errorf("%s returned %s: %s", label, resp.Status, detail)
	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return err
	}
	return backoff.Permanent(err)
}
