package gdrive

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/api/googleapi"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/logger"
)

// maxElapsedRetry bounds the total time spent retrying one API call.
const maxElapsedRetry = 30 * time.Second

// call runs one Drive API request under the rate limiter, retrying
// transient failures with exponential backoff. Permanent failures
// (404, 401, 403, malformed requests) are returned immediately.
func (s *Source) call(ctx context.Context, fn func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = maxElapsedRetry

	return backoff.Retry(func() error {
		if err := s.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		err := fn()
		if err == nil {
			return nil
		}
		if isTransient(err) {
			logger.Debug("Transient drive error, retrying: %v", err)
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(policy, ctx))
}

// isTransient reports whether a Drive API error is worth retrying:
// rate limiting and server-side failures are, everything else is not.
func isTransient(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500
	}
	// Transport-level failures (connection reset, DNS) arrive as plain
	// errors; retry them unless the context is done.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// translateErr maps Drive API failures onto the domain error taxonomy.
func translateErr(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusNotFound:
			return domain.ErrNotFound
		case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
			return domain.ErrMissingCredentials
		case gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500:
			return domain.ErrRemoteUnavailable
		default:
			return err
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return domain.ErrRemoteUnavailable
}
