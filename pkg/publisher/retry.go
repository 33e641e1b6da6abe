package publisher

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/entrhq/adpilot/pkg/logging"
	"github.com/entrhq/adpilot/pkg/progress"
	"github.com/entrhq/adpilot/pkg/types"
)

// Policy is the bounded-retry policy applied around whole pipeline runs.
// It is immutable and shared read-only across attempts.
type Policy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// StatusListener is optionally implemented by reporters that track the
// attempt lifecycle, in the manner of http.Flusher. The executor probes
// for it so transport-only reporters stay trivial.
type StatusListener interface {
	AttemptStarted(attempt int)
	Retrying(attempt int, err error)
}

// Run executes op up to policy.MaxAttempts times with a fixed backoff
// between attempts. Each attempt must construct its own session; the
// target workflow is stateful and order-dependent, so the only safe
// recovery unit is a full restart with clean state.
//
// Success at any attempt returns immediately. A failure with attempts
// remaining emits a retrying progress event and waits the backoff. On
// exhaustion a failure outcome carrying the last error's description is
// returned. Errors are not classified: business rejections and unsupported
// input retry like transient failures (see DESIGN.md).
func Run[T any](ctx context.Context, policy Policy, reporter progress.Reporter, op func(ctx context.Context, attempt int) (T, error)) types.Outcome[T] {
	var lastErr error
	listener, _ := reporter.(StatusListener)

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if listener != nil {
			listener.AttemptStarted(attempt)
		}

		result, err := op(ctx, attempt)
		if err == nil {
			return types.Ok(result)
		}

		lastErr = err
		logging.Warn("publication attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", policy.MaxAttempts),
			zap.Error(err),
		)

		if attempt == policy.MaxAttempts {
			reporter.Report(fmt.Sprintf("fatal error after %d attempts: %v", policy.MaxAttempts, err), 0)
			break
		}

		if listener != nil {
			listener.Retrying(attempt, err)
		}
		reporter.Report(fmt.Sprintf("temporary failure (%v), retrying in %s", err, policy.Backoff), 0)

		select {
		case <-time.After(policy.Backoff):
		case <-ctx.Done():
			return types.Fail[T](fmt.Sprintf("operation aborted: %v (last error: %v)", ctx.Err(), lastErr))
		}
	}

	return types.Fail[T](fmt.Sprintf("operation failed after %d attempts, last error: %v", policy.MaxAttempts, lastErr))
}
