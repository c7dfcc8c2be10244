package obs

import (
	"context"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// Time logs the duration of op when the returned func is deferred.
//
//	defer obs.Time(ctx, "planner.Plan")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		e := L(ctx).WithField("op", name).WithField("dur_ms", time.Since(start).Milliseconds())

		if errp != nil && *errp != nil {
			e.WithError(*errp).Warn("operation failed")
			return
		}
		e.Debug("operation done")
	}
}
