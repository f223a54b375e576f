package async

import (
	"context"
	"time"

	"github.com/platinummonkey/kgsearch/pkg/observability"
)

// SafeGo runs fn in a goroutine bounded by timeout. Errors and panics are
// logged with the task name instead of crashing the process. The returned
// channel is closed once fn returned.
//
// Example:
//
//	async.SafeGo(ctx, logger, 10*time.Minute, "sitemap warm up", func(ctx context.Context) error {
//	    _, err := generator.Refresh(ctx)
//	    return err
//	})
func SafeGo(parentCtx context.Context, logger *observability.Logger, timeout time.Duration, taskName string, fn func(context.Context) error) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer observability.RecoverPanic(logger, taskName)

		ctx, cancel := context.WithTimeout(parentCtx, timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			logger.WithError(err).WithField("task", taskName).Warn("Background task failed")
		}
	}()
	return done
}
