// Package clock holds the context-aware waits shared by the control loops.
package clock

import (
	"context"
	"time"
)

// Sleep waits for d unless ctx ends first, in which case it returns ctx's
// error. A non-positive d only checks ctx.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
