// Package cache holds derived per-account values that are expensive to
// recompute: the current status duration and the previous status. Entries
// expire after a TTL and are dropped synchronously by Invalidate whenever the
// account status changes; a reader racing an invalidation may see the old
// value until the TTL passes.
package cache

import (
	"context"
	"time"

	"github.com/GlebRadaev/farmops/internal/domain"
)

const DefaultTTL = 5 * time.Minute

type AccountCache interface {
	Duration(ctx context.Context, accountID int) (time.Duration, bool)
	SetDuration(ctx context.Context, accountID int, d time.Duration)
	PreviousStatus(ctx context.Context, accountID int) (domain.Status, bool)
	SetPreviousStatus(ctx context.Context, accountID int, status domain.Status)
	Invalidate(ctx context.Context, accountID int)
}
