package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/GlebRadaev/farmops/internal/domain"
)

const defaultLRUSize = 4096

// LRU is the in-process AccountCache used when no Redis is configured.
type LRU struct {
	durations *expirable.LRU[int, time.Duration]
	previous  *expirable.LRU[int, domain.Status]
}

func NewLRU(size int, ttl time.Duration) *LRU {
	if size <= 0 {
		size = defaultLRUSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LRU{
		durations: expirable.NewLRU[int, time.Duration](size, nil, ttl),
		previous:  expirable.NewLRU[int, domain.Status](size, nil, ttl),
	}
}

func (c *LRU) Duration(_ context.Context, accountID int) (time.Duration, bool) {
	return c.durations.Get(accountID)
}

func (c *LRU) SetDuration(_ context.Context, accountID int, d time.Duration) {
	c.durations.Add(accountID, d)
}

func (c *LRU) PreviousStatus(_ context.Context, accountID int) (domain.Status, bool) {
	return c.previous.Get(accountID)
}

func (c *LRU) SetPreviousStatus(_ context.Context, accountID int, status domain.Status) {
	c.previous.Add(accountID, status)
}

func (c *LRU) Invalidate(_ context.Context, accountID int) {
	c.durations.Remove(accountID)
	c.previous.Remove(accountID)
}
