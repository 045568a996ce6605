package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GlebRadaev/farmops/internal/domain"
)

func TestLRU(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		prepare func(c *LRU)
		wantDur time.Duration
		wantOK  bool
	}{
		{
			name:    "Miss on empty cache",
			prepare: func(c *LRU) {},
		},
		{
			name: "Hit after set",
			prepare: func(c *LRU) {
				c.SetDuration(ctx, 1, 3*time.Hour)
			},
			wantDur: 3 * time.Hour,
			wantOK:  true,
		},
		{
			name: "Miss after invalidate",
			prepare: func(c *LRU) {
				c.SetDuration(ctx, 1, 3*time.Hour)
				c.SetPreviousStatus(ctx, 1, domain.StatusSurfing)
				c.Invalidate(ctx, 1)
			},
		},
		{
			name: "Other account untouched by invalidate",
			prepare: func(c *LRU) {
				c.SetDuration(ctx, 1, time.Minute)
				c.Invalidate(ctx, 2)
			},
			wantDur: time.Minute,
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewLRU(16, time.Minute)
			tt.prepare(c)
			d, ok := c.Duration(ctx, 1)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantDur, d)
		})
	}
}

func TestLRU_PreviousStatusInvalidated(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(0, 0)

	c.SetPreviousStatus(ctx, 7, domain.StatusWarming)
	st, ok := c.PreviousStatus(ctx, 7)
	assert.True(t, ok)
	assert.Equal(t, domain.StatusWarming, st)

	c.Invalidate(ctx, 7)
	_, ok = c.PreviousStatus(ctx, 7)
	assert.False(t, ok)
}

func TestLRU_Expires(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(16, 20*time.Millisecond)

	c.SetDuration(ctx, 1, time.Hour)
	assert.Eventually(t, func() bool {
		_, ok := c.Duration(ctx, 1)
		return !ok
	}, time.Second, 10*time.Millisecond)
}
