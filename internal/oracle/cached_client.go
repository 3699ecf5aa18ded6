package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/yourusername/goal-edge/internal/models"
)

// CachedAdvisor memoizes advice per fixture so a re-run of the pipeline
// within the TTL does not re-query the oracle. Failures are not cached.
type CachedAdvisor struct {
	advisor Advisor
	cache   *cache.Cache

	hits   int64
	misses int64
}

// NewCachedAdvisor wraps an advisor with a TTL cache
func NewCachedAdvisor(advisor Advisor, ttl time.Duration) *CachedAdvisor {
	return &CachedAdvisor{
		advisor: advisor,
		cache:   cache.New(ttl, ttl*2),
	}
}

// Advise returns cached advice for the fixture when present
func (c *CachedAdvisor) Advise(ctx context.Context, req AdviceRequest) (*Advice, error) {
	key := fmt.Sprintf("advice:%d:%s", req.Fixture.FixtureID, models.MarketOverUnder25)

	if cached, found := c.cache.Get(key); found {
		c.hits++
		c.updateHitRatio()
		return cached.(*Advice), nil
	}

	c.misses++
	c.updateHitRatio()

	advice, err := c.advisor.Advise(ctx, req)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, advice, cache.DefaultExpiration)
	return advice, nil
}

func (c *CachedAdvisor) updateHitRatio() {
	total := c.hits + c.misses
	if total == 0 {
		return
	}
	AdviceCacheHitRatio.Set(float64(c.hits) / float64(total))
}

// ItemCount returns the number of cached advice entries
func (c *CachedAdvisor) ItemCount() int {
	return c.cache.ItemCount()
}
