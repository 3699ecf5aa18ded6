package datasource

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/goal-edge/internal/models"
)

// CachedSignalSource wraps a SignalSource with an in-memory TTL cache. Team
// statistics move slowly; caching them keeps a batch run inside the
// provider's request quota when many fixtures share teams.
type CachedSignalSource struct {
	source SignalSource
	cache  *cache.Cache
	ttl    time.Duration
}

// NewCachedSignalSource creates a caching wrapper around a signal source
func NewCachedSignalSource(source SignalSource, ttl time.Duration) *CachedSignalSource {
	return &CachedSignalSource{
		source: source,
		cache:  cache.New(ttl, ttl*2),
		ttl:    ttl,
	}
}

// FetchTeamStats retrieves season statistics, serving repeats from cache
func (c *CachedSignalSource) FetchTeamStats(ctx context.Context, teamID, leagueID, season int) (*models.TeamStats, error) {
	key := fmt.Sprintf("stats:%d:%d:%d", teamID, leagueID, season)
	if cached, found := c.cache.Get(key); found {
		if stats, ok := cached.(*models.TeamStats); ok {
			return stats, nil
		}
	}

	stats, err := c.source.FetchTeamStats(ctx, teamID, leagueID, season)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, stats, c.ttl)
	return stats, nil
}

// FetchInjuries retrieves the injury list, serving repeats from cache
func (c *CachedSignalSource) FetchInjuries(ctx context.Context, teamID, season int) (*models.InjuryReport, error) {
	key := fmt.Sprintf("injuries:%d:%d", teamID, season)
	if cached, found := c.cache.Get(key); found {
		if report, ok := cached.(*models.InjuryReport); ok {
			return report, nil
		}
	}

	report, err := c.source.FetchInjuries(ctx, teamID, season)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, report, c.ttl)
	return report, nil
}

// FetchHeadToHead retrieves recent meetings, serving repeats from cache
func (c *CachedSignalSource) FetchHeadToHead(ctx context.Context, homeID, awayID, limit int) ([]models.H2HScore, error) {
	key := fmt.Sprintf("h2h:%d:%d:%d", homeID, awayID, limit)
	if cached, found := c.cache.Get(key); found {
		if scores, ok := cached.([]models.H2HScore); ok {
			return scores, nil
		}
	}

	scores, err := c.source.FetchHeadToHead(ctx, homeID, awayID, limit)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, scores, c.ttl)
	return scores, nil
}

// ItemCount returns the number of cached entries
func (c *CachedSignalSource) ItemCount() int {
	return c.cache.ItemCount()
}
