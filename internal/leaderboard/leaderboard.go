// Package leaderboard implements C7: TTL-cached ranked groupings computed
// from persisted player data.
package leaderboard

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/galaxyhost/server/internal/persist"
)

// DefaultTTL is the cache validity window spec.md §3 mandates.
const DefaultTTL = time.Hour

// Entry is one ranked row in a computed group.
type Entry struct {
	PlayerID    uint32
	PlayerName  string
	Rank        int
	Value       uint32
}

type group struct {
	mu      sync.RWMutex
	values  []Entry
	expires time.Time
}

// Cache maintains one group per LeaderboardKind, recomputing from the
// store at most once per TTL window (spec.md §4.7).
type Cache struct {
	store persist.Store
	ttl   time.Duration

	mu     sync.Mutex
	groups map[persist.LeaderboardKind]*group
}

func NewCache(store persist.Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store:  store,
		ttl:    ttl,
		groups: make(map[persist.LeaderboardKind]*group),
	}
}

func (c *Cache) groupFor(ty persist.LeaderboardKind) *group {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.groups[ty]
	if !ok {
		g = &group{}
		c.groups[ty] = g
	}
	return g
}

// Get returns the ranked entries for ty, recomputing if the cached group
// has expired. At most one recomputation per type proceeds at a time;
// concurrent callers block on the write lock during recompute.
func (c *Cache) Get(ctx context.Context, ty persist.LeaderboardKind) ([]Entry, error) {
	g := c.groupFor(ty)

	g.mu.RLock()
	if time.Now().Before(g.expires) {
		values := g.values
		g.mu.RUnlock()
		return values, nil
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()
	if time.Now().Before(g.expires) {
		return g.values, nil
	}

	values, err := c.compute(ctx, ty)
	if err != nil {
		return nil, err
	}
	g.values = values
	g.expires = time.Now().Add(c.ttl)
	return values, nil
}

func (c *Cache) compute(ctx context.Context, ty persist.LeaderboardKind) ([]Entry, error) {
	switch ty {
	case persist.LeaderboardN7Rating:
		return c.computeN7Rating(ctx)
	case persist.LeaderboardChallengePoints:
		return c.computeChallengePoints(ctx)
	default:
		rows, err := c.store.LeaderboardAll(ctx, ty)
		if err != nil {
			return nil, err
		}
		return c.rank(ctx, rows)
	}
}

// computeN7Rating sums level + 20*promotions across a player's class rows
// (spec.md §4.7). PlayerClass rows are themselves the per-character
// contribution this server persists (see DESIGN.md).
func (c *Cache) computeN7Rating(ctx context.Context) ([]Entry, error) {
	rows, err := c.store.LeaderboardAll(ctx, persist.LeaderboardN7Rating)
	if err != nil {
		return nil, err
	}
	recomputed := make([]persist.LeaderboardRow, 0, len(rows))
	for _, row := range rows {
		classes, err := c.store.PlayerClassesAll(ctx, row.PlayerID)
		if err != nil {
			return nil, err
		}
		var total uint32
		for _, cl := range classes {
			total += cl.Level + 20*cl.Promotions
		}
		recomputed = append(recomputed, persist.LeaderboardRow{PlayerID: row.PlayerID, Value: total})
	}
	return c.rank(ctx, recomputed)
}

// computeChallengePoints reads the "Challenge Points" player-data key,
// treating a missing key as zero (spec.md §4.7, GLOSSARY).
func (c *Cache) computeChallengePoints(ctx context.Context) ([]Entry, error) {
	rows, err := c.store.LeaderboardAll(ctx, persist.LeaderboardChallengePoints)
	if err != nil {
		return nil, err
	}
	recomputed := make([]persist.LeaderboardRow, 0, len(rows))
	for _, row := range rows {
		raw, ok, err := c.store.PlayerDataGet(ctx, row.PlayerID, "Challenge Points")
		if err != nil {
			return nil, err
		}
		var value uint32
		if ok {
			if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
				value = uint32(v)
			}
		}
		recomputed = append(recomputed, persist.LeaderboardRow{PlayerID: row.PlayerID, Value: value})
	}
	return c.rank(ctx, recomputed)
}

func (c *Cache) rank(ctx context.Context, rows []persist.LeaderboardRow) ([]Entry, error) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})

	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		name, err := c.store.DisplayNameFor(ctx, row.PlayerID)
		if err != nil {
			name = ""
		}
		entries = append(entries, Entry{
			PlayerID:   row.PlayerID,
			PlayerName: name,
			Rank:       i + 1,
			Value:      row.Value,
		})
	}
	return entries, nil
}
