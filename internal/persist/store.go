package persist

import (
	"context"
	"errors"
)

// ErrNotFound is returned by single-row lookups that find nothing; callers
// treat it as "optional" rather than a database failure (spec.md §4.9:
// `Option<Player>` etc).
var ErrNotFound = errors.New("persist: not found")

// Store is the abstract persistence interface the core consumes (spec.md
// §4.9, C9). DbErr in the spec's taxonomy is any non-ErrNotFound error
// returned here; the router maps it to blaze.ErrServerUnavailableNothing.
type Store interface {
	PlayerByID(ctx context.Context, id uint32) (*Player, error)
	PlayerByEmail(ctx context.Context, email string) (*Player, error)
	CreatePlayer(ctx context.Context, email, displayName string, passwordHash *string) (*Player, error)
	SetPlayerPassword(ctx context.Context, id uint32, passwordHash string) error
	SetDisplayName(ctx context.Context, id uint32, displayName string) error
	SetEmail(ctx context.Context, id uint32, email string) error
	SetRole(ctx context.Context, id uint32, role Role) error
	SetLastLoginAt(ctx context.Context, id uint32) error

	PlayerDataGet(ctx context.Context, playerID uint32, key string) (string, bool, error)
	PlayerDataSet(ctx context.Context, playerID uint32, key, value string) error
	PlayerDataAll(ctx context.Context, playerID uint32) (map[string]string, error)

	GAWGetOrCreate(ctx context.Context, playerID uint32) (*GalaxyAtWar, error)
	GAWUpdate(ctx context.Context, playerID uint32, mutate func(*GalaxyAtWar)) (*GalaxyAtWar, error)

	LeaderboardUpsert(ctx context.Context, ty LeaderboardKind, playerID uint32, value uint32) error
	LeaderboardAll(ctx context.Context, ty LeaderboardKind) ([]LeaderboardRow, error)

	PlayerClassesAll(ctx context.Context, playerID uint32) ([]PlayerClass, error)

	DisplayNameFor(ctx context.Context, playerID uint32) (string, error)
}

// LeaderboardRow is one (player, value) pair read back for recomputation.
type LeaderboardRow struct {
	PlayerID uint32
	Value    uint32
}
