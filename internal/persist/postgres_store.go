package persist

import (
	"context"

	"github.com/galaxyhost/server/internal/config"
)

// PostgresStore implements Store over a pgx connection pool, delegating to
// one small repo per entity (teacher's `internal/persist` layout).
type PostgresStore struct {
	db   *DB
	play playerRepo
	data playerDataRepo
	gaw  gawRepo
	lb   leaderboardRepo
	cls  playerClassRepo
}

func NewPostgresStore(db *DB, gawCfg config.GalaxyAtWarConfig) *PostgresStore {
	return &PostgresStore{
		db:   db,
		play: playerRepo{db: db},
		data: playerDataRepo{db: db},
		gaw:  gawRepo{db: db, dailyDecay: gawCfg.DailyDecay},
		lb:   leaderboardRepo{db: db},
		cls:  playerClassRepo{db: db},
	}
}

func (s *PostgresStore) PlayerByID(ctx context.Context, id uint32) (*Player, error) {
	return s.play.byID(ctx, id)
}

func (s *PostgresStore) PlayerByEmail(ctx context.Context, email string) (*Player, error) {
	return s.play.byEmail(ctx, email)
}

func (s *PostgresStore) CreatePlayer(ctx context.Context, email, displayName string, passwordHash *string) (*Player, error) {
	return s.play.create(ctx, email, displayName, passwordHash)
}

func (s *PostgresStore) SetPlayerPassword(ctx context.Context, id uint32, hash string) error {
	return s.play.setPassword(ctx, id, hash)
}

func (s *PostgresStore) SetDisplayName(ctx context.Context, id uint32, name string) error {
	return s.play.setDisplayName(ctx, id, name)
}

func (s *PostgresStore) SetEmail(ctx context.Context, id uint32, email string) error {
	return s.play.setEmail(ctx, id, email)
}

func (s *PostgresStore) SetRole(ctx context.Context, id uint32, role Role) error {
	return s.play.setRole(ctx, id, role)
}

func (s *PostgresStore) SetLastLoginAt(ctx context.Context, id uint32) error {
	return s.play.setLastLoginAt(ctx, id)
}

func (s *PostgresStore) PlayerDataGet(ctx context.Context, playerID uint32, key string) (string, bool, error) {
	return s.data.get(ctx, playerID, key)
}

func (s *PostgresStore) PlayerDataSet(ctx context.Context, playerID uint32, key, value string) error {
	return s.data.set(ctx, playerID, key, value)
}

func (s *PostgresStore) PlayerDataAll(ctx context.Context, playerID uint32) (map[string]string, error) {
	return s.data.all(ctx, playerID)
}

func (s *PostgresStore) GAWGetOrCreate(ctx context.Context, playerID uint32) (*GalaxyAtWar, error) {
	return s.gaw.getOrCreate(ctx, playerID)
}

func (s *PostgresStore) GAWUpdate(ctx context.Context, playerID uint32, mutate func(*GalaxyAtWar)) (*GalaxyAtWar, error) {
	return s.gaw.update(ctx, playerID, mutate)
}

func (s *PostgresStore) LeaderboardUpsert(ctx context.Context, ty LeaderboardKind, playerID uint32, value uint32) error {
	return s.lb.upsert(ctx, ty, playerID, value)
}

func (s *PostgresStore) LeaderboardAll(ctx context.Context, ty LeaderboardKind) ([]LeaderboardRow, error) {
	return s.lb.all(ctx, ty)
}

func (s *PostgresStore) PlayerClassesAll(ctx context.Context, playerID uint32) ([]PlayerClass, error) {
	return s.cls.all(ctx, playerID)
}

func (s *PostgresStore) DisplayNameFor(ctx context.Context, playerID uint32) (string, error) {
	return s.play.displayNameFor(ctx, playerID)
}

var _ Store = (*PostgresStore)(nil)
