package persist

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
)

type gawRepo struct {
	db         *DB
	dailyDecay float64
}

func (r *gawRepo) scan(row pgx.Row) (*GalaxyAtWar, error) {
	var g GalaxyAtWar
	err := row.Scan(&g.ID, &g.PlayerID, &g.LastModified, &g.GroupA, &g.GroupB, &g.GroupC, &g.GroupD, &g.GroupE)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &g, err
}

func (r *gawRepo) getOrCreate(ctx context.Context, playerID uint32) (*GalaxyAtWar, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT id, player_id, last_modified, group_a, group_b, group_c, group_d, group_e
		 FROM galaxy_at_war WHERE player_id = $1`, playerID)
	g, err := r.scan(row)
	if err == nil {
		return r.applyDecay(ctx, g)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	var id uint32
	err = r.db.Pool.QueryRow(ctx,
		`INSERT INTO galaxy_at_war (player_id) VALUES ($1) RETURNING id`, playerID,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return &GalaxyAtWar{
		ID: id, PlayerID: playerID, LastModified: time.Now(),
		GroupA: galaxyAtWarMinGroup, GroupB: galaxyAtWarMinGroup, GroupC: galaxyAtWarMinGroup,
		GroupD: galaxyAtWarMinGroup, GroupE: galaxyAtWarMinGroup,
	}, nil
}

// decay implements spec.md §3: new = max(5000, old − floor(days * d * 100)).
func (r *gawRepo) decay(value uint16, days float64) uint16 {
	if days <= 0 {
		return value
	}
	reduction := int32(math.Floor(days * r.dailyDecay * 100))
	result := int32(value) - reduction
	return clampGroup(result)
}

func (r *gawRepo) applyDecay(ctx context.Context, g *GalaxyAtWar) (*GalaxyAtWar, error) {
	days := time.Since(g.LastModified).Hours() / 24
	if days <= 0 {
		return g, nil
	}
	decayed := GalaxyAtWar{
		ID: g.ID, PlayerID: g.PlayerID, LastModified: time.Now(),
		GroupA: r.decay(g.GroupA, days),
		GroupB: r.decay(g.GroupB, days),
		GroupC: r.decay(g.GroupC, days),
		GroupD: r.decay(g.GroupD, days),
		GroupE: r.decay(g.GroupE, days),
	}
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE galaxy_at_war SET last_modified = $2, group_a = $3, group_b = $4, group_c = $5, group_d = $6, group_e = $7
		 WHERE id = $1`,
		decayed.ID, decayed.LastModified, decayed.GroupA, decayed.GroupB, decayed.GroupC, decayed.GroupD, decayed.GroupE,
	)
	if err != nil {
		return nil, err
	}
	return &decayed, nil
}

func (r *gawRepo) update(ctx context.Context, playerID uint32, mutate func(*GalaxyAtWar)) (*GalaxyAtWar, error) {
	g, err := r.getOrCreate(ctx, playerID)
	if err != nil {
		return nil, err
	}
	mutate(g)
	g.GroupA = clampGroup(int32(g.GroupA))
	g.GroupB = clampGroup(int32(g.GroupB))
	g.GroupC = clampGroup(int32(g.GroupC))
	g.GroupD = clampGroup(int32(g.GroupD))
	g.GroupE = clampGroup(int32(g.GroupE))
	g.LastModified = time.Now()

	_, err = r.db.Pool.Exec(ctx,
		`UPDATE galaxy_at_war SET last_modified = $2, group_a = $3, group_b = $4, group_c = $5, group_d = $6, group_e = $7
		 WHERE id = $1`,
		g.ID, g.LastModified, g.GroupA, g.GroupB, g.GroupC, g.GroupD, g.GroupE,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}
