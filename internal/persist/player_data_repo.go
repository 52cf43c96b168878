package persist

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type playerDataRepo struct {
	db *DB
}

func (r *playerDataRepo) get(ctx context.Context, playerID uint32, key string) (string, bool, error) {
	var value string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT value FROM player_data WHERE player_id = $1 AND key = $2`, playerID, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *playerDataRepo) set(ctx context.Context, playerID uint32, key, value string) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO player_data (player_id, key, value) VALUES ($1, $2, $3)
		 ON CONFLICT (player_id, key) DO UPDATE SET value = excluded.value`,
		playerID, key, value,
	)
	return err
}

func (r *playerDataRepo) all(ctx context.Context, playerID uint32) (map[string]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT key, value FROM player_data WHERE player_id = $1`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

type playerClassRepo struct {
	db *DB
}

func (r *playerClassRepo) all(ctx context.Context, playerID uint32) ([]PlayerClass, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT player_id, index, name, level, exp, promotions FROM player_classes WHERE player_id = $1`,
		playerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerClass
	for rows.Next() {
		var c PlayerClass
		if err := rows.Scan(&c.PlayerID, &c.Index, &c.Name, &c.Level, &c.Exp, &c.Promotions); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
