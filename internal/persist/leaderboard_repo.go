package persist

import "context"

type leaderboardRepo struct {
	db *DB
}

func (r *leaderboardRepo) upsert(ctx context.Context, ty LeaderboardKind, playerID uint32, value uint32) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO leaderboard_data (ty, player_id, value) VALUES ($1, $2, $3)
		 ON CONFLICT (ty, player_id) DO UPDATE SET value = excluded.value`,
		uint32(ty), playerID, value,
	)
	return err
}

func (r *leaderboardRepo) all(ctx context.Context, ty LeaderboardKind) ([]LeaderboardRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT player_id, value FROM leaderboard_data WHERE ty = $1`, uint32(ty),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		if err := rows.Scan(&row.PlayerID, &row.Value); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
