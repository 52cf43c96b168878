package persist

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

type playerRepo struct {
	db *DB
}

func (r *playerRepo) scanPlayer(row pgx.Row) (*Player, error) {
	var p Player
	var role int16
	var lastLogin *time.Time
	err := row.Scan(&p.ID, &p.Email, &p.DisplayName, &p.Password, &role, &lastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Role = Role(role)
	p.LastLoginAt = lastLogin
	return &p, nil
}

func (r *playerRepo) byID(ctx context.Context, id uint32) (*Player, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT id, email, display_name, password, role, last_login_at FROM players WHERE id = $1`, id)
	return r.scanPlayer(row)
}

func (r *playerRepo) byEmail(ctx context.Context, email string) (*Player, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT id, email, display_name, password, role, last_login_at FROM players WHERE email = $1`, email)
	return r.scanPlayer(row)
}

func (r *playerRepo) create(ctx context.Context, email, displayName string, passwordHash *string) (*Player, error) {
	var id uint32
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO players (email, display_name, password, role) VALUES ($1, $2, $3, 0) RETURNING id`,
		email, displayName, passwordHash,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return &Player{ID: id, Email: email, DisplayName: displayName, Password: passwordHash}, nil
}

func (r *playerRepo) setPassword(ctx context.Context, id uint32, hash string) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE players SET password = $2 WHERE id = $1`, id, hash)
	return err
}

func (r *playerRepo) setDisplayName(ctx context.Context, id uint32, name string) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE players SET display_name = $2 WHERE id = $1`, id, name)
	return err
}

func (r *playerRepo) setEmail(ctx context.Context, id uint32, email string) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE players SET email = $2 WHERE id = $1`, id, email)
	return err
}

func (r *playerRepo) setRole(ctx context.Context, id uint32, role Role) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE players SET role = $2 WHERE id = $1`, id, int16(role))
	return err
}

func (r *playerRepo) setLastLoginAt(ctx context.Context, id uint32) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE players SET last_login_at = now() WHERE id = $1`, id)
	return err
}

func (r *playerRepo) displayNameFor(ctx context.Context, id uint32) (string, error) {
	var name string
	err := r.db.Pool.QueryRow(ctx, `SELECT display_name FROM players WHERE id = $1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return name, err
}
