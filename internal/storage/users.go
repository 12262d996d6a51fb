package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"imagekingbot/internal/models"
)

// Users persists user records keyed by Telegram id.
type Users struct {
	db *sqlx.DB
}

// NewUsers constructs the repository.
func NewUsers(db *sqlx.DB) *Users {
	return &Users{db: db}
}

// Get returns the user or nil when no record exists.
func (r *Users) Get(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, name, phone, status, created_at FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("users get: %w", err)
	}
	return &u, nil
}

// Upsert creates the user on first contact or refreshes name/phone/status.
func (r *Users) Upsert(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, phone, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, phone = EXCLUDED.phone, status = EXCLUDED.status`,
		u.ID, u.Name, u.Phone, u.Status)
	if err != nil {
		return fmt.Errorf("users upsert: %w", err)
	}
	return nil
}

// SetStatus moves the user to a new verification status.
func (r *Users) SetStatus(ctx context.Context, id int64, status models.UserStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("users set status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("users set status: user %d not found", id)
	}
	return nil
}
