package repo

import (
	"context"
	"database/sql"

	"github.com/radieske/prediction-market-poc/internal/wallet-service/model"
)

const userColumns = `id, COALESCE(email,''), COALESCE(phone,''), COALESCE(username,''), balance, is_suspended, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.Phone, &u.Username, &u.Balance,
		&u.IsSuspended, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers retorna usuários paginados, mais recentes primeiro, com busca
// opcional por email ou telefone (case-insensitive)
func (p *Postgres) ListUsers(ctx context.Context, page, limit int, search string) ([]model.User, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit
	pattern := "%" + search + "%"

	var total int
	if err := p.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users
		WHERE $1 = '' OR email ILIKE $2 OR phone ILIKE $2`, search, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE $1 = '' OR email ILIKE $2 OR phone ILIKE $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, search, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *u)
	}
	return out, total, rows.Err()
}

// GetUser retorna um usuário pelo id
func (p *Postgres) GetUser(ctx context.Context, id string) (*model.User, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return u, err
}

// UpdateUser atualiza email e telefone de um usuário
func (p *Postgres) UpdateUser(ctx context.Context, id string, email, phone *string) (*model.User, error) {
	row := p.db.QueryRowContext(ctx, `
		UPDATE users SET
			email      = COALESCE($2, email),
			phone      = COALESCE($3, phone),
			updated_at = NOW()
		WHERE id=$1
		RETURNING `+userColumns, id, email, phone)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return u, err
}

// SuspendUser liga/desliga a suspensão de um usuário
func (p *Postgres) SuspendUser(ctx context.Context, id string, suspended bool) (*model.User, error) {
	row := p.db.QueryRowContext(ctx, `
		UPDATE users SET is_suspended=$2, updated_at=NOW()
		WHERE id=$1
		RETURNING `+userColumns, id, suspended)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return u, err
}

// DeleteUser remove um usuário
func (p *Postgres) DeleteUser(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
