package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/radieske/prediction-market-poc/internal/market-service/model"
)

// CreateComment insere um comentário em um mercado existente
func (p *Postgres) CreateComment(ctx context.Context, marketID, userID, text string) (*model.Comment, error) {
	var exists string
	err := p.db.QueryRowContext(ctx, `SELECT id FROM markets WHERE id=$1`, marketID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, ErrMarketNotFound
	}
	if err != nil {
		return nil, err
	}

	var c model.Comment
	var username sql.NullString
	err = p.db.QueryRowContext(ctx, `
		WITH inserted AS (
			INSERT INTO comments (id, market_id, user_id, content, like_count)
			VALUES ($1,$2,$3,$4,0)
			RETURNING id, market_id, user_id, content, like_count, created_at
		)
		SELECT i.id, i.market_id, i.user_id, i.content, i.like_count, i.created_at, u.username
		FROM inserted i JOIN users u ON u.id = i.user_id`,
		uuid.NewString(), marketID, userID, text).
		Scan(&c.ID, &c.MarketID, &c.UserID, &c.Text, &c.LikeCount, &c.CreatedAt, &username)
	if err != nil {
		return nil, err
	}
	c.Username = username.String
	return &c, nil
}

// ListCommentsByMarket retorna os comentários de um mercado, mais recentes
// primeiro, com o flag liked em relação ao usuário da consulta
func (p *Postgres) ListCommentsByMarket(ctx context.Context, marketID, currentUserID string) ([]model.Comment, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT c.id, c.market_id, c.user_id, c.content, c.like_count, c.created_at,
		       u.username,
		       EXISTS (SELECT 1 FROM comment_likes cl WHERE cl.comment_id=c.id AND cl.user_id=$2) AS liked
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.market_id=$1
		ORDER BY c.created_at DESC`, marketID, currentUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Comment
	for rows.Next() {
		var c model.Comment
		var username sql.NullString
		if err := rows.Scan(&c.ID, &c.MarketID, &c.UserID, &c.Text, &c.LikeCount,
			&c.CreatedAt, &username, &c.Liked); err != nil {
			return nil, err
		}
		c.Username = username.String
		out = append(out, c)
	}
	return out, rows.Err()
}

// LikeComment registra um like; idempotente por (comment_id, user_id)
func (p *Postgres) LikeComment(ctx context.Context, commentID, userID string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM comments WHERE id=$1 FOR UPDATE`, commentID).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return ErrCommentNotFound
		}
		return err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO comment_likes (comment_id, user_id) VALUES ($1,$2)
		ON CONFLICT (comment_id, user_id) DO NOTHING`, commentID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		if _, err := tx.ExecContext(ctx, `UPDATE comments SET like_count = like_count + 1 WHERE id=$1`, commentID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UnlikeComment remove um like; idempotente
func (p *Postgres) UnlikeComment(ctx context.Context, commentID, userID string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM comments WHERE id=$1 FOR UPDATE`, commentID).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return ErrCommentNotFound
		}
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM comment_likes WHERE comment_id=$1 AND user_id=$2`, commentID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		if _, err := tx.ExecContext(ctx, `UPDATE comments SET like_count = GREATEST(like_count - 1, 0) WHERE id=$1`, commentID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteComment remove um comentário; apenas o autor pode remover
func (p *Postgres) DeleteComment(ctx context.Context, commentID, userID string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var author string
	if err := tx.QueryRowContext(ctx, `SELECT user_id FROM comments WHERE id=$1 FOR UPDATE`, commentID).Scan(&author); err != nil {
		if err == sql.ErrNoRows {
			return ErrCommentNotFound
		}
		return err
	}
	if author != userID {
		return ErrNotCommentAuthor
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM comment_likes WHERE comment_id=$1`, commentID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id=$1`, commentID); err != nil {
		return err
	}
	return tx.Commit()
}
