package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/radieske/prediction-market-poc/internal/market-service/model"
)

// Postgres implementa a persistência de mercados, apostas e comentários
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório do market-service
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const marketColumns = `id, title, participant_a, participant_b, status, resolved_outcome, start_time, end_time, created_at, updated_at`

func scanMarket(row interface{ Scan(...any) error }) (*model.Market, error) {
	var m model.Market
	var resolved sql.NullString
	var start, end sql.NullTime
	if err := row.Scan(&m.ID, &m.Title, &m.ParticipantA, &m.ParticipantB, &m.Status,
		&resolved, &start, &end, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if resolved.Valid {
		m.ResolvedOutcome = &resolved.String
	}
	if start.Valid {
		m.StartTime = &start.Time
	}
	if end.Valid {
		m.EndTime = &end.Time
	}
	return &m, nil
}

// CreateMarket insere um novo mercado; recusa título duplicado com os
// mesmos participantes. Status inicial OPEN, ou UPCOMING quando o início
// ainda está no futuro.
func (p *Postgres) CreateMarket(ctx context.Context, title, participantA, participantB string, start, end *time.Time) (*model.Market, error) {
	var exists string
	err := p.db.QueryRowContext(ctx, `
		SELECT id FROM markets
		WHERE title=$1 AND participant_a=$2 AND participant_b=$3`,
		title, participantA, participantB).Scan(&exists)
	if err == nil {
		return nil, ErrDuplicateMarket
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	status := model.MarketOpen
	if start != nil && start.After(time.Now()) {
		status = model.MarketUpcoming
	}

	id := uuid.NewString()
	row := p.db.QueryRowContext(ctx, `
		INSERT INTO markets (id, title, participant_a, participant_b, status, start_time, end_time)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING `+marketColumns,
		id, title, participantA, participantB, status, start, end)
	return scanMarket(row)
}

// ListMarkets retorna mercados ordenados por start_time; status vazio = todos
func (p *Postgres) ListMarkets(ctx context.Context, status string) ([]model.Market, error) {
	q := `SELECT ` + marketColumns + ` FROM markets ORDER BY start_time ASC NULLS LAST, created_at ASC`
	args := []any{}
	if status != "" {
		q = `SELECT ` + marketColumns + ` FROM markets WHERE status=$1 ORDER BY start_time ASC NULLS LAST, created_at ASC`
		args = append(args, status)
	}
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Market
	for rows.Next() {
		m, err := scanMarket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// GetMarket retorna um mercado pelo id
func (p *Postgres) GetMarket(ctx context.Context, id string) (*model.Market, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+marketColumns+` FROM markets WHERE id=$1`, id)
	m, err := scanMarket(row)
	if err == sql.ErrNoRows {
		return nil, ErrMarketNotFound
	}
	return m, err
}

// MarketUpdate carrega os campos opcionais de um update parcial
type MarketUpdate struct {
	Title     *string
	Status    *string
	StartTime *time.Time
	EndTime   *time.Time
}

// UpdateMarket aplica um update parcial (título, horários, status)
func (p *Postgres) UpdateMarket(ctx context.Context, id string, upd MarketUpdate) (*model.Market, error) {
	row := p.db.QueryRowContext(ctx, `
		UPDATE markets SET
			title      = COALESCE($2, title),
			status     = COALESCE($3, status),
			start_time = COALESCE($4, start_time),
			end_time   = COALESCE($5, end_time),
			updated_at = NOW()
		WHERE id=$1
		RETURNING `+marketColumns,
		id, upd.Title, upd.Status, upd.StartTime, upd.EndTime)
	m, err := scanMarket(row)
	if err == sql.ErrNoRows {
		return nil, ErrMarketNotFound
	}
	return m, err
}

// DeleteMarket remove um mercado sem apostas; com apostas a remoção é
// recusada para não órfã-las.
func (p *Postgres) DeleteMarket(ctx context.Context, id string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM markets WHERE id=$1 FOR UPDATE`, id).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return ErrMarketNotFound
		}
		return err
	}

	var betCount int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bets WHERE market_id=$1`, id).Scan(&betCount); err != nil {
		return err
	}
	if betCount > 0 {
		return ErrMarketHasBets
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM comment_likes WHERE comment_id IN (SELECT id FROM comments WHERE market_id=$1)`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE market_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM markets WHERE id=$1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

// MarketPool retorna a soma das stakes de um mercado
func (p *Postgres) MarketPool(ctx context.Context, marketID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := p.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM bets WHERE market_id=$1`, marketID).Scan(&total)
	return total, err
}
