package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/radieske/prediction-market-poc/internal/market-service/model"
	"github.com/radieske/prediction-market-poc/pkg/contracts/ledger"
)

const betColumns = `id, user_id, market_id, amount, outcome, status, payout, created_at, updated_at`

func scanBet(row interface{ Scan(...any) error }) (*model.Bet, error) {
	var b model.Bet
	var payout decimal.NullDecimal
	if err := row.Scan(&b.ID, &b.UserID, &b.MarketID, &b.Amount, &b.Outcome,
		&b.Status, &payout, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if payout.Valid {
		b.Payout = &payout.Decimal
	}
	return &b, nil
}

// PlaceBet valida e registra uma stake em UMA transação:
// insert da aposta, débito do saldo e linha no ledger de transações.
// Qualquer violação de pré-condição retorna erro sem mudança de estado.
//
// O mercado é travado com FOR UPDATE para serializar com a liquidação:
// uma aposta nunca entra num mercado que está sendo resolvido.
func (p *Postgres) PlaceBet(ctx context.Context, userID, marketID, outcome string, amount decimal.Decimal) (*model.Bet, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var market model.Market
	err = tx.QueryRowContext(ctx, `
		SELECT status, participant_a, participant_b
		FROM markets WHERE id=$1 FOR UPDATE`, marketID).
		Scan(&market.Status, &market.ParticipantA, &market.ParticipantB)
	if err == sql.ErrNoRows {
		return nil, ErrMarketNotFound
	}
	if err != nil {
		return nil, err
	}
	if market.Status != model.MarketOpen {
		return nil, ErrMarketNotOpen
	}
	if !market.HasParticipant(outcome) {
		return nil, ErrInvalidOutcome
	}

	// Lock pessimista na linha do usuário antes do read-modify-write do saldo
	var balance decimal.Decimal
	err = tx.QueryRowContext(ctx, `SELECT balance FROM users WHERE id=$1 FOR UPDATE`, userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if balance.LessThan(amount) {
		return nil, ErrInsufficientFunds
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE users SET balance = balance - $1, version = version + 1, updated_at = NOW()
		WHERE id=$2`, amount, userID); err != nil {
		return nil, err
	}

	betID := uuid.NewString()
	row := tx.QueryRowContext(ctx, `
		INSERT INTO bets (id, user_id, market_id, amount, outcome, status)
		VALUES ($1,$2,$3,$4,$5,'PENDING')
		RETURNING `+betColumns,
		betID, userID, marketID, amount, outcome)
	bet, err := scanBet(row)
	if err != nil {
		return nil, err
	}

	refID := fmt.Sprintf("BET_%s_%d", betID, time.Now().UnixMilli())
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, status, description, reference_id)
		VALUES ($1,$2,$3,$4,'completed',$5,$6)`,
		uuid.NewString(), userID, ledger.TxBetPlaced, amount,
		fmt.Sprintf("Bet placed on market %s for outcome %s", marketID, outcome), refID); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return bet, nil
}

// GetBet retorna uma aposta pelo id
func (p *Postgres) GetBet(ctx context.Context, id string) (*model.Bet, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+betColumns+` FROM bets WHERE id=$1`, id)
	b, err := scanBet(row)
	if err == sql.ErrNoRows {
		return nil, ErrBetNotFound
	}
	return b, err
}

func (p *Postgres) queryBets(ctx context.Context, q string, args ...any) ([]model.Bet, error) {
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Bet
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// ListBetsByMarket retorna as apostas de um mercado, mais recentes primeiro
func (p *Postgres) ListBetsByMarket(ctx context.Context, marketID string) ([]model.Bet, error) {
	return p.queryBets(ctx, `SELECT `+betColumns+` FROM bets WHERE market_id=$1 ORDER BY created_at DESC`, marketID)
}

// ListBetsByUser retorna as apostas de um usuário, mais recentes primeiro
func (p *Postgres) ListBetsByUser(ctx context.Context, userID string) ([]model.Bet, error) {
	return p.queryBets(ctx, `SELECT `+betColumns+` FROM bets WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

// ListAllBets retorna todas as apostas, mais recentes primeiro
func (p *Postgres) ListAllBets(ctx context.Context) ([]model.Bet, error) {
	return p.queryBets(ctx, `SELECT `+betColumns+` FROM bets ORDER BY created_at DESC`)
}

// UserTotalStaked retorna a soma das stakes de um usuário
func (p *Postgres) UserTotalStaked(ctx context.Context, userID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := p.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM bets WHERE user_id=$1`, userID).Scan(&total)
	return total, err
}
