package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/radieske/prediction-market-poc/internal/market-service/model"
	"github.com/radieske/prediction-market-poc/internal/market-service/settlement"
	"github.com/radieske/prediction-market-poc/pkg/contracts/ledger"
)

// SettleMarket liquida um mercado em UMA transação por mercado.
//
// Ordem dentro da transação:
//  1. linha do mercado travada com FOR UPDATE; guards de status e de
//     resultado checados sob o lock (segunda liquidação é recusada aqui)
//  2. todas as apostas do mercado carregadas
//  3. payouts calculados integralmente ANTES de qualquer escrita
//     (settlement.Compute)
//  4. escritas aplicadas como um batch: mercado SETTLED + resolved_outcome,
//     créditos de saldo dos vencedores, status/payout das apostas e linhas
//     do ledger
//
// Falha em qualquer ponto desfaz tudo: o mercado permanece OPEN e a chamada
// pode ser repetida com segurança.
func (p *Postgres) SettleMarket(ctx context.Context, marketID, winningOutcome string) (*settlement.Plan, error) {
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
	if !market.HasParticipant(winningOutcome) {
		return nil, ErrInvalidOutcome
	}

	rows, err := tx.QueryContext(ctx, `SELECT `+betColumns+` FROM bets WHERE market_id=$1 ORDER BY created_at ASC`, marketID)
	if err != nil {
		return nil, err
	}
	var bets []model.Bet
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		bets = append(bets, *b)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	plan := settlement.Compute(bets, winningOutcome)

	if _, err = tx.ExecContext(ctx, `
		UPDATE markets SET status='SETTLED', resolved_outcome=$2, updated_at=NOW()
		WHERE id=$1`, marketID, winningOutcome); err != nil {
		return nil, err
	}

	for _, w := range plan.Payouts {
		if err := creditUser(ctx, tx, w.UserID, w.Amount, ledger.TxPayout,
			fmt.Sprintf("Payout for bet %s on market %s", w.BetID, marketID),
			fmt.Sprintf("PAYOUT_%s", w.BetID)); err != nil {
			return nil, err
		}
		if _, err = tx.ExecContext(ctx, `
			UPDATE bets SET status='WON', payout=$2, updated_at=NOW() WHERE id=$1`,
			w.BetID, w.Amount); err != nil {
			return nil, err
		}
	}

	for _, betID := range plan.LoserBetIDs {
		if _, err = tx.ExecContext(ctx, `
			UPDATE bets SET status='LOST', updated_at=NOW() WHERE id=$1`, betID); err != nil {
			return nil, err
		}
	}

	// Caso degenerado: nenhum vencedor. O pool não é retido; cada stake
	// volta ao apostador dentro da mesma transação.
	for _, r := range plan.Refunds {
		if err := creditUser(ctx, tx, r.UserID, r.Amount, ledger.TxBetRefund,
			fmt.Sprintf("Stake refund for bet %s on market %s", r.BetID, marketID),
			fmt.Sprintf("REFUND_%s", r.BetID)); err != nil {
			return nil, err
		}
		if _, err = tx.ExecContext(ctx, `
			UPDATE bets SET status='REFUNDED', updated_at=NOW() WHERE id=$1`, r.BetID); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// creditUser incrementa o saldo sob FOR UPDATE e registra a linha no ledger
func creditUser(ctx context.Context, tx *sql.Tx, userID string, amount decimal.Decimal, txType, description, refID string) error {
	var id string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id=$1 FOR UPDATE`, userID).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET balance = balance + $1, version = version + 1, updated_at = NOW()
		WHERE id=$2`, amount, userID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, status, description, reference_id)
		VALUES ($1,$2,$3,$4,'completed',$5,$6)`,
		uuid.NewString(), userID, txType, amount, description, refID)
	return err
}
