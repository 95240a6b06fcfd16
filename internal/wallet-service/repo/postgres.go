package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/radieske/prediction-market-poc/internal/wallet-service/model"
	"github.com/radieske/prediction-market-poc/pkg/contracts/ledger"
)

// Postgres implementa operações de carteira em banco
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrUserNotFound       = errors.New("user not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrWithdrawalNotFound = errors.New("withdrawal not found")
)

// GetBalance retorna o saldo atual de um usuário
func (p *Postgres) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	var bal decimal.Decimal
	err := p.db.QueryRowContext(ctx, `SELECT balance FROM users WHERE id=$1`, userID).Scan(&bal)
	if err == sql.ErrNoRows {
		return decimal.Zero, ErrUserNotFound
	}
	return bal, err
}

// Deposit incrementa o saldo e registra a operação no ledger
// Lock pessimista na linha do usuário + bump de versão
func (p *Postgres) Deposit(ctx context.Context, userID string, amount decimal.Decimal, description, refID string) (decimal.Decimal, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback()

	newBalance, err := credit(ctx, tx, userID, amount, ledger.TxDeposit, description, refID)
	if err != nil {
		return decimal.Zero, err
	}

	if err = tx.Commit(); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// BeginWithdrawal debita o saldo, grava a linha WITHDRAW no ledger e cria o
// registro de saque PENDING, tudo em uma transação. A chamada ao provedor
// acontece fora, depois do commit.
func (p *Postgres) BeginWithdrawal(ctx context.Context, userID string, amount decimal.Decimal, phone string) (*model.Withdrawal, decimal.Decimal, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer tx.Rollback()

	var balance decimal.Decimal
	err = tx.QueryRowContext(ctx, `SELECT balance FROM users WHERE id=$1 FOR UPDATE`, userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return nil, decimal.Zero, ErrUserNotFound
	}
	if err != nil {
		return nil, decimal.Zero, err
	}
	if balance.LessThan(amount) {
		return nil, decimal.Zero, ErrInsufficientFunds
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE users SET balance = balance - $1, version = version + 1, updated_at = NOW()
		WHERE id=$2`, amount, userID); err != nil {
		return nil, decimal.Zero, err
	}

	wid := uuid.NewString()
	var w model.Withdrawal
	if err = tx.QueryRowContext(ctx, `
		INSERT INTO withdrawals (id, user_id, amount, phone, status)
		VALUES ($1,$2,$3,$4,'PENDING')
		RETURNING id, user_id, amount, phone, status, COALESCE(provider_ref,''), created_at, updated_at`,
		wid, userID, amount, phone).
		Scan(&w.ID, &w.UserID, &w.Amount, &w.Phone, &w.Status, &w.ProviderRef, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, decimal.Zero, err
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, status, description, reference_id)
		VALUES ($1,$2,$3,$4,'completed',$5,$6)`,
		uuid.NewString(), userID, ledger.TxWithdraw, amount.Neg(), "withdraw:"+wid, wid); err != nil {
		return nil, decimal.Zero, err
	}

	if err = tx.Commit(); err != nil {
		return nil, decimal.Zero, err
	}
	return &w, balance.Sub(amount), nil
}

// CompleteWithdrawal marca o saque como COMPLETED com a referência do provedor
func (p *Postgres) CompleteWithdrawal(ctx context.Context, withdrawalID, providerRef string) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE withdrawals SET status='COMPLETED', provider_ref=$2, updated_at=NOW()
		WHERE id=$1 AND status='PENDING'`, withdrawalID, providerRef)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrWithdrawalNotFound
	}
	return nil
}

// FailWithdrawal marca o saque como FAILED e devolve o valor debitado em uma
// transação compensatória (não há retry automático junto ao provedor)
func (p *Postgres) FailWithdrawal(ctx context.Context, withdrawalID string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userID string
	var amount decimal.Decimal
	var status string
	err = tx.QueryRowContext(ctx, `
		SELECT user_id, amount, status FROM withdrawals WHERE id=$1 FOR UPDATE`, withdrawalID).
		Scan(&userID, &amount, &status)
	if err == sql.ErrNoRows {
		return ErrWithdrawalNotFound
	}
	if err != nil {
		return err
	}
	if status != model.StatusPending {
		return nil // idempotente
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE withdrawals SET status='FAILED', updated_at=NOW() WHERE id=$1`, withdrawalID); err != nil {
		return err
	}

	if _, err = credit(ctx, tx, userID, amount, ledger.TxWithdrawRefund,
		"withdraw-failed:"+withdrawalID, withdrawalID); err != nil {
		return err
	}

	return tx.Commit()
}

// credit incrementa o saldo sob FOR UPDATE e registra a linha do ledger
func credit(ctx context.Context, tx *sql.Tx, userID string, amount decimal.Decimal, txType, description, refID string) (decimal.Decimal, error) {
	var id string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id=$1 FOR UPDATE`, userID).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return decimal.Zero, ErrUserNotFound
		}
		return decimal.Zero, err
	}

	var newBalance decimal.Decimal
	if err := tx.QueryRowContext(ctx, `
		UPDATE users SET balance = balance + $1, version = version + 1, updated_at = NOW()
		WHERE id=$2
		RETURNING balance`, amount, userID).Scan(&newBalance); err != nil {
		return decimal.Zero, err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, status, description, reference_id)
		VALUES ($1,$2,$3,$4,'completed',$5,$6)`,
		uuid.NewString(), userID, txType, amount, description, refID); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// History retorna o ledger paginado de um usuário, mais recente primeiro
func (p *Postgres) History(ctx context.Context, userID string, page, limit int) ([]model.Transaction, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id=$1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, type, amount, status, COALESCE(description,''), COALESCE(reference_id,''), created_at
		FROM transactions
		WHERE user_id=$1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Status, &t.Description, &t.ReferenceID, &t.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}
