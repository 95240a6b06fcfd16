package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/radieske/prediction-market-poc/internal/wallet-service/model"
	"github.com/radieske/prediction-market-poc/pkg/contracts/ledger"
)

const paymentColumns = `id, user_id, amount, phone, tx_ref, status, COALESCE(checkout_url,''), created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (*model.Payment, error) {
	var pm model.Payment
	if err := row.Scan(&pm.ID, &pm.UserID, &pm.Amount, &pm.Phone, &pm.TxRef,
		&pm.Status, &pm.CheckoutURL, &pm.CreatedAt, &pm.UpdatedAt); err != nil {
		return nil, err
	}
	return &pm, nil
}

// CreatePayment registra um depósito PENDING iniciado junto ao provedor
func (p *Postgres) CreatePayment(ctx context.Context, userID string, amount decimal.Decimal, phone, txRef string) (*model.Payment, error) {
	var exists string
	err := p.db.QueryRowContext(ctx, `SELECT id FROM users WHERE id=$1`, userID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	row := p.db.QueryRowContext(ctx, `
		INSERT INTO payments (id, user_id, amount, phone, tx_ref, status)
		VALUES ($1,$2,$3,$4,$5,'PENDING')
		RETURNING `+paymentColumns,
		uuid.NewString(), userID, amount, phone, txRef)
	return scanPayment(row)
}

// SetCheckoutURL grava a URL de checkout retornada pelo provedor
func (p *Postgres) SetCheckoutURL(ctx context.Context, paymentID, url string) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE payments SET checkout_url=$2, updated_at=NOW() WHERE id=$1`, paymentID, url)
	return err
}

// GetPaymentByTxRef retorna um pagamento pela referência externa
func (p *Postgres) GetPaymentByTxRef(ctx context.Context, txRef string) (*model.Payment, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE tx_ref=$1`, txRef)
	pm, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	return pm, err
}

// CompletePayment credita o saldo e marca o pagamento como COMPLETED em uma
// transação. Idempotente: o webhook do provedor pode chegar mais de uma vez,
// só a primeira confirmação credita.
func (p *Postgres) CompletePayment(ctx context.Context, txRef string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var paymentID, userID, status string
	var amount decimal.Decimal
	err = tx.QueryRowContext(ctx, `
		SELECT id, user_id, amount, status FROM payments WHERE tx_ref=$1 FOR UPDATE`, txRef).
		Scan(&paymentID, &userID, &amount, &status)
	if err == sql.ErrNoRows {
		return ErrPaymentNotFound
	}
	if err != nil {
		return err
	}
	if status != model.StatusPending {
		return nil // já tratado
	}

	if _, err = credit(ctx, tx, userID, amount, ledger.TxDeposit, "provider-deposit:"+txRef, txRef); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE payments SET status='COMPLETED', updated_at=NOW() WHERE id=$1`, paymentID); err != nil {
		return err
	}

	return tx.Commit()
}

// FailPayment marca um pagamento PENDING como FAILED; idempotente
func (p *Postgres) FailPayment(ctx context.Context, txRef string) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE payments SET status='FAILED', updated_at=NOW()
		WHERE tx_ref=$1 AND status='PENDING'`, txRef)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists string
		err := p.db.QueryRowContext(ctx, `SELECT id FROM payments WHERE tx_ref=$1`, txRef).Scan(&exists)
		if err == sql.ErrNoRows {
			return ErrPaymentNotFound
		}
		return err
	}
	return nil
}
