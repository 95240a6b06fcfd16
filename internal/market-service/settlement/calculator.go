package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/radieske/prediction-market-poc/internal/market-service/model"
)

// Payout é o crédito calculado para uma aposta vencedora.
type Payout struct {
	BetID  string
	UserID string
	Amount decimal.Decimal
}

// Refund devolve a stake original quando ninguém apostou no vencedor.
type Refund struct {
	BetID  string
	UserID string
	Amount decimal.Decimal
}

// Plan é o resultado puro do cálculo de liquidação: tudo é computado antes
// de qualquer escrita, e aplicado depois como um único batch transacional.
type Plan struct {
	WinningOutcome string
	TotalPool      decimal.Decimal
	WinningPool    decimal.Decimal
	Payouts        []Payout // apostas vencedoras, na ordem de entrada
	LoserBetIDs    []string
	Refunds        []Refund // preenchido apenas quando WinningPool == 0
	PayoutTotal    decimal.Decimal
}

// StakesRefunded indica o caso degenerado: mercado liquidado sem nenhuma
// aposta no resultado vencedor; todas as stakes voltam aos apostadores.
func (p *Plan) StakesRefunded() bool {
	return len(p.Refunds) > 0
}

// Compute particiona as apostas pelo resultado vencedor e calcula o rateio.
//
// O pool inteiro é distribuído proporcionalmente à stake de cada vencedor:
//
//	payout = stake / winningPool * totalPool, arredondado a 2 casas
//
// Não há margem da casa. Se o winning pool for zero, o plano devolve todas
// as stakes em vez de reter o pool.
func Compute(bets []model.Bet, winningOutcome string) Plan {
	plan := Plan{
		WinningOutcome: winningOutcome,
		TotalPool:      decimal.Zero,
		WinningPool:    decimal.Zero,
		PayoutTotal:    decimal.Zero,
	}

	for _, b := range bets {
		plan.TotalPool = plan.TotalPool.Add(b.Amount)
		if b.Outcome == winningOutcome {
			plan.WinningPool = plan.WinningPool.Add(b.Amount)
		}
	}

	if plan.WinningPool.IsZero() {
		for _, b := range bets {
			plan.Refunds = append(plan.Refunds, Refund{BetID: b.ID, UserID: b.UserID, Amount: b.Amount})
		}
		return plan
	}

	for _, b := range bets {
		if b.Outcome != winningOutcome {
			plan.LoserBetIDs = append(plan.LoserBetIDs, b.ID)
			continue
		}
		payout := b.Amount.Div(plan.WinningPool).Mul(plan.TotalPool).Round(2)
		plan.Payouts = append(plan.Payouts, Payout{BetID: b.ID, UserID: b.UserID, Amount: payout})
		plan.PayoutTotal = plan.PayoutTotal.Add(payout)
	}

	return plan
}
