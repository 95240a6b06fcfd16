package ledger

// Tipos de linha do ledger de transações (append-only).
// A tabela transactions é compartilhada: market-service grava as linhas de
// aposta e liquidação, wallet-service as de depósito e saque.
const (
	TxDeposit        = "DEPOSIT"
	TxWithdraw       = "WITHDRAW"
	TxWithdrawRefund = "WITHDRAW_REFUND" // estorno de saque recusado pelo provedor
	TxBetPlaced      = "BET_PLACED"
	TxPayout         = "PAYOUT"
	TxBetRefund      = "BET_REFUND" // liquidação sem vencedores
)
