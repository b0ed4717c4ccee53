package models

import "time"

// Source d'une transaction, fixée à la construction et jamais déduite après coup
const (
	TransactionSourceStore  = "store"
	TransactionSourceStripe = "stripe"
)

// Types d'écritures du grand livre local
const (
	TransactionTypePayment = "payment"
	TransactionTypeRefund  = "refund"
	TransactionTypePayout  = "payout"
)

// Transaction unifie les écritures du grand livre local et les transactions
// Stripe. Le champ Source fait office de discriminant.
type Transaction struct {
	ID              string    `json:"id"`
	Source          string    `json:"source"`
	OrderID         string    `json:"order_id,omitempty"`
	PaymentIntentID string    `json:"payment_intent_id,omitempty"`
	Type            string    `json:"type"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewStoreTransaction construit une écriture du grand livre local
func NewStoreTransaction(id, orderID, paymentIntentID, txType string, amount float64, currency, status string, createdAt time.Time) Transaction {
	return Transaction{
		ID:              id,
		Source:          TransactionSourceStore,
		OrderID:         orderID,
		PaymentIntentID: paymentIntentID,
		Type:            txType,
		Amount:          amount,
		Currency:        currency,
		Status:          status,
		CreatedAt:       createdAt,
	}
}

// NewStripeTransaction construit une transaction issue de l'API Stripe
func NewStripeTransaction(id, paymentIntentID string, amount float64, currency, status string, createdAt time.Time) Transaction {
	return Transaction{
		ID:              id,
		Source:          TransactionSourceStripe,
		PaymentIntentID: paymentIntentID,
		Type:            TransactionTypePayment,
		Amount:          amount,
		Currency:        currency,
		Status:          status,
		CreatedAt:       createdAt,
	}
}
