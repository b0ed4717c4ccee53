package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts renvoyés par Stripe pour un remboursement
const (
	RefundStatusPending   = "pending"
	RefundStatusSucceeded = "succeeded"
	RefundStatusFailed    = "failed"
)

// Refund est une écriture de remboursement adossée à une commande.
// ItemIDs est renseigné uniquement pour un remboursement partiel par articles ;
// vide, le remboursement est purement monétaire.
type Refund struct {
	ID              gocql.UUID `json:"id" db:"refund_id"`
	OrderID         gocql.UUID `json:"order_id" db:"order_id"`
	PaymentIntentID string     `json:"payment_intent_id" db:"payment_intent_id"`
	StripeRefundID  string     `json:"stripe_refund_id,omitempty" db:"stripe_refund_id"`
	Amount          float64    `json:"amount" db:"amount"`
	Currency        string     `json:"currency" db:"currency"`
	Reason          string     `json:"reason,omitempty" db:"reason"`
	Status          string     `json:"status" db:"status"`
	ItemIDs         []string   `json:"item_ids,omitempty" db:"item_ids"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
