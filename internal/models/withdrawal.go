package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts d'une demande de retrait de fonds
const (
	WithdrawalStatusRequested = "requested"
	WithdrawalStatusPaid      = "paid"
	WithdrawalStatusRejected  = "rejected"
)

// Withdrawal est une demande de virement des fonds d'une boutique
type Withdrawal struct {
	ID        gocql.UUID `json:"id" db:"withdrawal_id"`
	StoreID   gocql.UUID `json:"store_id" db:"store_id"`
	Amount    float64    `json:"amount" db:"amount"`
	Currency  string     `json:"currency" db:"currency"`
	Status    string     `json:"status" db:"status"`
	Reference string     `json:"reference" db:"reference"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
