package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts d'une demande de retour, progression à sens unique :
// pending → approved|rejected → received → refunded
const (
	ReturnStatusPending  = "pending"
	ReturnStatusApproved = "approved"
	ReturnStatusRejected = "rejected"
	ReturnStatusReceived = "received"
	ReturnStatusRefunded = "refunded"
)

var returnTransitions = map[string][]string{
	ReturnStatusPending:  {ReturnStatusApproved, ReturnStatusRejected},
	ReturnStatusApproved: {ReturnStatusReceived},
	ReturnStatusReceived: {ReturnStatusRefunded},
}

// CanTransitionReturn indique si le passage from → to est autorisé.
// Les statuts rejected et refunded sont terminaux.
func CanTransitionReturn(from, to string) bool {
	for _, next := range returnTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ReturnOpen indique si la demande bloque encore l'article
// (une nouvelle demande sur le même article est refusée tant qu'elle est ouverte)
func ReturnOpen(status string) bool {
	return status == ReturnStatusPending || status == ReturnStatusApproved || status == ReturnStatusReceived
}

type Return struct {
	ID             gocql.UUID `json:"id" db:"return_id"`
	OrderID        gocql.UUID `json:"order_id" db:"order_id"`
	OrderItemID    string     `json:"order_item_id" db:"order_item_id"`
	UserID         string     `json:"user_id" db:"user_id"`
	Reason         string     `json:"reason" db:"reason"`
	Status         string     `json:"status" db:"status"`
	RefundAmount   *float64   `json:"refund_amount,omitempty" db:"refund_amount"`
	TrackingNumber string     `json:"tracking_number,omitempty" db:"tracking_number"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
