package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts du cycle de vie d'une commande
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPending        = "pending"
	OrderStatusProcessing     = "processing"
	OrderStatusShipped        = "shipped"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// ValidOrderStatuses liste les statuts acceptés lors d'une mise à jour admin
var ValidOrderStatuses = map[string]bool{
	OrderStatusPendingPayment: true,
	OrderStatusPending:        true,
	OrderStatusProcessing:     true,
	OrderStatusShipped:        true,
	OrderStatusDelivered:      true,
	OrderStatusCancelled:      true,
}

type OrderItem struct {
	ProductID     string     `json:"product_id"`
	Name          string     `json:"name"`
	UnitPrice     float64    `json:"unit_price"`
	Quantity      int        `json:"quantity"`
	Subtotal      float64    `json:"subtotal"`
	ReservationID string     `json:"reservation_id,omitempty"`
	ReservedUntil *time.Time `json:"reserved_until,omitempty"`
}

type Order struct {
	ID              gocql.UUID  `json:"id" db:"order_id"`
	StoreID         gocql.UUID  `json:"store_id" db:"store_id"`
	UserID          string      `json:"user_id" db:"user_id"`
	Items           []OrderItem `json:"items" db:"items"`
	TotalAmount     float64     `json:"total_amount" db:"total_amount"`
	Status          string      `json:"status" db:"status"`
	AddressID       string      `json:"address_id" db:"address_id"`
	PaymentMethod   string      `json:"payment_method,omitempty" db:"payment_method"`
	PaymentIntentID string      `json:"payment_intent_id,omitempty" db:"payment_intent_id"`
	TrackingNumber  string      `json:"tracking_number,omitempty" db:"tracking_number"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       *time.Time  `json:"updated_at,omitempty" db:"updated_at"`
}
