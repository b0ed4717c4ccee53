package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts d'une boutique
const (
	StoreStatusPending   = "pending"
	StoreStatusActive    = "active"
	StoreStatusSuspended = "suspended"
)

type Store struct {
	ID          gocql.UUID `json:"id" db:"store_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description,omitempty" db:"description"`
	OwnerID     string     `json:"owner_id" db:"owner_id"`
	Status      string     `json:"status" db:"status"`
	IBAN        string     `json:"-" db:"iban"`
	BIC         string     `json:"-" db:"bic"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
