package pa

import (
	"encoding/json"
	"time"

	"github.com/gocql/gocql"

	"vitrine_back_end/internal/models"
)

// calcTotal calcule le montant total d'un panier
func calcTotal(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// loadOrder charge une commande complète (articles désérialisés)
func loadOrder(session *gocql.Session, orderUUID gocql.UUID) (*models.Order, error) {
	var order models.Order
	var itemsJSON string

	err := session.Query(`
		SELECT store_id, user_id, items, total_amount, status, address_id, payment_method, payment_intent_id, tracking_number, created_at, updated_at
		FROM orders WHERE order_id = ?
	`, orderUUID).Scan(
		&order.StoreID, &order.UserID, &itemsJSON, &order.TotalAmount, &order.Status,
		&order.AddressID, &order.PaymentMethod, &order.PaymentIntentID, &order.TrackingNumber,
		&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	order.ID = orderUUID
	if itemsJSON != "" {
		if err := json.Unmarshal([]byte(itemsJSON), &order.Items); err != nil {
			return nil, err
		}
	}
	return &order, nil
}

// loadRefunds charge les remboursements d'une commande
func loadRefunds(session *gocql.Session, orderUUID gocql.UUID) ([]models.Refund, error) {
	iter := session.Query(`
		SELECT refund_id, payment_intent_id, stripe_refund_id, amount, currency, reason, status, item_ids, created_at, updated_at
		FROM refunds WHERE order_id = ?
	`, orderUUID).Iter()

	var refunds []models.Refund
	var r models.Refund

	for iter.Scan(&r.ID, &r.PaymentIntentID, &r.StripeRefundID, &r.Amount, &r.Currency,
		&r.Reason, &r.Status, &r.ItemIDs, &r.CreatedAt, &r.UpdatedAt) {
		r.OrderID = orderUUID
		refunds = append(refunds, r)
		r = models.Refund{}
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	return refunds, nil
}

// recordLedgerTransaction ajoute une écriture au grand livre local
func recordLedgerTransaction(session *gocql.Session, orderUUID gocql.UUID, paymentIntentID, txType string, amount float64, status string) error {
	return session.Query(`
		INSERT INTO transactions (transaction_id, order_id, payment_intent_id, type, amount, currency, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, gocql.TimeUUID(), orderUUID, paymentIntentID, txType, amount, "eur", status, time.Now()).Exec()
}
