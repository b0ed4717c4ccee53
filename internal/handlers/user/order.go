package user

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"vitrine_back_end/internal/database"
	"vitrine_back_end/internal/models"
	"vitrine_back_end/internal/refunds"
)

// GetMyOrders liste les commandes de l'utilisateur connecté
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	iter := session.Query(`
		SELECT order_id, total_amount, status, created_at
		FROM orders_by_user WHERE user_id = ?
	`, userID).Iter()

	type orderSummary struct {
		ID          string    `json:"id"`
		TotalAmount float64   `json:"total_amount"`
		Status      string    `json:"status"`
		CreatedAt   time.Time `json:"created_at"`
	}

	var orders []orderSummary
	var orderID gocql.UUID
	var o orderSummary

	for iter.Scan(&orderID, &o.TotalAmount, &o.Status, &o.CreatedAt) {
		o.ID = orderID.String()
		orders = append(orders, o)
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders, "count": len(orders)})
}

// GetOrderByID retourne une commande de l'utilisateur avec ses articles
func GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")

	orderUUID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de commande invalide"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	var order models.Order
	var itemsJSON string

	err = session.Query(`
		SELECT store_id, user_id, items, total_amount, status, address_id, payment_method, payment_intent_id, tracking_number, created_at, updated_at
		FROM orders WHERE order_id = ?
	`, gocql.UUID(orderUUID)).Scan(
		&order.StoreID, &order.UserID, &itemsJSON, &order.TotalAmount, &order.Status,
		&order.AddressID, &order.PaymentMethod, &order.PaymentIntentID, &order.TrackingNumber,
		&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if order.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cette commande ne vous appartient pas"})
		return
	}

	order.ID = gocql.UUID(orderUUID)
	if itemsJSON != "" {
		json.Unmarshal([]byte(itemsJSON), &order.Items)
	}

	// Marquer les articles déjà remboursés
	refundList, err := loadOrderRefunds(session, gocql.UUID(orderUUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture remboursements"})
		return
	}

	refundedItems := refunds.ResolveRefundedItems(order, refundList)
	refundedIDs := make([]string, 0, len(refundedItems))
	for id := range refundedItems {
		refundedIDs = append(refundedIDs, id)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"order":            order,
		"refunded_items":   refundedIDs,
		"total_refunded":   refunds.TotalRefunded(refundList),
		"remaining_amount": refunds.RemainingAmount(order, refundList),
	})
}

// loadOrderRefunds charge les remboursements d'une commande
func loadOrderRefunds(session *gocql.Session, orderUUID gocql.UUID) ([]models.Refund, error) {
	iter := session.Query(`
		SELECT refund_id, payment_intent_id, stripe_refund_id, amount, currency, reason, status, item_ids, created_at, updated_at
		FROM refunds WHERE order_id = ?
	`, orderUUID).Iter()

	var refundList []models.Refund
	var r models.Refund

	for iter.Scan(&r.ID, &r.PaymentIntentID, &r.StripeRefundID, &r.Amount, &r.Currency,
		&r.Reason, &r.Status, &r.ItemIDs, &r.CreatedAt, &r.UpdatedAt) {
		r.OrderID = orderUUID
		refundList = append(refundList, r)
		r = models.Refund{}
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	return refundList, nil
}
