package pa

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"vitrine_back_end/internal/cache"
	"vitrine_back_end/internal/database"
	"vitrine_back_end/internal/handlers/ws"
	"vitrine_back_end/internal/models"
	"vitrine_back_end/internal/refunds"
	"vitrine_back_end/internal/utils"
)

// UpdateOrderStatus change le statut d'une commande (admin). Le passage à
// shipped accepte un numéro de suivi. L'utilisateur est notifié par email.
func UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("orderId")
	orderUUID, err := uuid.Parse(orderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de commande invalide"})
		return
	}

	var req struct {
		Status         string `json:"status" binding:"required"`
		TrackingNumber string `json:"tracking_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if !models.ValidOrderStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut inconnu: " + req.Status})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	order, err := loadOrder(session, gocql.UUID(orderUUID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	now := time.Now()
	err = session.Query(`UPDATE orders SET status = ?, tracking_number = ?, updated_at = ? WHERE order_id = ?`,
		req.Status, req.TrackingNumber, now, gocql.UUID(orderUUID)).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour de la commande"})
		return
	}

	order.Status = req.Status
	order.TrackingNumber = req.TrackingNumber
	order.UpdatedAt = &now

	go func() {
		user, err := cache.GetUserFromCache(order.UserID)
		if err != nil {
			log.Printf("⚠️ Utilisateur %s introuvable pour l'email de statut: %v", order.UserID, err)
			return
		}
		utils.SendOrderStatusEmail(*order, user.Email, req.Status)
	}()
	ws.Bump(orderID)

	log.Printf("✅ Commande %s passée à %s", orderID, req.Status)
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// GetAllOrders liste toutes les commandes (admin), filtrables par statut
func GetAllOrders(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	statusFilter := c.Query("status")
	if statusFilter != "" && !models.ValidOrderStatuses[statusFilter] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut inconnu: " + statusFilter})
		return
	}

	iter := session.Query(`
		SELECT order_id, store_id, user_id, total_amount, status, payment_intent_id, tracking_number, created_at, updated_at
		FROM orders
	`).Iter()

	var orders []models.Order
	var o models.Order

	for iter.Scan(&o.ID, &o.StoreID, &o.UserID, &o.TotalAmount, &o.Status,
		&o.PaymentIntentID, &o.TrackingNumber, &o.CreatedAt, &o.UpdatedAt) {
		if statusFilter == "" || o.Status == statusFilter {
			orders = append(orders, o)
		}
		o = models.Order{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders, "count": len(orders)})
}

// GetOrderDetail retourne la vue détaillée d'une commande pour le tableau de
// bord : transactions locales et Stripe, remboursements, articles couverts et
// restant remboursable, rafraîchis en parallèle
func GetOrderDetail(c *gin.Context) {
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

	order, err := loadOrder(session, gocql.UUID(orderUUID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	snap := orderFetcher.Refresh(c.Request.Context(), *order)

	refundedItems := refunds.ResolveRefundedItems(*order, snap.Refunds)
	refundedIDs := make([]string, 0, len(refundedItems))
	for id := range refundedItems {
		refundedIDs = append(refundedIDs, id)
	}

	returns, err := loadReturns(session, gocql.UUID(orderUUID))
	if err != nil {
		log.Printf("⚠️ Lecture retours échouée pour %s: %v", order.ID.String(), err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"order":            order,
		"ledger":           snap.Ledger,
		"stripe":           snap.Provider,
		"refunds":          snap.Refunds,
		"returns":          returns,
		"total_refunded":   snap.TotalRefunded,
		"remaining_amount": order.TotalAmount - snap.TotalRefunded,
		"refunded_items":   refundedIDs,
		"partial":          snap.Partial,
		"seq":              snap.Seq,
	})
}
