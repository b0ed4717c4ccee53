package pa

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/refund"

	"vitrine_back_end/internal/cache"
	"vitrine_back_end/internal/database"
	"vitrine_back_end/internal/handlers/ws"
	"vitrine_back_end/internal/models"
	"vitrine_back_end/internal/refunds"
	"vitrine_back_end/internal/utils"
)

// RequestReturn enregistre une demande de retour sur un article d'une
// commande livrée. Refusé si l'article est déjà remboursé ou si une demande
// est encore ouverte dessus.
func RequestReturn(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		OrderID     string `json:"order_id" binding:"required"`
		OrderItemID string `json:"order_item_id" binding:"required"`
		Reason      string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	orderUUID, err := uuid.Parse(req.OrderID)
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
	if order.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cette commande ne vous appartient pas"})
		return
	}
	if order.Status != models.OrderStatusDelivered {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Seule une commande livrée peut être retournée"})
		return
	}

	var item *models.OrderItem
	for i := range order.Items {
		if order.Items[i].ProductID == req.OrderItemID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Article absent de la commande"})
		return
	}

	refundList, err := loadRefunds(session, gocql.UUID(orderUUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture remboursements"})
		return
	}
	if refunds.ResolveRefundedItems(*order, refundList)[req.OrderItemID] {
		c.JSON(http.StatusConflict, gin.H{"error": "Cet article a déjà été remboursé"})
		return
	}

	open, err := hasOpenReturn(session, gocql.UUID(orderUUID), req.OrderItemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture retours"})
		return
	}
	if open {
		c.JSON(http.StatusConflict, gin.H{"error": "Une demande de retour est déjà en cours sur cet article"})
		return
	}

	ret := models.Return{
		ID:          gocql.TimeUUID(),
		OrderID:     gocql.UUID(orderUUID),
		OrderItemID: req.OrderItemID,
		UserID:      userID,
		Reason:      req.Reason,
		Status:      models.ReturnStatusPending,
		CreatedAt:   time.Now(),
	}

	err = session.Query(`
		INSERT INTO returns (return_id, order_id, order_item_id, user_id, reason, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ret.ID, ret.OrderID, ret.OrderItemID, ret.UserID, ret.Reason, ret.Status, ret.CreatedAt).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement du retour"})
		return
	}
	if err := session.Query(`
		INSERT INTO returns_by_id (return_id, order_id, order_item_id, user_id, reason, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ret.ID, ret.OrderID, ret.OrderItemID, ret.UserID, ret.Reason, ret.Status, ret.CreatedAt).Exec(); err != nil {
		log.Printf("⚠️ Index returns_by_id non alimenté pour %s: %v", ret.ID.String(), err)
	}

	log.Printf("📦 Demande de retour %s créée sur la commande %s", ret.ID.String(), req.OrderID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "return": ret})
}

// hasOpenReturn vérifie qu'aucune demande ouverte n'existe sur l'article
func hasOpenReturn(session *gocql.Session, orderUUID gocql.UUID, orderItemID string) (bool, error) {
	returns, err := loadReturns(session, orderUUID)
	if err != nil {
		return false, err
	}
	for _, ret := range returns {
		if ret.OrderItemID == orderItemID && models.ReturnOpen(ret.Status) {
			return true, nil
		}
	}
	return false, nil
}

// loadReturns charge les demandes de retour d'une commande
func loadReturns(session *gocql.Session, orderUUID gocql.UUID) ([]models.Return, error) {
	iter := session.Query(`
		SELECT return_id, order_item_id, user_id, reason, status, refund_amount, tracking_number, created_at, updated_at
		FROM returns WHERE order_id = ?
	`, orderUUID).Iter()

	var returns []models.Return
	var ret models.Return

	for iter.Scan(&ret.ID, &ret.OrderItemID, &ret.UserID, &ret.Reason, &ret.Status,
		&ret.RefundAmount, &ret.TrackingNumber, &ret.CreatedAt, &ret.UpdatedAt) {
		ret.OrderID = orderUUID
		returns = append(returns, ret)
		ret = models.Return{}
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	return returns, nil
}

// GetOrderReturns liste les demandes de retour d'une commande. Un
// utilisateur ne voit que ses propres commandes, un admin voit tout.
func GetOrderReturns(c *gin.Context) {
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

	if c.GetString("role") != "admin" {
		order, err := loadOrder(session, gocql.UUID(orderUUID))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		if order.UserID != c.GetString("user_id") {
			c.JSON(http.StatusForbidden, gin.H{"error": "Cette commande ne vous appartient pas"})
			return
		}
	}

	returns, err := loadReturns(session, gocql.UUID(orderUUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture retours"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "returns": returns, "count": len(returns)})
}

// GetAllReturns liste toutes les demandes de retour (admin), filtrables par statut
func GetAllReturns(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	statusFilter := c.Query("status")

	iter := session.Query(`
		SELECT return_id, order_id, order_item_id, user_id, reason, status, refund_amount, tracking_number, created_at, updated_at
		FROM returns
	`).Iter()

	var returns []models.Return
	var ret models.Return

	for iter.Scan(&ret.ID, &ret.OrderID, &ret.OrderItemID, &ret.UserID, &ret.Reason, &ret.Status,
		&ret.RefundAmount, &ret.TrackingNumber, &ret.CreatedAt, &ret.UpdatedAt) {
		if statusFilter == "" || ret.Status == statusFilter {
			returns = append(returns, ret)
		}
		ret = models.Return{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture retours"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "returns": returns, "count": len(returns)})
}

// ProcessReturn fait avancer une demande de retour (admin) :
// approved | rejected | received | refunded. Les transitions hors cycle
// sont refusées. Le passage à refunded déclenche le remboursement Stripe
// de l'article concerné.
func ProcessReturn(c *gin.Context) {
	returnUUID, err := uuid.Parse(c.Param("returnId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de retour invalide"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	ret, err := loadReturn(session, gocql.UUID(returnUUID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Demande de retour introuvable"})
		return
	}

	if !models.CanTransitionReturn(ret.Status, req.Status) {
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("Transition %s → %s refusée", ret.Status, req.Status),
		})
		return
	}

	if req.Status == models.ReturnStatusRefunded {
		if err := refundReturnedItem(session, ret); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
	}

	now := time.Now()
	err = session.Query(`UPDATE returns SET status = ?, updated_at = ? WHERE order_id = ? AND return_id = ?`,
		req.Status, now, ret.OrderID, ret.ID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour du retour"})
		return
	}
	if err := session.Query(`UPDATE returns_by_id SET status = ?, updated_at = ? WHERE return_id = ?`,
		req.Status, now, ret.ID).Exec(); err != nil {
		log.Printf("⚠️ Index returns_by_id non mis à jour pour %s: %v", ret.ID.String(), err)
	}
	ret.Status = req.Status
	ret.UpdatedAt = &now

	go notifyReturn(*ret)
	ws.Bump(ret.OrderID.String())

	log.Printf("📦 Retour %s passé à %s", ret.ID.String(), req.Status)
	c.JSON(http.StatusOK, gin.H{"success": true, "return": ret})
}

// loadReturn retrouve une demande par son identifiant
func loadReturn(session *gocql.Session, returnUUID gocql.UUID) (*models.Return, error) {
	var ret models.Return
	err := session.Query(`
		SELECT return_id, order_id, order_item_id, user_id, reason, status, refund_amount, tracking_number, created_at, updated_at
		FROM returns_by_id WHERE return_id = ?
	`, returnUUID).Scan(&ret.ID, &ret.OrderID, &ret.OrderItemID, &ret.UserID, &ret.Reason, &ret.Status,
		&ret.RefundAmount, &ret.TrackingNumber, &ret.CreatedAt, &ret.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// refundReturnedItem rembourse l'article retourné via Stripe et enregistre
// le remboursement avec l'article couvert
func refundReturnedItem(session *gocql.Session, ret *models.Return) error {
	order, err := loadOrder(session, ret.OrderID)
	if err != nil {
		return fmt.Errorf("commande introuvable")
	}

	existing, err := loadRefunds(session, ret.OrderID)
	if err != nil {
		return fmt.Errorf("erreur lecture remboursements")
	}

	calc := refunds.NewCalculator(*order, existing)
	calc.SelectByItems()
	if err := calc.ToggleItem(ret.OrderItemID); err != nil {
		return err
	}
	if err := calc.BeginSubmit(); err != nil {
		return err
	}

	amount := calc.Amount()
	stripeRefund, err := refund.New(&stripe.RefundParams{
		PaymentIntent: stripe.String(order.PaymentIntentID),
		Amount:        stripe.Int64(int64(amount * 100)),
	})
	calc.CompleteSubmit(err)
	if err != nil {
		log.Printf("❌ Remboursement Stripe du retour %s échoué: %v", ret.ID.String(), err)
		return fmt.Errorf("le remboursement a échoué")
	}

	err = session.Query(`
		INSERT INTO refunds (refund_id, order_id, payment_intent_id, stripe_refund_id, amount, currency, reason, status, item_ids, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, gocql.TimeUUID(), ret.OrderID, order.PaymentIntentID, stripeRefund.ID, amount, "eur",
		"retour "+ret.ID.String(), string(stripeRefund.Status), []string{ret.OrderItemID}, time.Now()).Exec()
	if err != nil {
		log.Printf("⚠️ Remboursement Stripe %s émis mais non enregistré: %v", stripeRefund.ID, err)
	}

	if err := recordLedgerTransaction(session, ret.OrderID, order.PaymentIntentID,
		models.TransactionTypeRefund, amount, string(stripeRefund.Status)); err != nil {
		log.Printf("⚠️ Écriture grand livre échouée pour %s: %v", ret.OrderID.String(), err)
	}

	if err := session.Query(`UPDATE returns SET refund_amount = ? WHERE order_id = ? AND return_id = ?`,
		amount, ret.OrderID, ret.ID).Exec(); err != nil {
		log.Printf("⚠️ Montant remboursé non enregistré sur le retour %s: %v", ret.ID.String(), err)
	}
	ret.RefundAmount = &amount

	go notifyRefund(*order, amount)
	return nil
}

// notifyReturn envoie l'email de suivi ; l'approbation joint l'étiquette QR
func notifyReturn(ret models.Return) {
	user, err := cache.GetUserFromCache(ret.UserID)
	if err != nil {
		log.Printf("⚠️ Utilisateur %s introuvable pour l'email de retour: %v", ret.UserID, err)
		return
	}

	if ret.Status == models.ReturnStatusApproved {
		qr, err := utils.GenerateDropoffQR(ret.ID.String())
		if err != nil {
			log.Printf("⚠️ Génération QR de dépôt échouée pour %s: %v", ret.ID.String(), err)
		} else {
			html := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body>
	<h2>Retour accepté</h2>
	<p>Présentez ce QR code en point de dépôt avec votre article.</p>
	<img src="%s" alt="Étiquette de dépôt">
	<p>Référence : %s</p>
	<p>L'équipe Vitrine</p>
</body>
</html>`, qr, ret.ID.String())
			if err := utils.SendEmail(user.Email, "📦 Votre étiquette de retour - Vitrine", html, nil); err != nil {
				log.Printf("❌ Email d'étiquette non envoyé à %s: %v", user.Email, err)
			}
			return
		}
	}

	if err := utils.SendReturnStatusEmail(ret, user.Email); err != nil {
		log.Printf("❌ Email de suivi non envoyé à %s: %v", user.Email, err)
	}
}
