package pa

import (
	"log"
	"net/http"
	"strings"
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

// CreateRefund crée un remboursement sur une commande (admin).
// Trois modes : total (par défaut), par articles (item_ids), montant libre (amount).
func CreateRefund(c *gin.Context) {
	orderID := c.Param("orderId")
	orderUUID, err := uuid.Parse(orderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de commande invalide"})
		return
	}

	var req struct {
		Amount  *float64 `json:"amount"`
		ItemIDs []string `json:"item_ids"`
		Reason  string   `json:"reason"`
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

	order, err := loadOrder(session, gocql.UUID(orderUUID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	existing, err := loadRefunds(session, gocql.UUID(orderUUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture remboursements"})
		return
	}

	calc := refunds.NewCalculator(*order, existing)

	switch {
	case len(req.ItemIDs) > 0:
		calc.SelectByItems()
		for _, id := range req.ItemIDs {
			if err := calc.ToggleItem(id); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "item_id": id})
				return
			}
		}
	case req.Amount != nil:
		calc.SelectCustom()
		calc.SetCustomAmount(*req.Amount)
	default:
		calc.SelectFull()
	}

	if err := calc.BeginSubmit(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount := calc.Amount()

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(order.PaymentIntentID),
		Amount:        stripe.Int64(int64(amount * 100)),
	}
	if req.Reason != "" {
		params.AddMetadata("reason", req.Reason)
	}

	stripeRefund, err := refund.New(params)
	calc.CompleteSubmit(err)
	if err != nil {
		log.Printf("❌ Remboursement Stripe échoué pour %s: %v", orderID, err)
		msg := "Le remboursement a échoué"
		if strings.Contains(err.Error(), "payment intent") || strings.Contains(err.Error(), "does not have a payment") {
			msg = "Cette commande n'a pas de paiement Stripe associé"
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
		return
	}

	refundRecord := models.Refund{
		ID:              gocql.TimeUUID(),
		OrderID:         gocql.UUID(orderUUID),
		PaymentIntentID: order.PaymentIntentID,
		StripeRefundID:  stripeRefund.ID,
		Amount:          amount,
		Currency:        "eur",
		Reason:          req.Reason,
		Status:          string(stripeRefund.Status),
		ItemIDs:         calc.SelectedItems(),
		CreatedAt:       time.Now(),
	}

	err = session.Query(`
		INSERT INTO refunds (refund_id, order_id, payment_intent_id, stripe_refund_id, amount, currency, reason, status, item_ids, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, refundRecord.ID, refundRecord.OrderID, refundRecord.PaymentIntentID, refundRecord.StripeRefundID,
		refundRecord.Amount, refundRecord.Currency, refundRecord.Reason, refundRecord.Status,
		refundRecord.ItemIDs, refundRecord.CreatedAt).Exec()
	if err != nil {
		log.Printf("⚠️ Remboursement Stripe %s émis mais non enregistré: %v", stripeRefund.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Remboursement émis mais non enregistré"})
		return
	}

	if err := recordLedgerTransaction(session, gocql.UUID(orderUUID), order.PaymentIntentID,
		models.TransactionTypeRefund, amount, refundRecord.Status); err != nil {
		log.Printf("⚠️ Écriture grand livre échouée pour %s: %v", orderID, err)
	}

	go notifyRefund(*order, amount)
	ws.Bump(orderID)

	log.Printf("💰 Remboursement de %.2f€ émis sur la commande %s", amount, orderID)
	c.JSON(http.StatusCreated, gin.H{
		"success":          true,
		"refund":           refundRecord,
		"remaining_amount": refunds.RemainingAmount(*order, append(existing, refundRecord)),
	})
}

// notifyRefund envoie l'email de remboursement avec l'avoir PDF en pièce jointe
func notifyRefund(order models.Order, amount float64) {
	user, err := cache.GetUserFromCache(order.UserID)
	if err != nil {
		log.Printf("⚠️ Utilisateur %s introuvable pour l'email de remboursement: %v", order.UserID, err)
		return
	}

	creditNote, err := utils.RenderCreditNotePDF(utils.GetFrontendCreditNoteBaseURL(), order.ID.String(), amount)
	if err != nil {
		log.Printf("⚠️ Génération avoir PDF échouée pour %s: %v", order.ID.String(), err)
		creditNote = nil
	}

	if err := utils.SendRefundEmail(order, user.Email, amount, creditNote); err != nil {
		log.Printf("❌ Email de remboursement non envoyé à %s: %v", user.Email, err)
	}
}

// GetOrderRefunds retourne les remboursements d'une commande, avec le total
// remboursé et les articles couverts
func GetOrderRefunds(c *gin.Context) {
	orderID := c.Param("orderId")
	orderUUID, err := uuid.Parse(orderID)
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

	refundList, err := loadRefunds(session, gocql.UUID(orderUUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture remboursements"})
		return
	}

	refundedItems := refunds.ResolveRefundedItems(*order, refundList)
	refundedIDs := make([]string, 0, len(refundedItems))
	for id := range refundedItems {
		refundedIDs = append(refundedIDs, id)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"refunds":          refundList,
		"total_refunded":   refunds.TotalRefunded(refundList),
		"remaining_amount": refunds.RemainingAmount(*order, refundList),
		"refunded_items":   refundedIDs,
	})
}

// GetAllRefunds liste tous les remboursements (admin)
func GetAllRefunds(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	iter := session.Query(`
		SELECT refund_id, order_id, payment_intent_id, stripe_refund_id, amount, currency, reason, status, item_ids, created_at, updated_at
		FROM refunds
	`).Iter()

	var refundList []models.Refund
	var r models.Refund

	for iter.Scan(&r.ID, &r.OrderID, &r.PaymentIntentID, &r.StripeRefundID, &r.Amount, &r.Currency,
		&r.Reason, &r.Status, &r.ItemIDs, &r.CreatedAt, &r.UpdatedAt) {
		refundList = append(refundList, r)
		r = models.Refund{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture remboursements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"refunds": refundList,
		"count":   len(refundList),
	})
}
