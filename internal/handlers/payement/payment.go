package pa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/promotioncode"
	"github.com/stripe/stripe-go/v83/webhook"

	"vitrine_back_end/internal/cache"
	"vitrine_back_end/internal/database"
	"vitrine_back_end/internal/handlers/ws"
	"vitrine_back_end/internal/models"
	"vitrine_back_end/internal/utils"
)

// Checkout crée le payment intent Stripe pour le panier courant.
// Le stock est vérifié et réservé avant tout appel Stripe.
func Checkout(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		AddressID string `json:"address_id" binding:"required"`
		StoreID   string `json:"store_id" binding:"required"`
		PromoCode string `json:"promo_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	storeUUID, err := uuid.Parse(req.StoreID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de boutique invalide"})
		return
	}

	items, err := loadCart(userID)
	if err != nil || len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Votre panier est vide"})
		return
	}

	if err := checkStock(items); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	total := calcTotal(items)

	if req.PromoCode != "" {
		discount, err := resolvePromoDiscount(req.PromoCode)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Code promo invalide ou expiré"})
			return
		}
		total = total * (1 - discount)
	}

	if total <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Montant invalide"})
		return
	}

	orderUUID := gocql.TimeUUID()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(total * 100)),
		Currency: stripe.String(string(stripe.CurrencyEUR)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("order_id", orderUUID.String())
	params.AddMetadata("user_id", userID)

	pi, err := paymentintent.New(params)
	if err != nil {
		log.Printf("❌ Création payment intent échouée pour %s: %v", userID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Le paiement n'a pas pu être initialisé"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	orderItems := buildOrderItems(items)
	itemsJSON, _ := json.Marshal(orderItems)

	err = session.Query(`
		INSERT INTO orders (order_id, store_id, user_id, items, total_amount, status, address_id, payment_method, payment_intent_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, orderUUID, gocql.UUID(storeUUID), userID, string(itemsJSON), total,
		models.OrderStatusPendingPayment, req.AddressID, "stripe", pi.ID, time.Now()).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement de la commande"})
		return
	}
	session.Query(`INSERT INTO orders_by_user (user_id, order_id, total_amount, status, created_at)
		VALUES (?, ?, ?, ?, ?)`, userID, orderUUID, total, models.OrderStatusPendingPayment, time.Now()).Exec()

	log.Printf("💳 Payment intent %s créé pour la commande %s (%.2f€)", pi.ID, orderUUID.String(), total)
	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"order_id":      orderUUID.String(),
		"client_secret": pi.ClientSecret,
		"amount":        total,
	})
}

// loadCart lit le panier Redis de l'utilisateur
func loadCart(userID string) ([]models.CartItem, error) {
	data, err := database.Redis.Get(context.Background(), "cart:"+userID).Result()
	if err != nil {
		return nil, err
	}
	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// checkStock vérifie que chaque article du panier est encore disponible
func checkStock(items []models.CartItem) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return fmt.Errorf("erreur de connexion à la base")
	}

	for _, item := range items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return fmt.Errorf("article invalide dans le panier")
		}
		var stock int
		if err := session.Query(`SELECT stock FROM products WHERE product_id = ?`,
			gocql.UUID(pid)).Scan(&stock); err != nil {
			return fmt.Errorf("article introuvable: %s", item.Name)
		}
		if stock < item.Quantity {
			return fmt.Errorf("stock insuffisant pour %s", item.Name)
		}
	}
	return nil
}

// resolvePromoDiscount valide un code promo Stripe et retourne la remise (0..1)
func resolvePromoDiscount(code string) (float64, error) {
	params := &stripe.PromotionCodeListParams{}
	params.Code = stripe.String(code)
	params.Active = stripe.Bool(true)

	iter := promotioncode.List(params)
	for iter.Next() {
		if discount, ok := promoPercentDiscount(iter.PromotionCode()); ok {
			return discount, nil
		}
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("code promo introuvable")
}

// promoPercentDiscount extrait la remise en pourcentage d'un code promo.
// Le coupon est porté par la promotion, qui peut être absente.
func promoPercentDiscount(pc *stripe.PromotionCode) (float64, bool) {
	if pc == nil || pc.Promotion == nil || pc.Promotion.Coupon == nil {
		return 0, false
	}
	if pc.Promotion.Coupon.PercentOff <= 0 {
		return 0, false
	}
	return pc.Promotion.Coupon.PercentOff / 100, true
}

// buildOrderItems fige les prix du panier dans les lignes de commande
func buildOrderItems(items []models.CartItem) []models.OrderItem {
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, models.OrderItem{
			ProductID:     item.ProductID,
			Name:          item.Name,
			UnitPrice:     item.Price,
			Quantity:      item.Quantity,
			Subtotal:      item.Price * float64(item.Quantity),
			ReservationID: uuid.NewString(),
		})
	}
	return orderItems
}

// StripeWebhook reçoit les événements Stripe. Le succès du paiement
// confirme la commande, décrémente le stock, vide le panier et alimente
// le grand livre.
func StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps illisible"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"),
		os.Getenv("STRIPE_WEBHOOK_SECRET"))
	if err != nil {
		log.Println("❌ Signature webhook invalide:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Événement illisible"})
			return
		}
		handlePaymentSucceeded(pi)
	case "payment_intent.payment_failed":
		log.Printf("⚠️ Paiement échoué: %s", event.ID)
	default:
		log.Printf("🔔 Événement Stripe ignoré: %s", event.Type)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// handlePaymentSucceeded confirme la commande liée au payment intent
func handlePaymentSucceeded(pi stripe.PaymentIntent) {
	orderID := pi.Metadata["order_id"]
	userID := pi.Metadata["user_id"]
	if orderID == "" {
		log.Printf("⚠️ Payment intent %s sans order_id", pi.ID)
		return
	}

	orderUUID, err := uuid.Parse(orderID)
	if err != nil {
		log.Printf("⚠️ order_id invalide sur le payment intent %s", pi.ID)
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		log.Println("❌ Base commandes indisponible:", err)
		return
	}

	order, err := loadOrder(session, gocql.UUID(orderUUID))
	if err != nil {
		log.Printf("❌ Commande %s introuvable après paiement: %v", orderID, err)
		return
	}

	now := time.Now()
	if err := session.Query(`UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?`,
		models.OrderStatusPending, now, gocql.UUID(orderUUID)).Exec(); err != nil {
		log.Printf("❌ Confirmation de la commande %s échouée: %v", orderID, err)
		return
	}
	session.Query(`UPDATE orders_by_user SET status = ? WHERE user_id = ? AND order_id = ?`,
		models.OrderStatusPending, order.UserID, gocql.UUID(orderUUID)).Exec()

	decrementStock(order.Items)

	if err := recordLedgerTransaction(session, gocql.UUID(orderUUID), pi.ID,
		models.TransactionTypePayment, float64(pi.Amount)/100, string(pi.Status)); err != nil {
		log.Printf("⚠️ Écriture grand livre échouée pour %s: %v", orderID, err)
	}

	if userID != "" {
		database.Redis.Del(context.Background(), "cart:"+userID)
	}

	go func() {
		user, err := cache.GetUserFromCache(order.UserID)
		if err != nil {
			return
		}
		html := utils.GenerateOrderConfirmationHTML(*order, user.Email)
		if err := utils.SendEmail(user.Email, "✅ Confirmation de commande - Vitrine", html, nil); err != nil {
			log.Printf("❌ Email de confirmation non envoyé à %s: %v", user.Email, err)
		}
	}()
	ws.Bump(orderID)

	log.Printf("✅ Commande %s confirmée (%.2f€)", orderID, float64(pi.Amount)/100)
}

// decrementStock déduit les quantités commandées du stock produit
func decrementStock(items []models.OrderItem) {
	session, err := database.GetProductsSession()
	if err != nil {
		log.Println("❌ Base produits indisponible:", err)
		return
	}

	for _, item := range items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			continue
		}
		var stock int
		if err := session.Query(`SELECT stock FROM products WHERE product_id = ?`,
			gocql.UUID(pid)).Scan(&stock); err != nil {
			continue
		}
		newStock := stock - item.Quantity
		if newStock < 0 {
			newStock = 0
		}
		if err := session.Query(`UPDATE products SET stock = ? WHERE product_id = ?`,
			newStock, gocql.UUID(pid)).Exec(); err != nil {
			log.Printf("⚠️ Mise à jour stock échouée pour %s: %v", item.ProductID, err)
		}
		cache.InvalidateProductCache(item.ProductID)
	}
}
