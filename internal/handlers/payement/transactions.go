package pa

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"

	"vitrine_back_end/internal/database"
	"vitrine_back_end/internal/models"
	"vitrine_back_end/internal/refunds"
)

// orderFetcher rafraîchit en parallèle grand livre, transactions Stripe et
// remboursements d'une commande. Les jetons de séquence empêchent un
// rafraîchissement lent d'écraser un plus récent.
var orderFetcher = refunds.NewFetcher(fetchLedgerTransactions, fetchStripeTransactions, fetchOrderRefunds)

// fetchLedgerTransactions lit le grand livre local d'une commande
func fetchLedgerTransactions(ctx context.Context, orderID string) ([]models.Transaction, error) {
	orderUUID, err := uuid.Parse(orderID)
	if err != nil {
		return nil, err
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`
		SELECT transaction_id, payment_intent_id, type, amount, currency, status, created_at
		FROM transactions WHERE order_id = ?
	`, gocql.UUID(orderUUID)).WithContext(ctx).Iter()

	var transactions []models.Transaction
	var (
		txID            gocql.UUID
		paymentIntentID string
		txType          string
		amount          float64
		currency        string
		status          string
		createdAt       time.Time
	)

	for iter.Scan(&txID, &paymentIntentID, &txType, &amount, &currency, &status, &createdAt) {
		transactions = append(transactions,
			models.NewStoreTransaction(txID.String(), orderID, paymentIntentID, txType, amount, currency, status, createdAt))
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	return transactions, nil
}

// fetchStripeTransactions liste les payment intents Stripe et ne garde que
// celui de la commande
func fetchStripeTransactions(ctx context.Context, paymentIntentID string) ([]models.Transaction, error) {
	params := &stripe.PaymentIntentListParams{}
	params.Limit = stripe.Int64(100)
	params.Context = ctx

	var transactions []models.Transaction
	iter := paymentintent.List(params)
	for iter.Next() {
		pi := iter.PaymentIntent()
		if pi.ID != paymentIntentID {
			continue
		}
		transactions = append(transactions,
			models.NewStripeTransaction(pi.ID, pi.ID, float64(pi.Amount)/100, string(pi.Currency), string(pi.Status), time.Unix(pi.Created, 0)))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

// fetchOrderRefunds lit les remboursements d'une commande
func fetchOrderRefunds(ctx context.Context, orderID string) ([]models.Refund, error) {
	orderUUID, err := uuid.Parse(orderID)
	if err != nil {
		return nil, err
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	return loadRefunds(session, gocql.UUID(orderUUID))
}

// GetTransactions retourne les écritures du grand livre local, filtrées par commande
func GetTransactions(c *gin.Context) {
	orderID := c.Query("orderId")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre orderId requis"})
		return
	}

	transactions, err := fetchLedgerTransactions(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"transactions": transactions,
		"count":        len(transactions),
	})
}

// GetStripeTransactions liste les transactions côté Stripe
func GetStripeTransactions(c *gin.Context) {
	limit := int64(20)
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.ParseInt(l, 10, 64); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	if t := c.Query("type"); t != "" && t != "payment_intent" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type de transaction non supporté"})
		return
	}

	params := &stripe.PaymentIntentListParams{}
	params.Limit = stripe.Int64(limit)
	params.Context = c.Request.Context()

	var transactions []models.Transaction
	iter := paymentintent.List(params)
	for iter.Next() {
		pi := iter.PaymentIntent()
		transactions = append(transactions,
			models.NewStripeTransaction(pi.ID, pi.ID, float64(pi.Amount)/100, string(pi.Currency), string(pi.Status), time.Unix(pi.Created, 0)))
	}
	if err := iter.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture transactions Stripe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"transactions": transactions,
		"count":        len(transactions),
	})
}
