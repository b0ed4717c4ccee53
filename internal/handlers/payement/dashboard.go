package pa

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vitrine_back_end/internal/cache"
	"vitrine_back_end/internal/database"
	"vitrine_back_end/internal/models"
)

// GetDashboardStats retourne les statistiques du tableau de bord admin
func GetDashboardStats(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	// Commandes
	var totalOrders int
	var totalRevenue float64
	statusCount := make(map[string]int)

	iter := session.Query("SELECT status, total_amount FROM orders").Iter()
	var status string
	var amount float64

	for iter.Scan(&status, &amount) {
		totalOrders++
		if status != models.OrderStatusPendingPayment && status != models.OrderStatusCancelled {
			totalRevenue += amount
		}
		statusCount[status]++
	}
	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture stats commandes: %v", err)
	}

	// Remboursements
	var totalRefunds int
	var totalRefunded float64
	var pendingRefunds int

	refundsIter := session.Query("SELECT status, amount FROM refunds").Iter()
	var refundStatus string
	var refundAmount float64

	for refundsIter.Scan(&refundStatus, &refundAmount) {
		totalRefunds++
		totalRefunded += refundAmount
		if refundStatus == models.RefundStatusPending {
			pendingRefunds++
		}
	}
	if err := refundsIter.Close(); err != nil {
		log.Printf("❌ Erreur lecture stats remboursements: %v", err)
	}

	// Retours ouverts
	var openReturns int
	returnsIter := session.Query("SELECT status FROM returns").Iter()
	var returnStatus string
	for returnsIter.Scan(&returnStatus) {
		if models.ReturnOpen(returnStatus) {
			openReturns++
		}
	}
	if err := returnsIter.Close(); err != nil {
		log.Printf("❌ Erreur lecture stats retours: %v", err)
	}

	// Produits
	productsSession, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	var totalProducts, lowStock, outOfStock int
	prodIter := productsSession.Query("SELECT stock FROM products").Iter()
	var stock int
	for prodIter.Scan(&stock) {
		totalProducts++
		if stock == 0 {
			outOfStock++
		} else if stock < 10 {
			lowStock++
		}
	}
	if err := prodIter.Close(); err != nil {
		log.Printf("❌ Erreur lecture stats produits: %v", err)
	}

	var averageOrderValue float64
	if totalOrders > 0 {
		averageOrderValue = totalRevenue / float64(totalOrders)
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": gin.H{
			"total":               totalOrders,
			"total_revenue":       totalRevenue,
			"average_order_value": averageOrderValue,
			"by_status":           statusCount,
		},
		"refunds": gin.H{
			"total":          totalRefunds,
			"total_refunded": totalRefunded,
			"pending":        pendingRefunds,
		},
		"returns": gin.H{
			"open": openReturns,
		},
		"products": gin.H{
			"total":        totalProducts,
			"low_stock":    lowStock,
			"out_of_stock": outOfStock,
		},
		"net_revenue":  totalRevenue - totalRefunded,
		"generated_at": time.Now(),
	})
}

// GetRecentOrders retourne les dernières commandes
func GetRecentOrders(c *gin.Context) {
	limit := 10
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	iter := session.Query(`
		SELECT order_id, user_id, payment_intent_id, total_amount, status, created_at
		FROM orders LIMIT ?
	`, limit).Iter()

	type recentOrder struct {
		ID              string    `json:"id"`
		UserID          string    `json:"user_id"`
		PaymentIntentID string    `json:"payment_intent_id"`
		TotalAmount     float64   `json:"total_amount"`
		Status          string    `json:"status"`
		CreatedAt       time.Time `json:"created_at"`
	}

	var orders []recentOrder
	var order recentOrder
	var orderID gocql.UUID

	for iter.Scan(&orderID, &order.UserID, &order.PaymentIntentID, &order.TotalAmount, &order.Status, &order.CreatedAt) {
		order.ID = orderID.String()
		orders = append(orders, order)
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture commandes récentes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetTopProducts retourne les produits les plus vendus
func GetTopProducts(c *gin.Context) {
	limit := 10
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	quantities := make(map[string]int)

	iter := session.Query("SELECT items FROM orders").Iter()
	var itemsJSON string
	for iter.Scan(&itemsJSON) {
		if itemsJSON == "" {
			continue
		}
		var items []models.OrderItem
		if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
			continue
		}
		for _, item := range items {
			quantities[item.ProductID] += item.Quantity
		}
	}
	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture top produits: %v", err)
	}

	type topProduct struct {
		ProductID string `json:"product_id"`
		Name      string `json:"name"`
		Sold      int    `json:"sold"`
	}

	top := make([]topProduct, 0, len(quantities))
	ids := make([]string, 0, len(quantities))
	for id, qty := range quantities {
		top = append(top, topProduct{ProductID: id, Sold: qty})
		ids = append(ids, id)
	}
	sort.Slice(top, func(i, j int) bool { return top[i].Sold > top[j].Sold })
	if len(top) > limit {
		top = top[:limit]
	}

	names := cache.GetProductNamesFromCache(ids)
	for i := range top {
		top[i].Name = names[top[i].ProductID]
	}

	c.JSON(http.StatusOK, gin.H{
		"products": top,
		"count":    len(top),
	})
}
