package product

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"vitrine_back_end/internal/cache"
	"vitrine_back_end/internal/database"
)

// UpdateStock ajuste le stock d'un produit (admin boutique)
func UpdateStock(c *gin.Context) {
	productUUID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de produit invalide"})
		return
	}

	var req struct {
		Stock *int `json:"stock" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || *req.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	p, err := loadProduct(session, gocql.UUID(productUUID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if !ownsProduct(c, p) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Ce produit n'appartient pas à votre boutique"})
		return
	}

	err = session.Query(`UPDATE products SET stock = ?, updated_at = ? WHERE product_id = ?`,
		*req.Stock, time.Now(), p.ID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour du stock"})
		return
	}

	cache.InvalidateProductCache(p.ID.String())

	if *req.Stock <= p.LowStockThreshold {
		log.Printf("⚠️ Stock bas pour %s: %d restant(s)", p.Name, *req.Stock)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stock": *req.Stock})
}

// GetLowStockProducts liste les produits sous leur seuil d'alerte (admin boutique)
func GetLowStockProducts(c *gin.Context) {
	storeID := c.GetString("store_id")
	storeUUID, err := uuid.Parse(storeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de boutique invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	iter := session.Query(`
		SELECT product_id, store_id, name, price, stock, low_stock_threshold FROM products
	`).Iter()

	type lowStockProduct struct {
		ID        string  `json:"id"`
		Name      string  `json:"name"`
		Price     float64 `json:"price"`
		Stock     int     `json:"stock"`
		Threshold int     `json:"threshold"`
	}

	var products []lowStockProduct
	var (
		pid, sid         gocql.UUID
		name             string
		price            float64
		stock, threshold int
	)

	for iter.Scan(&pid, &sid, &name, &price, &stock, &threshold) {
		if sid == gocql.UUID(storeUUID) && stock <= threshold {
			products = append(products, lowStockProduct{
				ID: pid.String(), Name: name, Price: price, Stock: stock, Threshold: threshold,
			})
		}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "products": products, "count": len(products)})
}
