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
	"vitrine_back_end/internal/models"
	"vitrine_back_end/internal/services"
)

// CreateProduct ajoute un produit au catalogue de la boutique (admin boutique)
func CreateProduct(c *gin.Context) {
	storeID := c.GetString("store_id")
	storeUUID, err := uuid.Parse(storeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de boutique invalide"})
		return
	}

	var req struct {
		Name              string   `json:"name" binding:"required"`
		Description       string   `json:"description"`
		Price             float64  `json:"price" binding:"required,gt=0"`
		Stock             int      `json:"stock" binding:"gte=0"`
		LowStockThreshold int      `json:"low_stock_threshold"`
		SKU               string   `json:"sku"`
		CategoryID        string   `json:"category_id"`
		Tags              []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	p := models.Product{
		ID:                gocql.TimeUUID(),
		StoreID:           gocql.UUID(storeUUID),
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
		SKU:               req.SKU,
		Tags:              req.Tags,
		IsActive:          true,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	if p.LowStockThreshold == 0 {
		p.LowStockThreshold = 10
	}
	if req.CategoryID != "" {
		catUUID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de catégorie invalide"})
			return
		}
		p.CategoryID = gocql.UUID(catUUID)
	}

	err = session.Query(`
		INSERT INTO products (product_id, store_id, name, description, price, stock, low_stock_threshold, sku, category_id, tags, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.StoreID, p.Name, p.Description, p.Price, p.Stock, p.LowStockThreshold,
		p.SKU, p.CategoryID, p.Tags, p.IsActive, p.CreatedAt, p.UpdatedAt).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement du produit"})
		return
	}

	go services.IndexProduct(p)

	log.Printf("✅ Produit %s créé pour la boutique %s", p.Name, storeID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "product": p})
}

// GetProduct retourne un produit par son identifiant
func GetProduct(c *gin.Context) {
	productUUID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de produit invalide"})
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

	c.JSON(http.StatusOK, gin.H{"success": true, "product": p})
}

// GetAllProducts liste les produits actifs, filtrables par boutique
func GetAllProducts(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	var storeFilter *gocql.UUID
	if s := c.Query("storeId"); s != "" {
		storeUUID, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de boutique invalide"})
			return
		}
		u := gocql.UUID(storeUUID)
		storeFilter = &u
	}

	iter := session.Query(`
		SELECT product_id, store_id, name, description, price, stock, low_stock_threshold, sku, category_id, tags, image_urls, is_active, created_at, updated_at
		FROM products
	`).Iter()

	var products []models.Product
	var p models.Product

	for iter.Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.LowStockThreshold,
		&p.SKU, &p.CategoryID, &p.Tags, &p.ImageURLs, &p.IsActive, &p.CreatedAt, &p.UpdatedAt) {
		if p.IsActive && (storeFilter == nil || p.StoreID == *storeFilter) {
			products = append(products, p)
		}
		p = models.Product{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "products": products, "count": len(products)})
}

// UpdateProduct modifie un produit (admin boutique)
func UpdateProduct(c *gin.Context) {
	productUUID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de produit invalide"})
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Tags        []string `json:"tags"`
		IsActive    *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
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

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
			return
		}
		p.Price = *req.Price
	}
	if req.Tags != nil {
		p.Tags = req.Tags
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.UpdatedAt = time.Now()

	err = session.Query(`
		UPDATE products SET name = ?, description = ?, price = ?, tags = ?, is_active = ?, updated_at = ?
		WHERE product_id = ?
	`, p.Name, p.Description, p.Price, p.Tags, p.IsActive, p.UpdatedAt, p.ID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour du produit"})
		return
	}

	cache.InvalidateProductCache(p.ID.String())
	go services.IndexProduct(*p)

	c.JSON(http.StatusOK, gin.H{"success": true, "product": p})
}

// DeleteProduct retire un produit du catalogue (admin boutique)
func DeleteProduct(c *gin.Context) {
	productUUID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de produit invalide"})
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

	if err := session.Query(`DELETE FROM products WHERE product_id = ?`, p.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression du produit"})
		return
	}

	cache.InvalidateProductCache(p.ID.String())
	go services.RemoveProductFromIndex(p.ID.String())

	log.Printf("🗑️ Produit %s supprimé", p.ID.String())
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ownsProduct vérifie que le produit appartient à la boutique du requérant.
// Un admin plateforme passe toujours.
func ownsProduct(c *gin.Context, p *models.Product) bool {
	if c.GetString("role") == "admin" {
		return true
	}
	return c.GetString("store_id") == p.StoreID.String()
}

// loadProduct charge un produit complet
func loadProduct(session *gocql.Session, productUUID gocql.UUID) (*models.Product, error) {
	var p models.Product
	err := session.Query(`
		SELECT product_id, store_id, name, description, price, stock, low_stock_threshold, sku, category_id, tags, image_urls, is_active, created_at, updated_at
		FROM products WHERE product_id = ?
	`, productUUID).Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.LowStockThreshold, &p.SKU, &p.CategoryID, &p.Tags, &p.ImageURLs, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
