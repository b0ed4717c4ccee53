package user

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"vitrine_back_end/internal/database"
	"vitrine_back_end/internal/models"
)

// Panier abandonné purgé après 7 jours
const cartTTL = 7 * 24 * time.Hour

// GetCart retourne le panier courant
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")

	items, err := readCart(userID)
	if err != nil {
		items = []models.CartItem{}
	}

	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"cart":    models.Cart{UserID: userID, Items: items},
		"total":   total,
	})
}

// AddToCart ajoute un article (ou augmente sa quantité)
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de produit invalide"})
		return
	}

	// Figer nom et prix au moment de l'ajout
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	var name string
	var price float64
	var stock int
	err = session.Query(`SELECT name, price, stock FROM products WHERE product_id = ?`,
		gocql.UUID(pid)).Scan(&name, &price, &stock)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	items, _ := readCart(userID)

	found := false
	for i := range items {
		if items[i].ProductID == req.ProductID {
			items[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, models.CartItem{
			ProductID: req.ProductID,
			Name:      name,
			Price:     price,
			Quantity:  req.Quantity,
		})
	}

	for _, item := range items {
		if item.ProductID == req.ProductID && item.Quantity > stock {
			c.JSON(http.StatusConflict, gin.H{"error": "Stock insuffisant pour " + name})
			return
		}
	}

	if err := writeCart(userID, items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement du panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "items": items})
}

// UpdateCartItem fixe la quantité d'un article (0 le retire)
func UpdateCartItem(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  *int   `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || *req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	items, err := readCart(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Panier vide"})
		return
	}

	updated := items[:0]
	for _, item := range items {
		if item.ProductID == req.ProductID {
			if *req.Quantity == 0 {
				continue
			}
			item.Quantity = *req.Quantity
		}
		updated = append(updated, item)
	}

	if err := writeCart(userID, updated); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement du panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "items": updated})
}

// ClearCart vide le panier
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	database.Redis.Del(context.Background(), "cart:"+userID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func readCart(userID string) ([]models.CartItem, error) {
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

func writeCart(userID string, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return database.Redis.Set(context.Background(), "cart:"+userID, data, cartTTL).Err()
}
