package product

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"vitrine_back_end/internal/database"
	"vitrine_back_end/internal/models"
)

// CreateCategory ajoute une catégorie (admin plateforme)
func CreateCategory(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		ParentID string `json:"parent_id"`
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

	cat := models.Category{
		ID:        gocql.TimeUUID(),
		Name:      req.Name,
		Slug:      slugify(req.Name),
		CreatedAt: time.Now(),
	}
	if req.ParentID != "" {
		parentUUID, err := uuid.Parse(req.ParentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de catégorie parente invalide"})
			return
		}
		p := gocql.UUID(parentUUID)
		cat.ParentID = &p
	}

	err = session.Query(`
		INSERT INTO categories (category_id, name, slug, parent_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, cat.ID, cat.Name, cat.Slug, cat.ParentID, cat.CreatedAt).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement de la catégorie"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "category": cat})
}

// GetCategories liste toutes les catégories
func GetCategories(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	iter := session.Query(`SELECT category_id, name, slug, parent_id, created_at FROM categories`).Iter()

	var categories []models.Category
	var cat models.Category

	for iter.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.ParentID, &cat.CreatedAt) {
		categories = append(categories, cat)
		cat = models.Category{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories, "count": len(categories)})
}

// DeleteCategory supprime une catégorie (admin plateforme)
func DeleteCategory(c *gin.Context) {
	catUUID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de catégorie invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	if err := session.Query(`DELETE FROM categories WHERE category_id = ?`, gocql.UUID(catUUID)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression de la catégorie"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// slugify transforme un nom en slug URL
func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, s)
	return s
}
