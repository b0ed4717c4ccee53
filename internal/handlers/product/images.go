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
	"vitrine_back_end/internal/services"
)

// UploadProductImage attache une image à un produit via MinIO (admin boutique)
func UploadProductImage(c *gin.Context) {
	productUUID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de produit invalide"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier image manquant"})
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

	url, err := services.UploadProductImage(p.ID.String(), file)
	if err != nil {
		log.Printf("🪣 Upload MinIO échoué pour %s: %v", p.ID.String(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur envoi de l'image"})
		return
	}

	p.ImageURLs = append(p.ImageURLs, url)
	err = session.Query(`UPDATE products SET image_urls = ?, updated_at = ? WHERE product_id = ?`,
		p.ImageURLs, time.Now(), p.ID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement de l'image"})
		return
	}

	cache.InvalidateProductCache(p.ID.String())
	go services.IndexProduct(*p)

	log.Printf("🪣 Image ajoutée au produit %s", p.ID.String())
	c.JSON(http.StatusCreated, gin.H{"success": true, "url": url, "image_urls": p.ImageURLs})
}

// GetPresignedImageURL retourne une URL signée temporaire pour une image
func GetPresignedImageURL(c *gin.Context) {
	object := c.Query("object")
	if object == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre object requis"})
		return
	}

	url, err := services.PresignedImageURL(object, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération de l'URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}
