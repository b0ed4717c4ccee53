package product

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vitrine_back_end/internal/services"
)

// SearchProducts recherche des produits dans Elasticsearch
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre q requis"})
		return
	}

	results, err := services.SearchProducts(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de recherche"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": results,
		"count":    len(results),
	})
}
