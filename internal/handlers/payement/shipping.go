package pa

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vitrine_back_end/internal/models"
)

// Seuil au-delà duquel la livraison standard est offerte
const freeShippingThreshold = 50.0

// GetShippingOptions retourne les options de livraison disponibles
func GetShippingOptions(c *gin.Context) {
	var cartTotal float64
	if total := c.Query("cart_total"); total != "" {
		if n, err := strconv.ParseFloat(total, 64); err == nil && n >= 0 {
			cartTotal = n
		}
	}

	isFree := cartTotal >= freeShippingThreshold

	options := []models.ShippingOption{
		{
			ID:            "standard",
			Name:          "Livraison Standard",
			Description:   "Livraison en 5-7 jours ouvrés",
			Price:         5.99,
			EstimatedDays: 7,
		},
		{
			ID:            "express",
			Name:          "Livraison Express",
			Description:   "Livraison en 2-3 jours ouvrés",
			Price:         12.99,
			EstimatedDays: 3,
		},
		{
			ID:            "next_day",
			Name:          "Livraison 24h",
			Description:   "Livraison le lendemain avant 18h",
			Price:         19.99,
			EstimatedDays: 1,
		},
	}

	if isFree {
		options[0].Price = 0
		options[0].Name = "Livraison Standard Gratuite"
	}

	c.JSON(http.StatusOK, models.ShippingCalculation{
		Options:       options,
		FreeThreshold: freeShippingThreshold,
		CartTotal:     cartTotal,
		IsFree:        isFree,
	})
}
