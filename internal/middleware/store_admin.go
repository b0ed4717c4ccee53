package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StoreAdminRequired vérifie que l'utilisateur est admin de sa boutique
func StoreAdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		isStoreAdmin, exists := c.Get("isStoreAdmin")

		if !exists || !isStoreAdmin.(bool) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Accès réservé aux administrateurs de boutique",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
