package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"vitrine_back_end/internal/database"
	"vitrine_back_end/internal/models"
)

// CreateAddress enregistre une adresse de livraison
func CreateAddress(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Street     string `json:"street" binding:"required"`
		City       string `json:"city" binding:"required"`
		PostalCode string `json:"postal_code" binding:"required"`
		Country    string `json:"country" binding:"required"`
		IsDefault  bool   `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	addr := models.Address{
		ID:         gocql.TimeUUID(),
		UserID:     userID,
		Street:     req.Street,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	}

	err = session.Query(`
		INSERT INTO addresses (address_id, user_id, street, city, postal_code, country, is_default)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, addr.ID, addr.UserID, addr.Street, addr.City, addr.PostalCode, addr.Country, addr.IsDefault).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement de l'adresse"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "address": addr})
}

// GetMyAddresses liste les adresses de l'utilisateur
func GetMyAddresses(c *gin.Context) {
	userID := c.GetString("user_id")

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	iter := session.Query(`
		SELECT address_id, street, city, postal_code, country, is_default
		FROM addresses WHERE user_id = ?
	`, userID).Iter()

	var addresses []models.Address
	var addr models.Address

	for iter.Scan(&addr.ID, &addr.Street, &addr.City, &addr.PostalCode, &addr.Country, &addr.IsDefault) {
		addr.UserID = userID
		addresses = append(addresses, addr)
		addr = models.Address{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture adresses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "addresses": addresses, "count": len(addresses)})
}

// DeleteAddress supprime une adresse de l'utilisateur
func DeleteAddress(c *gin.Context) {
	userID := c.GetString("user_id")

	addrUUID, err := uuid.Parse(c.Param("addressId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant d'adresse invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	err = session.Query(`DELETE FROM addresses WHERE user_id = ? AND address_id = ?`,
		userID, gocql.UUID(addrUUID)).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression de l'adresse"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
