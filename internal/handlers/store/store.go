package store

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
)

// CreateStore enregistre une nouvelle boutique, en attente de validation admin.
// Le créateur devient administrateur de sa boutique.
func CreateStore(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		IBAN        string `json:"iban" binding:"required"`
		BIC         string `json:"bic" binding:"required"`
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

	storeRecord := models.Store{
		ID:          gocql.TimeUUID(),
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
		Status:      models.StoreStatusPending,
		IBAN:        req.IBAN,
		BIC:         req.BIC,
		CreatedAt:   time.Now(),
	}

	err = session.Query(`
		INSERT INTO stores (store_id, name, description, owner_id, status, iban, bic, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, storeRecord.ID, storeRecord.Name, storeRecord.Description, storeRecord.OwnerID,
		storeRecord.Status, storeRecord.IBAN, storeRecord.BIC, storeRecord.CreatedAt).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement de la boutique"})
		return
	}

	// Rattacher le créateur à sa boutique
	usersSession, err := database.GetUsersSession()
	if err == nil {
		uid, err := uuid.Parse(userID)
		if err == nil {
			usersSession.Query(`UPDATE users SET store_id = ?, is_store_admin = ? WHERE user_id = ?`,
				storeRecord.ID, true, gocql.UUID(uid)).Exec()
			cache.InvalidateUserCache(userID)
		}
	}

	log.Printf("🏪 Boutique %s créée par %s (en attente de validation)", storeRecord.Name, userID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "store": storeRecord})
}

// GetStore retourne une boutique par son identifiant
func GetStore(c *gin.Context) {
	storeUUID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de boutique invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	s, err := loadStore(session, gocql.UUID(storeUUID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Boutique introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "store": s})
}

// GetMyStore retourne la boutique de l'utilisateur connecté
func GetMyStore(c *gin.Context) {
	storeID := c.GetString("store_id")
	if storeID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Aucune boutique associée"})
		return
	}

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

	s, err := loadStore(session, gocql.UUID(storeUUID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Boutique introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "store": s})
}

// UpdateStore modifie le profil de la boutique (admin boutique)
func UpdateStore(c *gin.Context) {
	storeID := c.GetString("store_id")
	storeUUID, err := uuid.Parse(storeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de boutique invalide"})
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IBAN        string `json:"iban"`
		BIC         string `json:"bic"`
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

	s, err := loadStore(session, gocql.UUID(storeUUID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Boutique introuvable"})
		return
	}

	if req.Name != "" {
		s.Name = req.Name
	}
	if req.Description != "" {
		s.Description = req.Description
	}
	if req.IBAN != "" {
		s.IBAN = req.IBAN
	}
	if req.BIC != "" {
		s.BIC = req.BIC
	}
	now := time.Now()
	s.UpdatedAt = &now

	err = session.Query(`UPDATE stores SET name = ?, description = ?, iban = ?, bic = ?, updated_at = ? WHERE store_id = ?`,
		s.Name, s.Description, s.IBAN, s.BIC, now, s.ID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour de la boutique"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "store": s})
}

// GetAllStores liste toutes les boutiques (admin plateforme)
func GetAllStores(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	iter := session.Query(`
		SELECT store_id, name, description, owner_id, status, created_at, updated_at FROM stores
	`).Iter()

	var stores []models.Store
	var s models.Store

	for iter.Scan(&s.ID, &s.Name, &s.Description, &s.OwnerID, &s.Status, &s.CreatedAt, &s.UpdatedAt) {
		stores = append(stores, s)
		s = models.Store{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture boutiques"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stores": stores, "count": len(stores)})
}

// ApproveStore active ou suspend une boutique (admin plateforme)
func ApproveStore(c *gin.Context) {
	storeUUID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de boutique invalide"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if req.Status != models.StoreStatusActive && req.Status != models.StoreStatusSuspended {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut inconnu: " + req.Status})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	now := time.Now()
	err = session.Query(`UPDATE stores SET status = ?, updated_at = ? WHERE store_id = ?`,
		req.Status, now, gocql.UUID(storeUUID)).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour de la boutique"})
		return
	}

	log.Printf("✅ Boutique %s passée à %s", storeUUID.String(), req.Status)
	c.JSON(http.StatusOK, gin.H{"success": true, "status": req.Status})
}

// loadStore charge une boutique avec ses coordonnées bancaires
func loadStore(session *gocql.Session, storeUUID gocql.UUID) (*models.Store, error) {
	var s models.Store
	err := session.Query(`
		SELECT store_id, name, description, owner_id, status, iban, bic, created_at, updated_at
		FROM stores WHERE store_id = ?
	`, storeUUID).Scan(&s.ID, &s.Name, &s.Description, &s.OwnerID, &s.Status, &s.IBAN, &s.BIC,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
