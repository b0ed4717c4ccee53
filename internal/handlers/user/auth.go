package user

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vitrine_back_end/internal/cache"
	"vitrine_back_end/internal/database"
	"vitrine_back_end/internal/models"
	"vitrine_back_end/internal/utils"
)

// Register crée un compte utilisateur local
func Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	// Email déjà pris ?
	var existingID gocql.UUID
	if err := database.GetPreparedGetUserByEmail().Bind(req.Email).Scan(&existingID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte existe déjà avec cet email"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de création du compte"})
		return
	}

	userID := gocql.TimeUUID()
	err = database.GetPreparedInsertUser().Bind(
		userID, req.Email, hash, req.Name, "user", "local", "", nil, false, time.Now()).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de création du compte"})
		return
	}
	session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?)`, req.Email, userID).Exec()

	u := models.User{
		ID:    userID.String(),
		Name:  req.Name,
		Email: req.Email,
		Role:  "user",
	}

	token, err := utils.GenerateJWT(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de génération du token"})
		return
	}

	log.Printf("✅ Compte créé pour %s", req.Email)
	c.JSON(http.StatusCreated, gin.H{"success": true, "token": token, "user": u})
}

// Login authentifie un utilisateur local et retourne un JWT
func Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var userID gocql.UUID
	if err := database.GetPreparedGetUserByEmail().Bind(req.Email).Scan(&userID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	var (
		email, password, name, role, provider, providerID string
		storeID                                           *gocql.UUID
		isStoreAdmin                                      bool
	)
	err := database.GetPreparedGetUserByID().Bind(userID).Scan(
		&email, &password, &name, &role, &provider, &providerID, &storeID, &isStoreAdmin)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	ok, err := utils.VerifyPassword(req.Password, password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	u := models.User{
		ID:       userID.String(),
		Name:     name,
		Email:    email,
		Role:     role,
		Provider: provider,
	}
	if storeID != nil {
		s := storeID.String()
		u.StoreID = &s
		u.IsStoreAdmin = &isStoreAdmin
	}

	token, err := utils.GenerateJWT(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de génération du token"})
		return
	}

	log.Printf("✅ Connexion de %s", email)
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": u})
}

// Me retourne le profil de l'utilisateur connecté
func Me(c *gin.Context) {
	userID := c.GetString("user_id")

	u, err := cache.GetUserFromCache(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}
