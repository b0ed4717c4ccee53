package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/markbates/goth/gothic"

	"vitrine_back_end/internal/database"
	"vitrine_back_end/internal/models"
	"vitrine_back_end/internal/utils"
)

type ctxKey string

const ProviderKey ctxKey = "provider"

// BeginAuth démarre le flux OAuth du provider demandé
func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun provider spécifié"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ProviderKey, provider),
	)

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// CallbackAuth termine le flux OAuth : le compte est créé au premier passage,
// puis un JWT interne est émis
func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun provider spécifié"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ProviderKey, provider),
	)

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	var userID gocql.UUID
	err = database.GetPreparedGetUserByEmail().Bind(gothUser.Email).Scan(&userID)
	if err != nil {
		// Premier passage : créer le compte
		userID = gocql.TimeUUID()
		err = database.GetPreparedInsertUser().Bind(
			userID, gothUser.Email, "", gothUser.Name, "user", provider, gothUser.UserID, nil, false, time.Now()).Exec()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de création du compte"})
			return
		}
		session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?)`, gothUser.Email, userID).Exec()
		log.Printf("✅ Compte OAuth %s créé pour %s", provider, gothUser.Email)
	}

	u := models.User{
		ID:       userID.String(),
		Name:     gothUser.Name,
		Email:    gothUser.Email,
		Role:     "user",
		Provider: provider,
	}

	token, err := utils.GenerateJWT(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de génération du token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": u})
}

// Logout termine la session OAuth côté serveur
func Logout(c *gin.Context) {
	gothic.Logout(c.Writer, c.Request)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
