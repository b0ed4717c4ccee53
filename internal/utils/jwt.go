package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vitrine_back_end/internal/models"
)

func GenerateJWT(user models.User) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	if user.StoreID != nil {
		claims["store_id"] = *user.StoreID
	}
	if user.IsStoreAdmin != nil {
		claims["isStoreAdmin"] = *user.IsStoreAdmin
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
