package store

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"vitrine_back_end/internal/database"
	"vitrine_back_end/internal/models"
	"vitrine_back_end/internal/utils"
)

// RequestWithdrawal enregistre une demande de virement des fonds de la
// boutique (admin boutique)
func RequestWithdrawal(c *gin.Context) {
	storeID := c.GetString("store_id")
	storeUUID, err := uuid.Parse(storeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de boutique invalide"})
		return
	}

	var req struct {
		Amount float64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Montant invalide"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	balance, err := storeBalance(session, gocql.UUID(storeUUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur calcul du solde"})
		return
	}
	if req.Amount > balance {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   fmt.Sprintf("Le montant dépasse le solde disponible (%.2f€)", balance),
			"balance": balance,
		})
		return
	}

	w := models.Withdrawal{
		ID:        gocql.TimeUUID(),
		StoreID:   gocql.UUID(storeUUID),
		Amount:    req.Amount,
		Currency:  "eur",
		Status:    models.WithdrawalStatusRequested,
		Reference: fmt.Sprintf("VITRINE-%s", gocql.TimeUUID().String()[:8]),
		CreatedAt: time.Now(),
	}

	err = session.Query(`
		INSERT INTO withdrawals (withdrawal_id, store_id, amount, currency, status, reference, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, w.ID, w.StoreID, w.Amount, w.Currency, w.Status, w.Reference, w.CreatedAt).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement de la demande"})
		return
	}

	log.Printf("🏦 Demande de retrait de %.2f€ pour la boutique %s", req.Amount, storeID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "withdrawal": w, "balance": balance})
}

// storeBalance calcule le solde disponible : paiements de la boutique moins
// remboursements et retraits déjà demandés ou payés
func storeBalance(session *gocql.Session, storeUUID gocql.UUID) (float64, error) {
	var balance float64

	iter := session.Query(`SELECT store_id, total_amount, status FROM orders`).Iter()
	var orderStore gocql.UUID
	var amount float64
	var status string
	for iter.Scan(&orderStore, &amount, &status) {
		if orderStore == storeUUID && status != models.OrderStatusPendingPayment && status != models.OrderStatusCancelled {
			balance += amount
		}
	}
	if err := iter.Close(); err != nil {
		return 0, err
	}

	wIter := session.Query(`SELECT store_id, amount, status FROM withdrawals`).Iter()
	var wStore gocql.UUID
	var wAmount float64
	var wStatus string
	for wIter.Scan(&wStore, &wAmount, &wStatus) {
		if wStore == storeUUID && wStatus != models.WithdrawalStatusRejected {
			balance -= wAmount
		}
	}
	if err := wIter.Close(); err != nil {
		return 0, err
	}

	return balance, nil
}

// GetStoreWithdrawals liste les demandes de retrait de la boutique
func GetStoreWithdrawals(c *gin.Context) {
	storeID := c.GetString("store_id")
	storeUUID, err := uuid.Parse(storeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de boutique invalide"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	iter := session.Query(`
		SELECT withdrawal_id, store_id, amount, currency, status, reference, created_at, updated_at
		FROM withdrawals
	`).Iter()

	var withdrawals []models.Withdrawal
	var w models.Withdrawal

	for iter.Scan(&w.ID, &w.StoreID, &w.Amount, &w.Currency, &w.Status, &w.Reference, &w.CreatedAt, &w.UpdatedAt) {
		if w.StoreID == gocql.UUID(storeUUID) {
			withdrawals = append(withdrawals, w)
		}
		w = models.Withdrawal{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture retraits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "withdrawals": withdrawals, "count": len(withdrawals)})
}

// ProcessWithdrawal traite une demande de retrait (admin plateforme).
// L'approbation génère le QR SEPA du virement vers l'IBAN de la boutique.
func ProcessWithdrawal(c *gin.Context) {
	withdrawalUUID, err := uuid.Parse(c.Param("withdrawalId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de retrait invalide"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if req.Status != models.WithdrawalStatusPaid && req.Status != models.WithdrawalStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut inconnu: " + req.Status})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion à la base"})
		return
	}

	var w models.Withdrawal
	err = session.Query(`
		SELECT withdrawal_id, store_id, amount, currency, status, reference, created_at
		FROM withdrawals WHERE withdrawal_id = ?
	`, gocql.UUID(withdrawalUUID)).Scan(&w.ID, &w.StoreID, &w.Amount, &w.Currency, &w.Status, &w.Reference, &w.CreatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Demande de retrait introuvable"})
		return
	}

	if w.Status != models.WithdrawalStatusRequested {
		c.JSON(http.StatusConflict, gin.H{"error": "Demande déjà traitée"})
		return
	}

	now := time.Now()
	err = session.Query(`UPDATE withdrawals SET status = ?, updated_at = ? WHERE withdrawal_id = ?`,
		req.Status, now, w.ID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour du retrait"})
		return
	}
	w.Status = req.Status
	w.UpdatedAt = &now

	resp := gin.H{"success": true, "withdrawal": w}

	if req.Status == models.WithdrawalStatusPaid {
		productsSession, err := database.GetProductsSession()
		if err == nil {
			s, err := loadStore(productsSession, w.StoreID)
			if err == nil {
				qr, err := utils.GenerateSepaQR(s.IBAN, s.BIC, s.Name, w.Reference, w.Amount)
				if err != nil {
					log.Printf("⚠️ Génération QR SEPA échouée pour %s: %v", w.ID.String(), err)
				} else {
					resp["sepa_qr"] = qr
				}
			}
		}

		if err := session.Query(`
			INSERT INTO transactions (transaction_id, order_id, payment_intent_id, type, amount, currency, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, gocql.TimeUUID(), w.StoreID, w.Reference, models.TransactionTypePayout, w.Amount, "eur",
			models.WithdrawalStatusPaid, now).Exec(); err != nil {
			log.Printf("⚠️ Écriture grand livre échouée pour le retrait %s: %v", w.ID.String(), err)
		}
	}

	log.Printf("🏦 Retrait %s passé à %s", w.ID.String(), req.Status)
	c.JSON(http.StatusOK, resp)
}
