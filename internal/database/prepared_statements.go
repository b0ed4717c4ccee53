package database

import (
	"log"
	"sync"

	"github.com/gocql/gocql"
)

var (
	// Prepared statements pour les requêtes chaudes
	stmtGetUserByEmail    *gocql.Query
	stmtGetUserByID       *gocql.Query
	stmtInsertUser        *gocql.Query
	stmtGetOrderByID      *gocql.Query
	stmtGetRefundsByOrder *gocql.Query
	stmtGetLedgerByOrder  *gocql.Query

	preparedOnce sync.Once
)

// InitPreparedStatements initialise les prepared statements
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		usersSession, err := GetUsersSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements users: %v", err)
			return
		}

		stmtGetUserByEmail = usersSession.Query("SELECT user_id FROM users_by_email WHERE email = ?")
		stmtGetUserByID = usersSession.Query(`SELECT email, password, name, role, provider, provider_id, store_id, is_store_admin
			FROM users WHERE user_id = ?`)
		stmtInsertUser = usersSession.Query(`INSERT INTO users (user_id, email, password, name, role, provider, provider_id, store_id, is_store_admin, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

		ordersSession, err := GetOrdersSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements orders: %v", err)
			return
		}

		stmtGetOrderByID = ordersSession.Query(`SELECT store_id, user_id, items, total_amount, status, address_id, payment_method, payment_intent_id, tracking_number, created_at, updated_at
			FROM orders WHERE order_id = ?`)
		stmtGetRefundsByOrder = ordersSession.Query(`SELECT refund_id, payment_intent_id, stripe_refund_id, amount, currency, reason, status, item_ids, created_at, updated_at
			FROM refunds WHERE order_id = ?`)
		stmtGetLedgerByOrder = ordersSession.Query(`SELECT transaction_id, payment_intent_id, type, amount, currency, status, created_at
			FROM transactions WHERE order_id = ?`)

		log.Println("✅ Prepared statements initialisés")
	})
}

func GetPreparedGetUserByEmail() *gocql.Query    { return stmtGetUserByEmail }
func GetPreparedGetUserByID() *gocql.Query       { return stmtGetUserByID }
func GetPreparedInsertUser() *gocql.Query        { return stmtInsertUser }
func GetPreparedGetOrderByID() *gocql.Query      { return stmtGetOrderByID }
func GetPreparedGetRefundsByOrder() *gocql.Query { return stmtGetRefundsByOrder }
func GetPreparedGetLedgerByOrder() *gocql.Query  { return stmtGetLedgerByOrder }
