package ws

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"vitrine_back_end/internal/database"
)

// Canal Redis relayant les demandes de rafraîchissement entre instances
const refreshChannel = "orders:refresh"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// hub distribue les identifiants de commandes à rafraîchir aux clients
// websocket connectés. Les handlers publient via Bump, jamais en écrivant
// directement sur les connexions.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	once    sync.Once
}

var refreshHub = &hub{clients: make(map[*websocket.Conn]bool)}

// Bump signale qu'une commande a changé et doit être rechargée par les
// tableaux de bord ouverts
func Bump(orderID string) {
	if database.Redis == nil {
		return
	}
	if err := database.Redis.Publish(context.Background(), refreshChannel, orderID).Err(); err != nil {
		log.Printf("⚠️ Publication refresh échouée pour %s: %v", orderID, err)
	}
}

// subscribe relaie le canal Redis vers tous les clients connectés
func (h *hub) subscribe() {
	sub := database.Redis.Subscribe(context.Background(), refreshChannel)
	ch := sub.Channel()

	go func() {
		for msg := range ch {
			h.broadcast(msg.Payload)
		}
	}()
}

func (h *hub) broadcast(orderID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(gin.H{"type": "refresh", "order_id": orderID}); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// HandleRefreshSocket branche un client admin sur le flux de rafraîchissement
func HandleRefreshSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("❌ Upgrade websocket échoué:", err)
		return
	}

	refreshHub.once.Do(refreshHub.subscribe)
	refreshHub.add(conn)
	log.Println("🔌 Client refresh connecté")

	go func() {
		defer refreshHub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
