package utils

import (
	"fmt"
	"log"

	"vitrine_back_end/internal/models"
)

// SendOrderStatusEmail notifie l'utilisateur d'un changement de statut
func SendOrderStatusEmail(order models.Order, userEmail string, newStatus string) error {
	subject := getStatusEmailSubject(newStatus)
	html := generateStatusEmailHTML(order, newStatus)

	if err := SendEmail(userEmail, subject, html, nil); err != nil {
		log.Printf("❌ Erreur envoi email statut: %v", err)
		return err
	}

	log.Printf("📧 Email de statut envoyé: %s → %s", newStatus, userEmail)
	return nil
}

// SendRefundEmail notifie l'utilisateur d'un remboursement, avec avoir PDF
func SendRefundEmail(order models.Order, userEmail string, amount float64, creditNote []byte) error {
	subject := "💰 Remboursement effectué - Vitrine"
	html := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body>
	<h2>Remboursement effectué</h2>
	<p>Un remboursement de <strong>%.2f€</strong> a été émis sur votre commande %s.</p>
	<p>Il apparaîtra sur votre relevé sous 5 à 10 jours ouvrés.</p>
	<p>L'équipe Vitrine</p>
</body>
</html>`, amount, order.ID.String())

	return SendEmail(userEmail, subject, html, creditNote)
}

// SendReturnStatusEmail notifie l'utilisateur de l'avancement de son retour
func SendReturnStatusEmail(ret models.Return, userEmail string) error {
	var message string
	switch ret.Status {
	case models.ReturnStatusApproved:
		message = "Votre demande de retour a été acceptée. Vous recevrez une étiquette de dépôt."
	case models.ReturnStatusRejected:
		message = "Votre demande de retour a été refusée."
	case models.ReturnStatusReceived:
		message = "Nous avons bien reçu votre article, le remboursement suivra."
	case models.ReturnStatusRefunded:
		message = "Votre retour a été remboursé."
	default:
		message = "Votre demande de retour a été enregistrée."
	}

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body>
	<h2>Suivi de votre retour</h2>
	<p>%s</p>
	<p>Référence : %s</p>
	<p>L'équipe Vitrine</p>
</body>
</html>`, message, ret.ID.String())

	return SendEmail(userEmail, "📦 Suivi de votre retour - Vitrine", html, nil)
}

func getStatusEmailSubject(status string) string {
	switch status {
	case models.OrderStatusPending:
		return "✅ Paiement confirmé - Vitrine"
	case models.OrderStatusProcessing:
		return "🛠 Votre commande est en préparation - Vitrine"
	case models.OrderStatusShipped:
		return "📦 Votre commande a été expédiée - Vitrine"
	case models.OrderStatusDelivered:
		return "🎉 Votre commande a été livrée - Vitrine"
	case models.OrderStatusCancelled:
		return "❌ Commande annulée - Vitrine"
	default:
		return "📋 Mise à jour de votre commande - Vitrine"
	}
}

func generateStatusEmailHTML(order models.Order, status string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body>
	<h2>Mise à jour de votre commande</h2>
	<p>Votre commande %s est maintenant : <strong>%s</strong></p>
	<p>Montant : %.2f€</p>
	<p>L'équipe Vitrine</p>
</body>
</html>`, order.ID.String(), status, order.TotalAmount)
}
