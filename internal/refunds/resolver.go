package refunds

import (
	"math"

	"vitrine_back_end/internal/models"
)

// AmountTolerance absorbe les arrondis flottants : un remboursement sans
// liste d'articles dont le montant atteint le total de la commande à
// 0.01€ près couvre la commande entière.
const AmountTolerance = 0.01

// ResolveRefundedItems calcule l'ensemble des articles déjà intégralement
// remboursés d'une commande.
//
//   - un remboursement portant une liste d'articles explicite couvre
//     exactement ces articles
//   - un remboursement sans liste d'articles couvre toute la commande si
//     son montant atteint (ou dépasse) le total, à AmountTolerance près ;
//     sinon il ne couvre aucun article
func ResolveRefundedItems(order models.Order, refunds []models.Refund) map[string]bool {
	refunded := make(map[string]bool)

	for _, r := range refunds {
		if len(r.ItemIDs) > 0 {
			for _, id := range r.ItemIDs {
				refunded[id] = true
			}
			continue
		}

		// Remboursement purement monétaire : couverture totale ou rien
		if r.Amount >= order.TotalAmount || math.Abs(order.TotalAmount-r.Amount) <= AmountTolerance {
			for _, item := range order.Items {
				refunded[item.ProductID] = true
			}
		}
	}

	return refunded
}

// TotalRefunded additionne les montants déjà remboursés
func TotalRefunded(refunds []models.Refund) float64 {
	var total float64
	for _, r := range refunds {
		total += r.Amount
	}
	return total
}

// RemainingAmount retourne le montant encore remboursable d'une commande
func RemainingAmount(order models.Order, refunds []models.Refund) float64 {
	return order.TotalAmount - TotalRefunded(refunds)
}
