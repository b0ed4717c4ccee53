package refunds

import (
	"errors"
	"fmt"

	"vitrine_back_end/internal/models"
)

// Modes de remboursement
type Mode string

const (
	ModeNone    Mode = ""
	ModeFull    Mode = "full"
	ModeByItems Mode = "items"
	ModeCustom  Mode = "custom"
)

// États du calculateur
type State string

const (
	StateUnselected State = "unselected"
	StateReady      State = "ready"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

var (
	ErrInvalidAmount   = errors.New("montant invalide")
	ErrNoItemSelected  = errors.New("aucun article sélectionné")
	ErrAlreadyRefunded = errors.New("article déjà remboursé")
	ErrUnknownItem     = errors.New("article inconnu dans la commande")
	ErrNotReady        = errors.New("aucun mode de remboursement sélectionné")
)

// ExceedsRemainingError signale un montant supérieur au restant remboursable
type ExceedsRemainingError struct {
	Remaining float64
}

func (e ExceedsRemainingError) Error() string {
	return fmt.Sprintf("dépasse le montant restant (%.2f€)", e.Remaining)
}

// Calculator dérive et valide le montant d'un remboursement pour une
// commande, selon le mode choisi (total, par articles, montant libre).
// Cycle : unselected → ready → submitting → succeeded | failed ;
// un échec ramène à l'état ready, jamais à unselected.
type Calculator struct {
	order     models.Order
	refunds   []models.Refund
	refunded  map[string]bool
	subtotals map[string]float64

	mode      Mode
	state     State
	selected  map[string]bool
	custom    float64
	hasCustom bool
}

// NewCalculator prépare un calculateur à partir de la commande et de ses
// remboursements existants.
func NewCalculator(order models.Order, existing []models.Refund) *Calculator {
	subtotals := make(map[string]float64, len(order.Items))
	for _, item := range order.Items {
		subtotals[item.ProductID] = item.Subtotal
	}
	return &Calculator{
		order:     order,
		refunds:   existing,
		refunded:  ResolveRefundedItems(order, existing),
		subtotals: subtotals,
		state:     StateUnselected,
		selected:  make(map[string]bool),
	}
}

func (calc *Calculator) State() State { return calc.state }
func (calc *Calculator) Mode() Mode   { return calc.mode }

// RemainingAmount retourne le restant remboursable
func (calc *Calculator) RemainingAmount() float64 {
	return RemainingAmount(calc.order, calc.refunds)
}

// ItemRefundable indique si un article peut encore être sélectionné
func (calc *Calculator) ItemRefundable(productID string) bool {
	_, known := calc.subtotals[productID]
	return known && !calc.refunded[productID]
}

// SelectFull choisit le remboursement intégral du restant
func (calc *Calculator) SelectFull() {
	calc.mode = ModeFull
	calc.state = StateReady
}

// SelectByItems choisit le remboursement partiel par articles
func (calc *Calculator) SelectByItems() {
	calc.mode = ModeByItems
	calc.state = StateReady
}

// SelectCustom choisit le montant libre. Au premier passage, le montant
// est initialisé à la moitié du restant remboursable.
func (calc *Calculator) SelectCustom() {
	calc.mode = ModeCustom
	calc.state = StateReady
	if !calc.hasCustom || calc.custom == 0 {
		calc.custom = calc.RemainingAmount() / 2
		calc.hasCustom = true
	}
}

// SetCustomAmount fixe le montant saisi en mode libre
func (calc *Calculator) SetCustomAmount(amount float64) {
	calc.custom = amount
	calc.hasCustom = true
}

// ToggleItem sélectionne ou désélectionne un article en mode par articles.
// Un article déjà remboursé est refusé.
func (calc *Calculator) ToggleItem(productID string) error {
	if _, known := calc.subtotals[productID]; !known {
		return ErrUnknownItem
	}
	if calc.refunded[productID] {
		return ErrAlreadyRefunded
	}
	if calc.selected[productID] {
		delete(calc.selected, productID)
	} else {
		calc.selected[productID] = true
	}
	return nil
}

// SelectedItems retourne les articles actuellement cochés
func (calc *Calculator) SelectedItems() []string {
	ids := make([]string, 0, len(calc.selected))
	for id := range calc.selected {
		ids = append(ids, id)
	}
	return ids
}

// Amount dérive le montant à soumettre selon le mode courant
func (calc *Calculator) Amount() float64 {
	switch calc.mode {
	case ModeFull:
		return calc.RemainingAmount()
	case ModeByItems:
		var total float64
		for id := range calc.selected {
			total += calc.subtotals[id]
		}
		return total
	case ModeCustom:
		return calc.custom
	default:
		return 0
	}
}

// Validate vérifie le montant avant toute soumission. La comparaison au
// restant est stricte, sans tolérance d'arrondi.
func (calc *Calculator) Validate() error {
	if calc.mode == ModeNone {
		return ErrNotReady
	}
	if calc.mode == ModeByItems && len(calc.selected) == 0 {
		return ErrNoItemSelected
	}
	amount := calc.Amount()
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if remaining := calc.RemainingAmount(); amount > remaining {
		return ExceedsRemainingError{Remaining: remaining}
	}
	return nil
}

// BeginSubmit valide puis passe en soumission. En cas d'erreur de
// validation, aucun appel réseau ne doit être fait.
func (calc *Calculator) BeginSubmit() error {
	if err := calc.Validate(); err != nil {
		return err
	}
	calc.state = StateSubmitting
	return nil
}

// CompleteSubmit termine la soumission. Un échec conserve le mode et la
// sélection : une nouvelle soumission reste possible sans repasser par
// unselected.
func (calc *Calculator) CompleteSubmit(err error) {
	if calc.state != StateSubmitting {
		return
	}
	if err != nil {
		calc.state = StateFailed
		return
	}
	calc.state = StateSucceeded
}

// Retry repasse à l'état ready après un échec de soumission
func (calc *Calculator) Retry() {
	if calc.state == StateFailed {
		calc.state = StateReady
	}
}
