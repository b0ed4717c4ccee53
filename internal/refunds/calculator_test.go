package refunds

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrine_back_end/internal/models"
)

func TestCalculatorFullModeNoPriorRefunds(t *testing.T) {
	order := testOrder(100, item("A", 60), item("B", 40))
	calc := NewCalculator(order, nil)

	require.Equal(t, StateUnselected, calc.State())
	require.Equal(t, 100.0, calc.RemainingAmount())

	calc.SelectFull()
	assert.Equal(t, StateReady, calc.State())
	assert.Equal(t, 100.0, calc.Amount())

	require.NoError(t, calc.BeginSubmit())
	assert.Equal(t, StateSubmitting, calc.State())
	calc.CompleteSubmit(nil)
	assert.Equal(t, StateSucceeded, calc.State())
}

func TestCalculatorByItemsAmountIsExactSubtotalSum(t *testing.T) {
	order := testOrder(100, item("A", 60), item("B", 25), item("C", 15))
	calc := NewCalculator(order, nil)
	calc.SelectByItems()

	require.NoError(t, calc.ToggleItem("B"))
	require.NoError(t, calc.ToggleItem("C"))
	assert.Equal(t, 40.0, calc.Amount())

	// désélection sans dérive
	require.NoError(t, calc.ToggleItem("C"))
	assert.Equal(t, 25.0, calc.Amount())
	require.NoError(t, calc.ToggleItem("C"))
	assert.Equal(t, 40.0, calc.Amount())
}

func TestCalculatorByItemsRejectsRefundedItem(t *testing.T) {
	// Scénario : commande de 100€, un remboursement de 60€ couvrant A
	order := testOrder(100, item("A", 60), item("B", 25), item("C", 15))
	prior := []models.Refund{{Amount: 60, ItemIDs: []string{"A"}}}
	calc := NewCalculator(order, prior)

	require.Equal(t, 40.0, calc.RemainingAmount())
	assert.False(t, calc.ItemRefundable("A"))
	assert.True(t, calc.ItemRefundable("B"))

	calc.SelectByItems()
	assert.ErrorIs(t, calc.ToggleItem("A"), ErrAlreadyRefunded)
	require.NoError(t, calc.ToggleItem("B"))
	assert.Equal(t, 25.0, calc.Amount())
	require.NoError(t, calc.BeginSubmit())
}

func TestCalculatorByItemsRequiresSelection(t *testing.T) {
	order := testOrder(100, item("A", 100))
	calc := NewCalculator(order, nil)
	calc.SelectByItems()

	assert.ErrorIs(t, calc.Validate(), ErrNoItemSelected)
	assert.ErrorIs(t, calc.BeginSubmit(), ErrNoItemSelected)
	assert.Equal(t, StateReady, calc.State())
}

func TestCalculatorCustomDefaultsToHalfRemaining(t *testing.T) {
	order := testOrder(100, item("A", 100))
	calc := NewCalculator(order, []models.Refund{{Amount: 60}})

	calc.SelectCustom()
	assert.Equal(t, 20.0, calc.Amount())

	// le montant saisi survit à un aller-retour de mode
	calc.SetCustomAmount(30)
	calc.SelectFull()
	calc.SelectCustom()
	assert.Equal(t, 30.0, calc.Amount())
}

func TestCalculatorCustomExceedsRemaining(t *testing.T) {
	// Scénario : restant 40€, saisie 50€
	order := testOrder(100, item("A", 100))
	calc := NewCalculator(order, []models.Refund{{Amount: 60}})

	calc.SelectCustom()
	calc.SetCustomAmount(50)

	err := calc.Validate()
	var exceeds ExceedsRemainingError
	require.True(t, errors.As(err, &exceeds))
	assert.Equal(t, 40.0, exceeds.Remaining)
	assert.Contains(t, err.Error(), "40.00")
}

func TestCalculatorRejectsNonPositiveAmount(t *testing.T) {
	order := testOrder(100, item("A", 100))
	calc := NewCalculator(order, nil)

	calc.SelectCustom()
	calc.SetCustomAmount(0)
	assert.ErrorIs(t, calc.Validate(), ErrInvalidAmount)

	calc.SetCustomAmount(-5)
	assert.ErrorIs(t, calc.Validate(), ErrInvalidAmount)
}

func TestCalculatorStrictComparisonAgainstRemaining(t *testing.T) {
	// La validation est stricte : pas de tolérance d'arrondi côté soumission
	order := testOrder(100, item("A", 100))
	calc := NewCalculator(order, []models.Refund{{Amount: 60}})

	calc.SelectCustom()
	calc.SetCustomAmount(40.001)
	var exceeds ExceedsRemainingError
	assert.True(t, errors.As(calc.Validate(), &exceeds))

	calc.SetCustomAmount(40)
	assert.NoError(t, calc.Validate())
}

func TestCalculatorAcceptedSubmissionInvariant(t *testing.T) {
	// Toute soumission acceptée vérifie 0 < montant ≤ restant
	order := testOrder(100, item("A", 60), item("B", 40))
	prior := []models.Refund{{Amount: 25, ItemIDs: []string{"B"}}}

	cases := []struct {
		name  string
		setup func(*Calculator)
	}{
		{"total", func(c *Calculator) { c.SelectFull() }},
		{"par articles", func(c *Calculator) {
			c.SelectByItems()
			_ = c.ToggleItem("A")
		}},
		{"montant libre", func(c *Calculator) { c.SelectCustom() }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calc := NewCalculator(order, prior)
			tc.setup(calc)
			require.NoError(t, calc.BeginSubmit())
			amount := calc.Amount()
			assert.Greater(t, amount, 0.0)
			assert.LessOrEqual(t, amount, RemainingAmount(order, prior))
		})
	}
}

func TestCalculatorFailureKeepsSelection(t *testing.T) {
	order := testOrder(100, item("A", 60), item("B", 40))
	calc := NewCalculator(order, nil)

	calc.SelectByItems()
	require.NoError(t, calc.ToggleItem("A"))
	require.NoError(t, calc.BeginSubmit())

	calc.CompleteSubmit(errors.New("stripe indisponible"))
	assert.Equal(t, StateFailed, calc.State())

	// la sélection et le mode survivent à l'échec
	calc.Retry()
	assert.Equal(t, StateReady, calc.State())
	assert.Equal(t, ModeByItems, calc.Mode())
	assert.Equal(t, 60.0, calc.Amount())
	require.NoError(t, calc.BeginSubmit())
	calc.CompleteSubmit(nil)
	assert.Equal(t, StateSucceeded, calc.State())
}

func TestCalculatorValidationBlocksWithoutMode(t *testing.T) {
	order := testOrder(100, item("A", 100))
	calc := NewCalculator(order, nil)
	assert.ErrorIs(t, calc.BeginSubmit(), ErrNotReady)
}
