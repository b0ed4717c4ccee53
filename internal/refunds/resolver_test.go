package refunds

import (
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrine_back_end/internal/models"
)

func testOrder(total float64, items ...models.OrderItem) models.Order {
	id, _ := gocql.RandomUUID()
	return models.Order{
		ID:          id,
		TotalAmount: total,
		Items:       items,
		Status:      models.OrderStatusProcessing,
	}
}

func item(id string, subtotal float64) models.OrderItem {
	return models.OrderItem{ProductID: id, Name: "article " + id, UnitPrice: subtotal, Quantity: 1, Subtotal: subtotal}
}

func TestResolveRefundedItemsExplicitItemList(t *testing.T) {
	order := testOrder(100, item("A", 60), item("B", 25), item("C", 15))
	refunds := []models.Refund{
		{Amount: 60, ItemIDs: []string{"A"}},
		{Amount: 15, ItemIDs: []string{"C"}},
	}

	refunded := ResolveRefundedItems(order, refunds)

	assert.True(t, refunded["A"])
	assert.True(t, refunded["C"])
	assert.False(t, refunded["B"])
}

func TestResolveRefundedItemsFullAmountCoversWholeOrder(t *testing.T) {
	order := testOrder(100, item("A", 60), item("B", 40))

	for _, amount := range []float64{100, 100.5, 99.995} {
		refunded := ResolveRefundedItems(order, []models.Refund{{Amount: amount}})
		assert.True(t, refunded["A"], "montant %v", amount)
		assert.True(t, refunded["B"], "montant %v", amount)
	}
}

func TestResolveRefundedItemsPartialAmountCoversNothing(t *testing.T) {
	order := testOrder(100, item("A", 60), item("B", 40))

	for _, amount := range []float64{99.98, 60, 0.01} {
		refunded := ResolveRefundedItems(order, []models.Refund{{Amount: amount}})
		assert.Empty(t, refunded, "montant %v", amount)
	}
}

func TestResolveRefundedItemsDeduplicates(t *testing.T) {
	order := testOrder(100, item("A", 60), item("B", 40))
	refunds := []models.Refund{
		{Amount: 60, ItemIDs: []string{"A", "A"}},
		{Amount: 100},
	}

	refunded := ResolveRefundedItems(order, refunds)
	assert.Len(t, refunded, 2)
}

func TestResolveRefundedItemsIdempotent(t *testing.T) {
	order := testOrder(100, item("A", 60), item("B", 40))
	refunds := []models.Refund{
		{Amount: 60, ItemIDs: []string{"A"}},
		{Amount: 40},
	}

	first := ResolveRefundedItems(order, refunds)
	second := ResolveRefundedItems(order, refunds)
	assert.Equal(t, first, second)
}

func TestRemainingAmount(t *testing.T) {
	order := testOrder(100, item("A", 100))

	require.Equal(t, 100.0, RemainingAmount(order, nil))
	require.Equal(t, 40.0, RemainingAmount(order, []models.Refund{{Amount: 60}}))
	require.Equal(t, 0.0, RemainingAmount(order, []models.Refund{{Amount: 60}, {Amount: 40}}))
}

func TestRemainingAmountIncludesFreshRefund(t *testing.T) {
	order := testOrder(100, item("A", 100))
	existing := []models.Refund{{Amount: 30}}

	// le restant annoncé après émission compte le remboursement tout juste émis
	emitted := models.Refund{Amount: 25}
	remaining := RemainingAmount(order, append(existing, emitted))

	assert.Equal(t, 45.0, remaining)
	assert.Equal(t, RemainingAmount(order, existing)-emitted.Amount, remaining)
}
