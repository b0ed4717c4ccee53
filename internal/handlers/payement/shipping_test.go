package pa

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83"

	"vitrine_back_end/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func getShippingOptions(t *testing.T, query string) models.ShippingCalculation {
	t.Helper()

	r := gin.New()
	r.GET("/shipping/options", GetShippingOptions)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/shipping/options"+query, nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var calc models.ShippingCalculation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &calc))
	return calc
}

func TestGetShippingOptions(t *testing.T) {
	calc := getShippingOptions(t, "?cart_total=30")

	assert.False(t, calc.IsFree)
	assert.Equal(t, 30.0, calc.CartTotal)
	require.Len(t, calc.Options, 3)
	assert.Equal(t, 5.99, calc.Options[0].Price)
}

func TestGetShippingOptionsFreeAboveThreshold(t *testing.T) {
	calc := getShippingOptions(t, "?cart_total=75.50")

	assert.True(t, calc.IsFree)
	assert.Equal(t, 0.0, calc.Options[0].Price)
	assert.Equal(t, "Livraison Standard Gratuite", calc.Options[0].Name)
}

func TestGetShippingOptionsIgnoresInvalidTotal(t *testing.T) {
	calc := getShippingOptions(t, "?cart_total=abc")

	assert.False(t, calc.IsFree)
	assert.Equal(t, 0.0, calc.CartTotal)
}

func TestCalcTotal(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "a", Price: 10, Quantity: 2},
		{ProductID: "b", Price: 5.5, Quantity: 1},
	}
	assert.Equal(t, 25.5, calcTotal(items))
	assert.Equal(t, 0.0, calcTotal(nil))
}

func TestPromoPercentDiscount(t *testing.T) {
	_, ok := promoPercentDiscount(nil)
	assert.False(t, ok)

	_, ok = promoPercentDiscount(&stripe.PromotionCode{})
	assert.False(t, ok)

	_, ok = promoPercentDiscount(&stripe.PromotionCode{Promotion: &stripe.PromotionCodePromotion{}})
	assert.False(t, ok)

	_, ok = promoPercentDiscount(&stripe.PromotionCode{
		Promotion: &stripe.PromotionCodePromotion{Coupon: &stripe.Coupon{}},
	})
	assert.False(t, ok)

	discount, ok := promoPercentDiscount(&stripe.PromotionCode{
		Promotion: &stripe.PromotionCodePromotion{Coupon: &stripe.Coupon{PercentOff: 20}},
	})
	assert.True(t, ok)
	assert.Equal(t, 0.2, discount)
}

func TestBuildOrderItemsFreezesPrices(t *testing.T) {
	items := buildOrderItems([]models.CartItem{
		{ProductID: "a", Name: "Tasse", Price: 12.5, Quantity: 2},
	})

	require.Len(t, items, 1)
	assert.Equal(t, 25.0, items[0].Subtotal)
	assert.Equal(t, 12.5, items[0].UnitPrice)
	assert.NotEmpty(t, items[0].ReservationID)
}
