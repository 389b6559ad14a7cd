package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameProduct(t *testing.T) {
	v3, v3b, v4 := int64(3), int64(3), int64(4)

	base := CartLine{ProductID: 10, VariantID: &v3}
	assert.True(t, base.SameProduct(10, &v3b), "matches by variant value, not pointer")
	assert.False(t, base.SameProduct(10, &v4))
	assert.False(t, base.SameProduct(10, nil))
	assert.False(t, base.SameProduct(11, &v3))

	plain := CartLine{ProductID: 10}
	assert.True(t, plain.SameProduct(10, nil))
	assert.False(t, plain.SameProduct(10, &v3))
}

func TestSubtotal(t *testing.T) {
	l := CartLine{PriceKRW: 13500, Quantity: 3}
	assert.Equal(t, int64(40500), l.Subtotal())
}

func TestDiscountPct(t *testing.T) {
	assert.Equal(t, 20, Product{PriceOriginal: 10000, PriceFinal: 8000}.DiscountPct())
	assert.Equal(t, 0, Product{PriceOriginal: 0, PriceFinal: 8000}.DiscountPct())
	assert.Equal(t, 0, Product{PriceOriginal: 8000, PriceFinal: 8000}.DiscountPct())
}

func TestOrderCancellable(t *testing.T) {
	assert.True(t, Order{Status: OrderStatusPending}.Cancellable())
	assert.True(t, Order{Status: OrderStatusPaid}.Cancellable())
	assert.False(t, Order{Status: OrderStatusShipped}.Cancellable())
	assert.False(t, Order{Status: OrderStatusCancelled}.Cancellable())
}
