package shop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shop-backoffice/internal/shop"
)

func TestEnumValidity(t *testing.T) {
	assert.True(t, shop.GenderMale.Valid())
	assert.True(t, shop.GenderUnisex.Valid())
	assert.False(t, shop.Gender("robot").Valid())
	assert.False(t, shop.Gender("").Valid())

	assert.True(t, shop.OrderProcessing.Valid())
	assert.True(t, shop.OrderShipped.Valid())
	assert.False(t, shop.OrderStatus("cancelled").Valid())

	assert.True(t, shop.PaymentCreditCard.Valid())
	assert.True(t, shop.PaymentOnline.Valid())
	assert.False(t, shop.PaymentMethod("cash").Valid())
}
