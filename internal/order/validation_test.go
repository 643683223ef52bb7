package order

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCardForm() CheckoutForm {
	return CheckoutForm{
		Name:          "Jan Kowalski",
		Phone:         "+48 600 700 800",
		Street:        "Długa 12",
		City:          "Gdańsk",
		PostalCode:    "80-001",
		Delivery:      "courier",
		PaymentMethod: PaymentCard,
		CardNumber:    "4111 1111 1111 1111",
		CardExpiry:    "12/27",
		CardCVV:       "123",
	}
}

func TestValidateCheckoutForm(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*CheckoutForm)
		wantField string
	}{
		{"valid card form", func(f *CheckoutForm) {}, ""},
		{"valid blik form", func(f *CheckoutForm) {
			f.PaymentMethod = PaymentBlik
			f.BlikCode = "123456"
		}, ""},
		{"valid cash form", func(f *CheckoutForm) {
			f.PaymentMethod = PaymentCash
		}, ""},
		{"missing name", func(f *CheckoutForm) { f.Name = "" }, "name"},
		{"whitespace name", func(f *CheckoutForm) { f.Name = "   " }, "name"},
		{"missing phone", func(f *CheckoutForm) { f.Phone = "" }, "phone"},
		{"missing street", func(f *CheckoutForm) { f.Street = "" }, "street"},
		{"missing city", func(f *CheckoutForm) { f.City = "" }, "city"},
		{"missing postal code", func(f *CheckoutForm) { f.PostalCode = "" }, "postalCode"},
		{"malformed postal code", func(f *CheckoutForm) { f.PostalCode = "80001" }, "postalCode"},
		{"postal code wrong shape", func(f *CheckoutForm) { f.PostalCode = "8-0001" }, "postalCode"},
		{"missing delivery", func(f *CheckoutForm) { f.Delivery = "" }, "delivery"},
		{"missing payment method", func(f *CheckoutForm) { f.PaymentMethod = "" }, "paymentMethod"},
		{"unknown payment method", func(f *CheckoutForm) { f.PaymentMethod = "gold" }, "paymentMethod"},
		{"card missing details", func(f *CheckoutForm) { f.CardNumber = "" }, "card"},
		{"card number too short", func(f *CheckoutForm) { f.CardNumber = "411111111111" }, "cardNumber"},
		{"card number letters", func(f *CheckoutForm) { f.CardNumber = "4111abcd11111111" }, "cardNumber"},
		{"card expiry bad month", func(f *CheckoutForm) { f.CardExpiry = "13/27" }, "cardExpiry"},
		{"card expiry bad shape", func(f *CheckoutForm) { f.CardExpiry = "122027" }, "cardExpiry"},
		{"cvv too short", func(f *CheckoutForm) { f.CardCVV = "12" }, "cardCvv"},
		{"cvv too long", func(f *CheckoutForm) { f.CardCVV = "12345" }, "cardCvv"},
		{"blik missing code", func(f *CheckoutForm) {
			f.PaymentMethod = PaymentBlik
			f.BlikCode = ""
		}, "blikCode"},
		{"blik short code", func(f *CheckoutForm) {
			f.PaymentMethod = PaymentBlik
			f.BlikCode = "12345"
		}, "blikCode"},
		{"blik non-digit code", func(f *CheckoutForm) {
			f.PaymentMethod = PaymentBlik
			f.BlikCode = "12a456"
		}, "blikCode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validCardForm()
			tt.mutate(&form)

			err := ValidateCheckoutForm(form)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestValidateCheckoutForm_CardNumberSpacesStripped(t *testing.T) {
	form := validCardForm()
	form.CardNumber = "4111 1111 1111 1111"

	assert.NoError(t, ValidateCheckoutForm(form))
}

func TestRedactPaymentDetails(t *testing.T) {
	t.Run("card keeps last four and expiry", func(t *testing.T) {
		form := validCardForm()

		d := redactPaymentDetails(form)
		require.NotNil(t, d)
		assert.Equal(t, "1111", d.LastFourDigits)
		assert.Equal(t, "12/27", d.ExpiryDate)
		assert.False(t, d.BlikUsed)
	})

	t.Run("blik keeps only the flag", func(t *testing.T) {
		form := validCardForm()
		form.PaymentMethod = PaymentBlik
		form.BlikCode = "123456"

		d := redactPaymentDetails(form)
		require.NotNil(t, d)
		assert.True(t, d.BlikUsed)
		assert.Empty(t, d.LastFourDigits)
	})

	t.Run("cash has no details", func(t *testing.T) {
		form := validCardForm()
		form.PaymentMethod = PaymentCash

		assert.Nil(t, redactPaymentDetails(form))
	})
}

func TestDeliveryCostFor(t *testing.T) {
	tests := []struct {
		method string
		want   int64
	}{
		{"courier", 15},
		{"inpost", 12},
		{"post", 10},
		{"pickup", 0},
		{"carrier-pigeon", 0},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			assert.True(t, DeliveryCostFor(tt.method).Equal(decimal.NewFromInt(tt.want)))
		})
	}
}
