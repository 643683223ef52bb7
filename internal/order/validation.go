package order

import (
	"regexp"
	"strings"
)

var (
	postalCodeRe = regexp.MustCompile(`^\d{2}-\d{3}$`)
	cardNumberRe = regexp.MustCompile(`^\d{13,19}$`)
	cardExpiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cardCVVRe    = regexp.MustCompile(`^\d{3,4}$`)
	blikCodeRe   = regexp.MustCompile(`^\d{6}$`)
)

// ValidateCheckoutForm checks the delivery and payment input before any
// state is touched. The first offending field aborts the checkout.
func ValidateCheckoutForm(form CheckoutForm) error {
	required := []struct {
		field string
		value string
	}{
		{"name", form.Name},
		{"phone", form.Phone},
		{"street", form.Street},
		{"city", form.City},
		{"postalCode", form.PostalCode},
		{"delivery", form.Delivery},
		{"paymentMethod", form.PaymentMethod},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Message: "is required"}
		}
	}

	if !postalCodeRe.MatchString(form.PostalCode) {
		return &ValidationError{Field: "postalCode", Message: "must match format NN-NNN"}
	}

	switch form.PaymentMethod {
	case PaymentCard:
		if form.CardNumber == "" || form.CardExpiry == "" || form.CardCVV == "" {
			return &ValidationError{Field: "card", Message: "all card details are required"}
		}
		digits := strings.ReplaceAll(form.CardNumber, " ", "")
		if !cardNumberRe.MatchString(digits) {
			return &ValidationError{Field: "cardNumber", Message: "must be 13-19 digits"}
		}
		if !cardExpiryRe.MatchString(form.CardExpiry) {
			return &ValidationError{Field: "cardExpiry", Message: "must match format MM/YY"}
		}
		if !cardCVVRe.MatchString(form.CardCVV) {
			return &ValidationError{Field: "cardCvv", Message: "must be 3-4 digits"}
		}
	case PaymentBlik:
		if form.BlikCode == "" {
			return &ValidationError{Field: "blikCode", Message: "is required"}
		}
		if !blikCodeRe.MatchString(form.BlikCode) {
			return &ValidationError{Field: "blikCode", Message: "must be exactly 6 digits"}
		}
	case PaymentCash:
	default:
		return &ValidationError{Field: "paymentMethod", Message: "must be card, blik or cash"}
	}

	return nil
}

// redactPaymentDetails keeps only what order history may show: the last
// four card digits and the expiry, or the fact that BLIK was used.
func redactPaymentDetails(form CheckoutForm) *PaymentDetails {
	switch form.PaymentMethod {
	case PaymentCard:
		digits := strings.ReplaceAll(form.CardNumber, " ", "")
		return &PaymentDetails{
			LastFourDigits: digits[len(digits)-4:],
			ExpiryDate:     form.CardExpiry,
		}
	case PaymentBlik:
		return &PaymentDetails{BlikUsed: true}
	default:
		return nil
	}
}
