package domain

// PaymentMethodType represents how a ride is paid for.
type PaymentMethodType string

const (
	PaymentTypeCash      PaymentMethodType = "CASH"
	PaymentTypeCard      PaymentMethodType = "CARD"
	PaymentTypeGooglePay PaymentMethodType = "GOOGLE_PAY"
	PaymentTypePhonePe   PaymentMethodType = "PHONE_PE"
)

// Interactive reports whether the method requires an explicit confirmation
// inside a wallet surface before processing starts.
func (t PaymentMethodType) Interactive() bool {
	return t == PaymentTypeGooglePay || t == PaymentTypePhonePe
}

// PaymentMethod is a payment option supplied by the surrounding
// application; the core reads it, never mutates it.
type PaymentMethod struct {
	ID    string
	Type  PaymentMethodType
	Brand string
	Last4 string
}
