package checkout

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNotAuthenticated   = errors.New("login required to checkout")
	ErrInvalidMethod      = errors.New("payment method must be cod or online")
	ErrIncompleteShipping = errors.New("full name, phone, address and city are required")
	ErrPaymentFailed      = errors.New("payment was not completed")
)
