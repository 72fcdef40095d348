package domain

import "errors"

var (
	ErrValidation             = errors.New("invalid checkout input")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrProductNotFound        = errors.New("product not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrAmountMismatch         = errors.New("amount mismatch")
	ErrInvalidSignature       = errors.New("invalid notification signature")
	ErrUnverifiedNotification = errors.New("notification failed gateway verification")
)
