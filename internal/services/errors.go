package services

import "errors"

var (
	ErrBadCreds   = errors.New("invalid email or password")
	ErrEmailTaken = errors.New("email already registered")
	ErrNotFound   = errors.New("not found")

	// Payment flow. Signature errors never carry the expected value.
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrMissingPaymentFields = errors.New("missing payment details")
	ErrSignatureMismatch    = errors.New("payment verification failed")
	ErrMalformedPayload     = errors.New("invalid payload")
)
