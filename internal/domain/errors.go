package domain

import "errors"

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrRemoteUnavailable = errors.New("finance api unavailable")

	// Money
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrMixedCurrency   = errors.New("mixed currencies")
	ErrAmountOverflow  = errors.New("amount out of range")

	// Periods
	ErrEmptyRange = errors.New("custom period requires at least one bound")

	// Projections
	ErrInvalidSimulationInput = errors.New("invalid simulation input")
	ErrDivisionByZero         = errors.New("division by zero")
	ErrInvalidInvestment      = errors.New("investment cannot be valued")

	// Transactions
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrDescriptionRequired    = errors.New("description is required")
	ErrDescriptionTooLong     = errors.New("description exceeds maximum length")
	ErrCategoryRequired       = errors.New("category is required")
	ErrCategoryTypeMismatch   = errors.New("category type does not match transaction type")
)

// Validation constants
const (
	MaxDescriptionLength  = 255
	MaxCategoryNameLength = 100
)
