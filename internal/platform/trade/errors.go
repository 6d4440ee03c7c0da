package trade

import "errors"

var (
	// Validation errors
	ErrInvalidUserID          = errors.New("invalid user ID")
	ErrInvalidTradeID         = errors.New("invalid trade ID")
	ErrMissingContractAddress = errors.New("contract address is required")
	ErrNegativeAmount         = errors.New("amounts must be non-negative")
	ErrInvalidSource          = errors.New("invalid trade source")

	// Repository errors
	ErrTradeNotFound      = errors.New("trade not found")
	ErrDuplicateSignature = errors.New("trade with this transaction signature already exists for the user")
	ErrUnauthorizedAccess = errors.New("unauthorized trade access")
)
