package wallet

import "errors"

var (
	// Validation errors
	ErrInvalidUserID   = errors.New("invalid user ID")
	ErrInvalidWalletID = errors.New("invalid wallet ID")
	ErrLabelTooLong    = errors.New("wallet label exceeds 100 characters")
	ErrMissingAddress  = errors.New("wallet address is required")
	ErrInvalidAddress  = errors.New("invalid Solana address (must be 32-44 base58 characters)")

	// Repository errors
	ErrWalletNotFound     = errors.New("tracked wallet not found")
	ErrDuplicateAddress   = errors.New("wallet address is already tracked by this user")
	ErrUnauthorizedAccess = errors.New("unauthorized wallet access")
)
