package journal

import "errors"

var (
	ErrInvalidUserID = errors.New("invalid user ID")
	ErrMissingTitle  = errors.New("entry title is required")
	ErrTitleTooLong  = errors.New("entry title exceeds 200 characters")
	ErrEntryNotFound = errors.New("journal entry not found")
	ErrUnauthorized  = errors.New("unauthorized journal access")
)
