package domain

import "errors"

// Validation failures are recoverable: the caller reports them and keeps
// going. Anything else coming out of a repository is a write/read failure
// and aborts the surrounding operation.
var (
	ErrStoreNotFound   = errors.New("store not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrLoginTaken      = errors.New("login already taken")
	ErrBadCredentials  = errors.New("login and password do not match")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrNotAuthorized   = errors.New("not authorized")
)
