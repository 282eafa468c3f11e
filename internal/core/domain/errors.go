package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalid       = errors.New("invalid value")
	ErrConflict      = errors.New("already exists")
	ErrForbidden     = errors.New("forbidden")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrNotIdentified = errors.New("identity required")
	ErrOutOfStock    = errors.New("not enough stock")
)
