package store

import "errors"

// Faults of the store adapter. Every failing call wraps exactly one of them.
var (
	ErrNotFound        = errors.New("no value stored")
	ErrSerialization   = errors.New("value cannot be encoded")
	ErrDeserialization = errors.New("stored value cannot be decoded")
	ErrCapacity        = errors.New("storage limit exceeded")
	ErrUnavailable     = errors.New("storage unavailable")
)
